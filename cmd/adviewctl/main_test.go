package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adview/internal/application"
)

// setupEnv points the CLI at fake identity and scoring servers and a
// throwaway database.
func setupEnv(t *testing.T, iam, scoring http.HandlerFunc) {
	t.Helper()

	iamSrv := httptest.NewServer(iam)
	t.Cleanup(iamSrv.Close)
	scoringSrv := httptest.NewServer(scoring)
	t.Cleanup(scoringSrv.Close)

	t.Setenv("ADVIEW_API_KEY", "test-key")
	t.Setenv("ADVIEW_IAM_URL", iamSrv.URL)
	t.Setenv("ADVIEW_SCORING_URL", scoringSrv.URL)
	t.Setenv("ADVIEW_DB_PATH", filepath.Join(t.TempDir(), "adview.db"))
	t.Setenv("ADVIEW_SECRET_KEY", "")
}

func tokenHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
}

func scoringHandler(probability float64) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []any{
				map[string]any{
					"fields": []string{"prediction", "probability"},
					"values": []any{[]any{1, []float64{probability, 1 - probability}}},
				},
			},
		})
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

var predictArgs = []string{
	"predict",
	"--daily-time", "68.95",
	"--age", "35",
	"--area-income", "61833.90",
	"--daily-internet-use", "256.09",
	"--ad-topic-line", "Cloned 5thgeneration orchestration",
	"--city", "Wrightburgh",
	"--gender", "Female",
	"--country", "Tunisia",
	"--timestamp", "2016-03-27 00:53:11",
}

func TestPredictCmd_PrintsOutcomeAndRecordsHistory(t *testing.T) {
	setupEnv(t, tokenHandler, scoringHandler(0.73))

	stdout, _, err := execute(t, predictArgs...)
	require.NoError(t, err)
	assert.Equal(t,
		"Based on the above factors, the user is likely to view the advertisement.\nProbability of viewing: 73.00%\n",
		stdout,
	)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OUTCOME")
	assert.Contains(t, stdout, "likely")
	assert.Contains(t, stdout, "73.00%")
	assert.Contains(t, stdout, "Tunisia")
}

func TestPredictCmd_Unlikely(t *testing.T) {
	setupEnv(t, tokenHandler, scoringHandler(0.1234))

	stdout, _, err := execute(t, predictArgs...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "unlikely to view")
	assert.Contains(t, stdout, "Probability of viewing: 12.34%")
}

func TestPredictCmd_AuthFailureSkipsScoring(t *testing.T) {
	scored := false
	setupEnv(t,
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
		func(w http.ResponseWriter, r *http.Request) {
			scored = true
			scoringHandler(0.9)(w, r)
		},
	)

	stdout, stderr, err := execute(t, predictArgs...)
	require.ErrorIs(t, err, errPredictionFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "An error occurred while making the prediction")
	assert.False(t, scored)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "error")
}

func TestPredictCmd_InvalidInput(t *testing.T) {
	setupEnv(t, tokenHandler, scoringHandler(0.9))

	args := append([]string{}, predictArgs...)
	args = append(args, "--age", "150")

	_, _, err := execute(t, args...)
	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Contains(t, err.Error(), "age must be at most 120")
}

func TestHistoryCmd_Empty(t *testing.T) {
	setupEnv(t, tokenHandler, scoringHandler(0.5))

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No predictions recorded.\n", stdout)
}
