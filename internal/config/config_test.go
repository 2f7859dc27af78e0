package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every ADVIEW_ env var that Load() reads.
var allConfigKeys = []string{
	"ADVIEW_API_KEY",
	"ADVIEW_IAM_URL",
	"ADVIEW_SCORING_URL",
	"ADVIEW_LISTEN_ADDR",
	"ADVIEW_DB_PATH",
	"ADVIEW_SECRET_KEY",
	"ADVIEW_HTTP_TIMEOUT",
	"ADVIEW_HISTORY_LIMIT",
}

// isolateConfigEnv saves and unsets all ADVIEW_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// noEnvFile returns a path that does not exist so LoadFile skips dotenv.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

const testScoringURL = "https://eu-de.ml.cloud.ibm.com/ml/v4/deployments/abc/predictions?version=2021-05-01"

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ADVIEW_API_KEY", "ibm-key")
	t.Setenv("ADVIEW_SCORING_URL", testScoringURL)
	t.Setenv("ADVIEW_IAM_URL", "https://iam.test.cloud.ibm.com/identity/token")
	t.Setenv("ADVIEW_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("ADVIEW_DB_PATH", "/tmp/test.db")
	t.Setenv("ADVIEW_HTTP_TIMEOUT", "5s")
	t.Setenv("ADVIEW_HISTORY_LIMIT", "25")
	t.Setenv("ADVIEW_SECRET_KEY", strings.Repeat("ab", 32))

	cfg, err := LoadFile(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "ibm-key", cfg.APIKey)
	assert.Equal(t, testScoringURL, cfg.ScoringURL)
	assert.Equal(t, "https://iam.test.cloud.ibm.com/identity/token", cfg.IAMURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ADVIEW_SCORING_URL", testScoringURL)

	cfg, err := LoadFile(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, DefaultIAMURL, cfg.IAMURL)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "adview.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Nil(t, cfg.SecretKey)
}

// TestLoad_MissingAPIKey verifies that a missing API key is not an error; a key
// can be supplied later through the settings page.
func TestLoad_MissingAPIKey(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ADVIEW_SCORING_URL", testScoringURL)

	cfg, err := LoadFile(noEnvFile(t))

	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_MissingScoringURL(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ADVIEW_API_KEY", "ibm-key")

	cfg, err := LoadFile(noEnvFile(t))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADVIEW_SCORING_URL")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "bad timeout", key: "ADVIEW_HTTP_TIMEOUT", value: "soon", wantErr: "ADVIEW_HTTP_TIMEOUT"},
		{name: "zero timeout", key: "ADVIEW_HTTP_TIMEOUT", value: "0s", wantErr: "must be positive"},
		{name: "bad history limit", key: "ADVIEW_HISTORY_LIMIT", value: "many", wantErr: "ADVIEW_HISTORY_LIMIT"},
		{name: "negative history limit", key: "ADVIEW_HISTORY_LIMIT", value: "-1", wantErr: "ADVIEW_HISTORY_LIMIT"},
		{name: "secret key not hex", key: "ADVIEW_SECRET_KEY", value: strings.Repeat("z", 64), wantErr: "ADVIEW_SECRET_KEY"},
		{name: "secret key too short", key: "ADVIEW_SECRET_KEY", value: "abcd", wantErr: "ADVIEW_SECRET_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("ADVIEW_SCORING_URL", testScoringURL)
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadFile(noEnvFile(t))

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolateConfigEnv(t)
	// Variables loaded by godotenv are process-wide; unset them afterwards.
	t.Cleanup(func() {
		for _, key := range allConfigKeys {
			os.Unsetenv(key)
		}
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "ADVIEW_SCORING_URL=" + testScoringURL + "\nADVIEW_API_KEY=from-dotenv\nADVIEW_DB_PATH=dotenv.db\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// Existing environment wins over the file.
	require.NoError(t, os.Setenv("ADVIEW_DB_PATH", "env.db"))

	cfg, err := LoadFile(envFile)

	require.NoError(t, err)
	assert.Equal(t, testScoringURL, cfg.ScoringURL)
	assert.Equal(t, "from-dotenv", cfg.APIKey)
	assert.Equal(t, "env.db", cfg.DBPath)
}
