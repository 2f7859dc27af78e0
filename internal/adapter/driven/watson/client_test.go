package watson_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adview/internal/adapter/driven/watson"
	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

const (
	tokenPath   = "/identity/token"
	scoringPath = "/ml/v4/deployments/test/predictions"
)

// newTestClient creates a Client whose identity and scoring URLs both point at
// an httptest server running handler.
func newTestClient(t *testing.T, handler http.Handler) *watson.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := watson.NewClientWithHTTPClient(server.Client(), server.URL+tokenPath, server.URL+scoringPath)
	require.NoError(t, err)

	return client
}

var testInput = model.InputRecord{
	DailyTimeSpent:   80.23,
	Age:              31,
	AreaIncome:       68614.98,
	DailyInternetUse: 193.77,
	AdTopicLine:      "Monitored national standardization",
	City:             "West Jodi",
	Gender:           model.GenderMale,
	Country:          "Nauru",
	Timestamp:        "2016-03-13 20:35:42",
}

// scoringBody builds a deployment response with probability at values[0][1][0].
func scoringBody(probability float64) map[string]any {
	return map[string]any{
		"predictions": []any{
			map[string]any{
				"fields": []string{"prediction", "probability"},
				"values": []any{
					[]any{1, []float64{probability, 1 - probability}},
				},
			},
		},
	}
}

func TestAuthenticate_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, tokenPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("apikey"))
		assert.Equal(t, "urn:ibm:params:oauth:grant-type:apikey", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "abc123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	client := newTestClient(t, handler)
	token, err := client.Authenticate(context.Background(), "secret-key")

	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestAuthenticate_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errorCode":"BXNIM0415E"}`, http.StatusUnauthorized)
	})

	client := newTestClient(t, handler)
	token, err := client.Authenticate(context.Background(), "bad-key")

	require.Error(t, err)
	assert.Empty(t, token)

	var te *driven.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Equal(t, "authenticate", te.Op)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestAuthenticate_MissingAccessToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.Authenticate(context.Background(), "secret-key")

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrMalformedResponse)

	var te *driven.TransportError
	assert.False(t, errors.As(err, &te), "missing field is not a transport failure")
}

func TestAuthenticate_InvalidJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	client := newTestClient(t, handler)
	_, err := client.Authenticate(context.Background(), "secret-key")

	assert.ErrorIs(t, err, driven.ErrMalformedResponse)

	var te *driven.TransportError
	assert.False(t, errors.As(err, &te), "an undecodable body is not a transport failure")
}

func TestAuthenticate_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := watson.NewClientWithHTTPClient(http.DefaultClient, url+tokenPath, url+scoringPath)
	require.NoError(t, err)

	_, err = client.Authenticate(context.Background(), "secret-key")

	var te *driven.TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}

func TestPredict_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, scoringPath, r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			InputData []struct {
				Fields []string `json:"fields"`
				Values [][]any  `json:"values"`
			} `json:"input_data"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) ||
			!assert.Len(t, body.InputData, 1) ||
			!assert.Len(t, body.InputData[0].Values, 1) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, model.FeatureFields(), body.InputData[0].Fields)
		row := body.InputData[0].Values[0]
		if !assert.Len(t, row, 9) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, 80.23, row[0])
		assert.Equal(t, float64(31), row[1])
		assert.Equal(t, "Male", row[6])
		assert.Equal(t, "2016-03-13 20:35:42", row[8])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(scoringBody(0.73))
	})

	client := newTestClient(t, handler)
	probability, err := client.Predict(context.Background(), "abc123", testInput)

	require.NoError(t, err)
	assert.InDelta(t, 0.73, probability, 1e-9)
}

func TestPredict_MalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no predictions key", body: `{"result":[]}`},
		{name: "empty predictions", body: `{"predictions":[]}`},
		{name: "no values", body: `{"predictions":[{"fields":["prediction"]}]}`},
		{name: "value group not array", body: `{"predictions":[{"values":[42]}]}`},
		{name: "value group too short", body: `{"predictions":[{"values":[[1]]}]}`},
		{name: "probabilities not numbers", body: `{"predictions":[{"values":[[1,["a","b"]]]}]}`},
		{name: "probabilities empty", body: `{"predictions":[{"values":[[1,[]]]}]}`},
		{name: "probability null", body: `{"predictions":[{"values":[[1,[null]]]}]}`},
		{name: "probability null with others", body: `{"predictions":[{"values":[[1,[null,0.9]]]}]}`},
		{name: "probability not a number", body: `{"predictions":[{"values":[[1,["0.7",0.3]]]}]}`},
		{name: "not json", body: `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			client := newTestClient(t, handler)
			_, err := client.Predict(context.Background(), "abc123", testInput)

			require.Error(t, err)
			assert.ErrorIs(t, err, driven.ErrMalformedResponse)
		})
	}
}

func TestPredict_ServerError(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "deployment unavailable", http.StatusServiceUnavailable)
	})

	client := newTestClient(t, handler)
	_, err := client.Predict(context.Background(), "abc123", testInput)

	var te *driven.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Equal(t, "predict", te.Op)
	assert.Equal(t, int32(1), calls.Load(), "no retry on failure")
}

func TestNewClient_RejectsBadScheme(t *testing.T) {
	_, err := watson.NewClientWithHTTPClient(http.DefaultClient, "ftp://iam.example.com", "https://scoring.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}
