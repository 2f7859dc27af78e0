package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PredictionResponse is the JSON representation of a pipeline run.
type PredictionResponse struct {
	ID              string            `json:"id"`
	Outcome         string            `json:"outcome"`
	Probability     *float64          `json:"probability"`
	ProbabilityText string            `json:"probability_text,omitempty"`
	Message         string            `json:"message"`
	ErrorKind       string            `json:"error_kind,omitempty"`
	DurationMS      int64             `json:"duration_ms"`
	CreatedAt       string            `json:"created_at"`
	Input           model.InputRecord `json:"input"`
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

func toPredictionResponse(p model.Prediction) PredictionResponse {
	resp := PredictionResponse{
		ID:         p.ID,
		Outcome:    string(p.Outcome),
		ErrorKind:  string(p.ErrorKind),
		DurationMS: p.Duration.Milliseconds(),
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		Input:      p.Input,
	}

	if p.Succeeded() {
		probability := p.Probability
		resp.Probability = &probability
		resp.ProbabilityText = p.ProbabilityText()
		resp.Message = p.Outcome.Message()
	} else {
		resp.Message = p.ErrorMessage
	}

	return resp
}
