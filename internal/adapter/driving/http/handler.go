// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/adview/internal/application"
	"github.com/ericfisherdev/adview/internal/domain/model"
)

// maxRequestBody bounds the size of a prediction request body.
const maxRequestBody = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	predictionSvc *application.PredictionService
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(predictionSvc *application.PredictionService, logger *slog.Logger) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		logger:        logger,
	}
}

// RegisterAPIRoutes registers the JSON API on mux. gatherer backs /metrics;
// pass nil to leave the metrics endpoint unregistered.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler, gatherer prometheus.Gatherer) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("POST /api/v1/predictions", h.CreatePrediction)
	mux.HandleFunc("GET /api/v1/predictions", h.ListPredictions)
	mux.HandleFunc("GET /api/v1/predictions/{id}", h.GetPrediction)

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware.
func NewServeMux(h *Handler, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h, gatherer)
	return ApplyMiddleware(mux, logger)
}

// Health reports liveness and whether predictions can authenticate.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		APIKeyConfigured: h.predictionSvc.APIKeyConfigured(),
	})
}

// CreatePrediction runs the pipeline for the JSON input record in the body.
// Pipeline failures still return the recorded run, with 502 for transport
// failures and 500 for anything else.
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var input model.InputRecord
	if err := dec.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pred, err := h.predictionSvc.Predict(r.Context(), input)
	if err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		status := http.StatusInternalServerError
		if pred.ErrorKind == model.ErrorKindTransport {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, toPredictionResponse(pred))
		return
	}

	writeJSON(w, http.StatusOK, toPredictionResponse(pred))
}

// ListPredictions returns recent pipeline runs, newest first.
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	preds, err := h.predictionSvc.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list predictions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PredictionResponse, 0, len(preds))
	for _, p := range preds {
		resp = append(resp, toPredictionResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPrediction returns a single recorded run by ID.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	pred, err := h.predictionSvc.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get prediction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if pred == nil {
		writeError(w, http.StatusNotFound, "prediction not found")
		return
	}

	writeJSON(w, http.StatusOK, toPredictionResponse(*pred))
}
