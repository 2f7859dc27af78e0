// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/adview/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/adview/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/adview/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/adview/internal/application"
	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

const appTitle = "Advertisement Success Prediction"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	predictionSvc *application.PredictionService
	credentialSvc *application.CredentialService
	historyLimit  int
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. historyLimit is
// the number of recent runs listed under the form.
func NewHandler(
	predictionSvc *application.PredictionService,
	credentialSvc *application.CredentialService,
	historyLimit int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		credentialSvc: credentialSvc,
		historyLimit:  historyLimit,
		logger:        logger,
	}
}

// Index renders the empty prediction form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.predictPage(w, r, nil)
	h.render(w, r, http.StatusOK, "Predict", pages.Predict(page))
}

// Predict runs the pipeline for the submitted form and re-renders the page
// with the submitted values and the outcome panel.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	input, values, parseErrs := parseInputForm(r)
	if len(parseErrs) > 0 {
		page := h.predictPage(w, r, values)
		page.Errors = parseErrs
		h.render(w, r, http.StatusUnprocessableEntity, "Predict", pages.Predict(page))
		return
	}

	pred, err := h.predictionSvc.Predict(r.Context(), input)
	if errors.Is(err, application.ErrInvalidInput) {
		page := h.predictPage(w, r, values)
		page.Errors = validationMessages(err)
		h.render(w, r, http.StatusUnprocessableEntity, "Predict", pages.Predict(page))
		return
	}

	// Pipeline failures are part of the rendered outcome, not an HTTP error.
	page := h.predictPage(w, r, values)
	page.Result = toResultViewModel(pred)
	h.render(w, r, http.StatusOK, "Predict", pages.Predict(page))
}

// Settings renders the API key settings page.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	page := toSettingsViewModel(h.credentialSvc.Status(), csrfToken(w, r))
	h.render(w, r, http.StatusOK, "Settings", pages.Settings(page))
}

// SaveAPIKey stores the submitted API key and makes it active.
func (h *Handler) SaveAPIKey(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	err := h.credentialSvc.SaveAPIKey(r.Context(), r.PostFormValue("api_key"))
	h.renderSettingsResult(w, r, err, "API key saved.")
}

// DeleteAPIKey removes the stored API key.
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	err := h.credentialSvc.DeleteAPIKey(r.Context())
	h.renderSettingsResult(w, r, err, "Saved API key removed.")
}

func (h *Handler) renderSettingsResult(w http.ResponseWriter, r *http.Request, err error, success string) {
	page := toSettingsViewModel(h.credentialSvc.Status(), csrfToken(w, r))
	status := http.StatusOK

	switch {
	case err == nil:
		page.Flash, page.FlashVariant = success, vm.VariantSuccess
	case errors.Is(err, application.ErrInvalidInput):
		page.Flash, page.FlashVariant = strings.Join(validationMessages(err), "; "), vm.VariantError
		status = http.StatusUnprocessableEntity
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		page.Flash, page.FlashVariant = "Saving keys is disabled: set ADVIEW_SECRET_KEY to enable encrypted storage.", vm.VariantError
		status = http.StatusConflict
	default:
		h.logger.Error("failed to update API key", "error", err)
		page.Flash, page.FlashVariant = "Could not update the API key. See the server log for details.", vm.VariantError
		status = http.StatusInternalServerError
	}

	h.render(w, r, status, "Settings", pages.Settings(page))
}

// predictPage assembles the prediction page around the given form values.
// History is best-effort: a store failure leaves the table empty. A
// non-positive history limit hides it.
func (h *Handler) predictPage(w http.ResponseWriter, r *http.Request, values map[string]string) vm.PredictPageViewModel {
	var preds []model.Prediction
	if h.historyLimit > 0 {
		var err error
		preds, err = h.predictionSvc.Recent(r.Context(), h.historyLimit)
		if err != nil {
			h.logger.Warn("failed to load prediction history", "error", err)
		}
	}

	return vm.PredictPageViewModel{
		CSRFToken:        csrfToken(w, r),
		Fields:           toFormFields(values),
		History:          toHistoryRows(preds),
		HelpHTML:         helpHTML(),
		APIKeyConfigured: h.predictionSvc.APIKeyConfigured(),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	layout := templates.Layout(title+" | "+appTitle, content)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

// validationMessages splits a wrapped ErrInvalidInput into its field messages.
func validationMessages(err error) []string {
	msg := strings.TrimPrefix(err.Error(), application.ErrInvalidInput.Error()+": ")
	return strings.Split(msg, "; ")
}
