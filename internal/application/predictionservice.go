package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

const (
	// DefaultHistoryLimit is used when a caller asks for a non-positive limit.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single history listing.
	MaxHistoryLimit = 100
)

// PredictionService runs the prediction pipeline: authenticate, then score,
// then classify. Each run fetches a fresh token and shares nothing with other
// runs except the current API key.
type PredictionService struct {
	auth      driven.Authenticator
	predictor driven.Predictor
	keys      *APIKeyProvider
	store     driven.PredictionStore
	metrics   *Metrics
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewPredictionService creates a PredictionService. store and metrics may be
// nil, in which case runs are neither persisted nor measured.
func NewPredictionService(
	auth driven.Authenticator,
	predictor driven.Predictor,
	keys *APIKeyProvider,
	store driven.PredictionStore,
	metrics *Metrics,
	logger *slog.Logger,
) *PredictionService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for an empty or reserved tag name.
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(fmt.Sprintf("register finite validation: %v", err))
	}

	return &PredictionService{
		auth:      auth,
		predictor: predictor,
		keys:      keys,
		store:     store,
		metrics:   metrics,
		validate:  v,
		logger:    logger,
	}
}

// Validate checks the input record's bounds. The returned error wraps
// ErrInvalidInput and names every offending field.
func (s *PredictionService) Validate(input model.InputRecord) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// isFinite rejects NaN and the infinities, which satisfy or sidestep the
// numeric bound checks and cannot be encoded in a JSON payload.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "finite":
		return fmt.Sprintf("%s must be a finite number", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// Predict validates input and runs the pipeline once. Authentication failure
// stops the run before the inference endpoint is called.
//
// On a pipeline failure the returned Prediction carries OutcomeError together
// with the error; validation failures return a zero Prediction and are not
// recorded. Recording to the history store is best-effort.
func (s *PredictionService) Predict(ctx context.Context, input model.InputRecord) (model.Prediction, error) {
	if err := s.Validate(input); err != nil {
		return model.Prediction{}, err
	}

	started := time.Now()
	probability, err := s.run(ctx, input)

	pred := model.Prediction{
		ID:        uuid.NewString(),
		Input:     input,
		Duration:  time.Since(started),
		CreatedAt: started.UTC(),
	}
	if err != nil {
		pred.Outcome = model.OutcomeError
		pred.ErrorKind, pred.ErrorMessage = DescribeError(err)
		s.logger.Warn("prediction failed", "id", pred.ID, "kind", pred.ErrorKind, "error", err)
	} else {
		pred.Probability = probability
		pred.Outcome = model.Classify(probability)
		s.logger.Info("prediction complete",
			"id", pred.ID,
			"outcome", pred.Outcome,
			"probability", model.FormatProbability(probability),
			"duration", pred.Duration.Round(time.Millisecond),
		)
	}

	s.metrics.observeRun(pred.Outcome, pred.ErrorKind)
	s.record(ctx, pred)

	return pred, err
}

// run is the two-step call sequence.
func (s *PredictionService) run(ctx context.Context, input model.InputRecord) (float64, error) {
	apiKey := s.keys.Get()
	if apiKey == "" {
		return 0, ErrAPIKeyNotConfigured
	}

	authStarted := time.Now()
	token, err := s.auth.Authenticate(ctx, apiKey)
	s.metrics.observeUpstream("identity", authStarted, err)
	if err != nil {
		return 0, fmt.Errorf("authenticating: %w", err)
	}

	predictStarted := time.Now()
	probability, err := s.predictor.Predict(ctx, token, input)
	s.metrics.observeUpstream("inference", predictStarted, err)
	if err != nil {
		return 0, fmt.Errorf("scoring: %w", err)
	}

	return probability, nil
}

// record saves pred to the history store. Failures are logged only.
func (s *PredictionService) record(ctx context.Context, pred model.Prediction) {
	if s.store == nil {
		return
	}
	// Detached so a client disconnect does not drop the history row.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.store.Save(saveCtx, pred); err != nil {
		s.logger.Warn("failed to record prediction", "id", pred.ID, "error", err)
	}
}

// Recent returns up to limit recorded runs, newest first. A non-positive limit
// means DefaultHistoryLimit; limits above MaxHistoryLimit are capped.
func (s *PredictionService) Recent(ctx context.Context, limit int) ([]model.Prediction, error) {
	if s.store == nil {
		return []model.Prediction{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	preds, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	if preds == nil {
		preds = []model.Prediction{}
	}
	return preds, nil
}

// Get returns one recorded run, or (nil, nil) if it does not exist.
func (s *PredictionService) Get(ctx context.Context, id string) (*model.Prediction, error) {
	if s.store == nil {
		return nil, nil
	}
	pred, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting prediction %q: %w", id, err)
	}
	return pred, nil
}

// APIKeyConfigured reports whether a pipeline run can authenticate.
func (s *PredictionService) APIKeyConfigured() bool {
	return s.keys.HasKey()
}
