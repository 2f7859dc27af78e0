package driven

import (
	"context"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

// PredictionStore defines the driven port for prediction history persistence.
type PredictionStore interface {
	// Save inserts a completed pipeline run. Records are immutable once saved.
	Save(ctx context.Context, p model.Prediction) error

	// GetByID returns the record with the given ID, or (nil, nil) if absent.
	GetByID(ctx context.Context, id string) (*model.Prediction, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Prediction, error)
}
