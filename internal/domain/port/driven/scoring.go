package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

// ErrMalformedResponse is returned when an upstream response decodes but lacks
// the expected field or shape.
var ErrMalformedResponse = errors.New("malformed upstream response")

// TransportError reports a network failure or a non-2xx HTTP response from an
// upstream endpoint.
type TransportError struct {
	Op         string // "authenticate" or "predict"
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Authenticator exchanges a long-lived API key for a short-lived bearer token.
type Authenticator interface {
	// Authenticate performs exactly one call to the identity endpoint.
	Authenticate(ctx context.Context, apiKey string) (string, error)
}

// Predictor submits an input record to the hosted model and returns the
// probability that the advertisement is viewed.
type Predictor interface {
	// Predict performs exactly one call to the inference endpoint.
	Predict(ctx context.Context, token string, input model.InputRecord) (float64, error)
}
