package application

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

var (
	// ErrInvalidInput wraps validation failures of an input record.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyNotConfigured is returned when no API key is available for authentication.
	ErrAPIKeyNotConfigured = errors.New("API key not configured: set ADVIEW_API_KEY or save one on the settings page")
)

// errorKind classifies err. Transport failures are matched by type anywhere in
// the chain; everything else that is not a validation failure is unexpected.
func errorKind(err error) model.ErrorKind {
	if err == nil {
		return model.ErrorKindNone
	}
	if errors.Is(err, ErrInvalidInput) {
		return model.ErrorKindInvalid
	}
	var te *driven.TransportError
	if errors.As(err, &te) {
		return model.ErrorKindTransport
	}
	return model.ErrorKindUnexpected
}

// DescribeError maps a pipeline error to its kind and the user-facing message
// shown in place of an outcome.
func DescribeError(err error) (model.ErrorKind, string) {
	kind := errorKind(err)
	switch kind {
	case model.ErrorKindNone:
		return kind, ""
	case model.ErrorKindTransport:
		return kind, fmt.Sprintf("An error occurred while making the prediction: %s", err)
	case model.ErrorKindInvalid:
		return kind, err.Error()
	default:
		return kind, fmt.Sprintf("An unexpected error occurred: %s", err)
	}
}
