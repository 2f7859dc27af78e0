package model

import "fmt"

// Outcome is the rendered classification of a prediction run.
type Outcome string

const (
	OutcomeLikely   Outcome = "likely"
	OutcomeUnlikely Outcome = "unlikely"
	OutcomeError    Outcome = "error"
)

// ErrorKind distinguishes failure categories of a prediction run.
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindUnexpected ErrorKind = "unexpected"
	ErrorKindInvalid    ErrorKind = "invalid_input"
)

// LikelyThreshold is the probability strictly above which a view is likely.
const LikelyThreshold = 0.5

// Classify maps a probability to likely or unlikely. A probability equal to
// LikelyThreshold is unlikely.
func Classify(probability float64) Outcome {
	if probability > LikelyThreshold {
		return OutcomeLikely
	}
	return OutcomeUnlikely
}

// FormatProbability renders a probability as a percentage with two decimals,
// e.g. 0.8734 -> "87.34%".
func FormatProbability(probability float64) string {
	return fmt.Sprintf("%.2f%%", probability*100)
}

// Message returns the user-facing sentence for a successful outcome.
// OutcomeError has no fixed message; its text comes from the failure.
func (o Outcome) Message() string {
	switch o {
	case OutcomeLikely:
		return "Based on the above factors, the user is likely to view the advertisement."
	case OutcomeUnlikely:
		return "Based on the above factors, the user is unlikely to view the advertisement."
	default:
		return ""
	}
}
