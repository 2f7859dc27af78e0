package model

import "time"

// Prediction records a single pipeline run: the submitted input and either the
// returned probability or the failure that stopped the run.
type Prediction struct {
	ID           string
	Input        InputRecord
	Probability  float64
	Outcome      Outcome
	ErrorKind    ErrorKind
	ErrorMessage string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Succeeded reports whether the run produced a probability.
func (p Prediction) Succeeded() bool {
	return p.Outcome == OutcomeLikely || p.Outcome == OutcomeUnlikely
}

// ProbabilityText returns the formatted probability, or "" for failed runs.
func (p Prediction) ProbabilityText() string {
	if !p.Succeeded() {
		return ""
	}
	return FormatProbability(p.Probability)
}
