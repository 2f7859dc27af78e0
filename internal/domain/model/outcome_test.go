package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		want        model.Outcome
	}{
		{name: "zero", probability: 0, want: model.OutcomeUnlikely},
		{name: "below threshold", probability: 0.2, want: model.OutcomeUnlikely},
		{name: "boundary maps to unlikely", probability: 0.5, want: model.OutcomeUnlikely},
		{name: "just above threshold", probability: 0.5000001, want: model.OutcomeLikely},
		{name: "above threshold", probability: 0.73, want: model.OutcomeLikely},
		{name: "one", probability: 1, want: model.OutcomeLikely},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Classify(tt.probability))
		})
	}
}

func TestFormatProbability(t *testing.T) {
	tests := []struct {
		probability float64
		want        string
	}{
		{0.8734, "87.34%"},
		{0.73, "73.00%"},
		{0.2, "20.00%"},
		{0, "0.00%"},
		{1, "100.00%"},
		{0.5, "50.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			first := model.FormatProbability(tt.probability)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, model.FormatProbability(tt.probability))
		})
	}
}

func TestOutcome_Message(t *testing.T) {
	assert.Contains(t, model.OutcomeLikely.Message(), "is likely to view")
	assert.Contains(t, model.OutcomeUnlikely.Message(), "is unlikely to view")
	assert.Empty(t, model.OutcomeError.Message())
}

func TestPrediction_ProbabilityText(t *testing.T) {
	ok := model.Prediction{Outcome: model.OutcomeLikely, Probability: 0.73}
	assert.True(t, ok.Succeeded())
	assert.Equal(t, "73.00%", ok.ProbabilityText())

	failed := model.Prediction{Outcome: model.OutcomeError, ErrorKind: model.ErrorKindTransport}
	assert.False(t, failed.Succeeded())
	assert.Empty(t, failed.ProbabilityText())
}
