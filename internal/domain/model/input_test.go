package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

func TestFeatureFields_Order(t *testing.T) {
	assert.Equal(t, []string{
		"daily_time", "age", "areaincome", "dailyinternetuse",
		"adtopicline", "city", "gender", "country", "timestamp",
	}, model.FeatureFields())
}

func TestInputRecord_FeatureValues(t *testing.T) {
	rec := model.InputRecord{
		DailyTimeSpent:   68.95,
		Age:              35,
		AreaIncome:       61833.9,
		DailyInternetUse: 256.09,
		AdTopicLine:      "Cloned 5thgeneration orchestration",
		City:             "Wrightburgh",
		Gender:           model.GenderFemale,
		Country:          "Tunisia",
		Timestamp:        "2016-03-27 00:53:11",
	}

	values := rec.FeatureValues()

	require.Len(t, values, len(model.FeatureSchema))
	assert.Equal(t, []any{
		68.95, 35, 61833.9, 256.09,
		"Cloned 5thgeneration orchestration", "Wrightburgh", "Female", "Tunisia", "2016-03-27 00:53:11",
	}, values)
}

func TestFeatureSchema_NamesUnique(t *testing.T) {
	seen := make(map[string]bool, len(model.FeatureSchema))
	for _, f := range model.FeatureSchema {
		assert.False(t, seen[f.Name], "duplicate feature %q", f.Name)
		seen[f.Name] = true
	}
	assert.Len(t, seen, 9)
}
