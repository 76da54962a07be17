package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantwatch/grantcuts/internal/model"
)

func TestResolve_NormalizesBreakdown(t *testing.T) {
	scores := model.HypothesisScores{
		{Label: model.LabelNoDeobligation, Score: 0},
		{Label: model.LabelCancellation, Score: 0.6},
		{Label: model.LabelRescission, Score: 0.2},
		{Label: model.LabelPartialRescission, Score: 0.1},
		{Label: model.LabelAdminAdjustment, Score: 0.1},
	}

	label, confidence, breakdown := Resolve(scores)

	assert.Equal(t, model.LabelCancellation, label)
	assert.InDelta(t, 0.6, confidence, 1e-9)
	assert.InDelta(t, confidence, breakdown[label], 1e-9)

	var sum float64
	for _, value := range breakdown {
		assert.GreaterOrEqual(t, value, 0.0)
		sum += value
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestResolve_TieBreakFollowsPriority(t *testing.T) {
	tests := []struct {
		name   string
		want   model.Label
		scores model.HypothesisScores
	}{
		{
			name: "cancellation beats rescission on exact tie",
			want: model.LabelCancellation,
			scores: model.HypothesisScores{
				{Label: model.LabelNoDeobligation, Score: 0},
				{Label: model.LabelCancellation, Score: 0.5},
				{Label: model.LabelRescission, Score: 0.5},
				{Label: model.LabelPartialRescission, Score: 0},
				{Label: model.LabelAdminAdjustment, Score: 0},
			},
		},
		{
			name: "rescission beats partial and admin on three-way tie",
			want: model.LabelRescission,
			scores: model.HypothesisScores{
				{Label: model.LabelNoDeobligation, Score: 0},
				{Label: model.LabelCancellation, Score: 0},
				{Label: model.LabelRescission, Score: 0.3},
				{Label: model.LabelPartialRescission, Score: 0.3},
				{Label: model.LabelAdminAdjustment, Score: 0.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, _, _ := Resolve(tt.scores)
			assert.Equal(t, tt.want, label)
		})
	}
}

func TestResolve_ZeroSumFallsBackToAdmin(t *testing.T) {
	scores := model.HypothesisScores{
		{Label: model.LabelNoDeobligation},
		{Label: model.LabelCancellation},
		{Label: model.LabelRescission},
		{Label: model.LabelPartialRescission},
		{Label: model.LabelAdminAdjustment},
	}

	label, confidence, breakdown := Resolve(scores)

	assert.Equal(t, model.LabelAdminAdjustment, label)
	assert.Equal(t, 0.0, confidence)

	require.Len(t, breakdown, len(model.AllLabels))
	for _, value := range breakdown {
		assert.InDelta(t, 0.2, value, 1e-9)
	}
}
