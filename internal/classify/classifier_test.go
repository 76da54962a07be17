package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/model"
)

func TestClassify_EndToEndScenarios(t *testing.T) {
	classifier := New(DefaultConfig())

	tests := []struct {
		name          string
		wantLabel     model.Label
		minConfidence float64
		transactions  []model.Transaction
	}{
		{
			name:          "unwound before drawdown is a cancellation",
			wantLabel:     model.LabelCancellation,
			minConfidence: 0.5,
			transactions: []model.Transaction{
				txWithOutlay("A-1", day(2024, 1, 1), 100_000, 0),
				txWithOutlay("A-1", day(2024, 3, 1), -99_000, 0),
			},
		},
		{
			name:      "clawback after disbursement is a rescission",
			wantLabel: model.LabelRescission,
			transactions: []model.Transaction{
				txWithOutlay("A-2", day(2023, 1, 1), 100_000, 0),
				txWithOutlay("A-2", day(2024, 6, 1), 0, 95_000),
				txWithOutlay("A-2", day(2024, 7, 1), -80_000, 95_000),
			},
		},
		{
			name:      "small same-period correction is administrative",
			wantLabel: model.LabelAdminAdjustment,
			transactions: []model.Transaction{
				tx("A-3", day(2023, 1, 1), 200_000),
				tx("A-3", day(2023, 2, 1), -20_000),
			},
		},
		{
			name:      "cut award that stays funded is a partial rescission",
			wantLabel: model.LabelPartialRescission,
			transactions: []model.Transaction{
				tx("A-4", day(2022, 1, 1), 50_000),
				tx("A-4", day(2024, 1, 1), -5_000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := classifier.Classify(tt.transactions[0].AwardID, tt.transactions)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLabel, result.Label)
			if tt.minConfidence > 0 {
				assert.Greater(t, result.Confidence, tt.minConfidence)
			}

			// Confidence is exactly the winner's breakdown share, and the
			// breakdown always normalizes to 1 for classifiable awards.
			assert.InDelta(t, result.Breakdown[result.Label], result.Confidence, 1e-9)
			var sum float64
			for _, value := range result.Breakdown {
				sum += value
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestClassify_NoDeobligationIsCertain(t *testing.T) {
	classifier := New(DefaultConfig())

	result, err := classifier.Classify("A-1", []model.Transaction{
		tx("A-1", day(2024, 1, 1), 100_000),
		tx("A-1", day(2024, 6, 1), 25_000),
	})
	require.NoError(t, err)

	assert.Equal(t, model.LabelNoDeobligation, result.Label)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestClassify_ZeroPositiveFallsBackToAdmin(t *testing.T) {
	classifier := New(DefaultConfig())

	result, err := classifier.Classify("A-1", []model.Transaction{
		tx("A-1", day(2024, 1, 1), -5_000),
	})
	require.NoError(t, err)

	assert.Equal(t, model.LabelAdminAdjustment, result.Label)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClassify_EmptySeriesIsSkipped(t *testing.T) {
	classifier := New(DefaultConfig())

	_, err := classifier.Classify("A-EMPTY", nil)
	require.Error(t, err)
	assert.True(t, common.IsSkipped(err))
	assert.ErrorIs(t, err, common.ErrEmptySeries)

	var skipped *common.SkippedAwardError
	require.ErrorAs(t, err, &skipped)
	assert.Equal(t, "A-EMPTY", skipped.AwardID)
}

func TestClassify_TemporalFlagBoundary(t *testing.T) {
	classifier := New(DefaultConfig())

	onCutoff, err := classifier.Classify("A-1", []model.Transaction{
		tx("A-1", day(2024, 6, 1), 100_000),
		tx("A-1", day(2025, 1, 20), -100_000),
	})
	require.NoError(t, err)
	assert.True(t, onCutoff.EraFlag)
	assert.True(t, onCutoff.PreEraFlag)
	assert.True(t, onCutoff.CutAfterCutoff)

	dayBefore, err := classifier.Classify("A-2", []model.Transaction{
		tx("A-2", day(2024, 6, 1), 100_000),
		tx("A-2", day(2025, 1, 19), -100_000),
	})
	require.NoError(t, err)
	assert.False(t, dayBefore.EraFlag)
	assert.False(t, dayBefore.CutAfterCutoff)
}

func TestClassify_CustomCutoff(t *testing.T) {
	classifier := New(Config{Cutoff: day(2021, 1, 20), Thresholds: DefaultThresholds()})

	result, err := classifier.Classify("A-1", []model.Transaction{
		tx("A-1", day(2020, 6, 1), 100_000),
		tx("A-1", day(2021, 3, 1), -1_000),
	})
	require.NoError(t, err)

	assert.True(t, result.EraFlag)
	assert.True(t, result.CutAfterCutoff)
	assert.Equal(t, day(2021, 1, 20), classifier.Cutoff())
}

func TestClassify_IdempotentAcrossInputOrder(t *testing.T) {
	classifier := New(DefaultConfig())

	forward := []model.Transaction{
		txWithOutlay("A-1", day(2023, 1, 1), 100_000, 0),
		txWithOutlay("A-1", day(2024, 6, 1), 0, 95_000),
		txWithOutlay("A-1", day(2024, 7, 1), -80_000, 95_000),
	}
	reversed := []model.Transaction{forward[2], forward[1], forward[0]}

	first, err := classifier.Classify("A-1", forward)
	require.NoError(t, err)
	second, err := classifier.Classify("A-1", reversed)
	require.NoError(t, err)

	assert.Equal(t, first.Label, second.Label)
	assert.InDelta(t, first.Confidence, second.Confidence, 1e-12)
	for label, value := range first.Breakdown {
		assert.InDelta(t, value, second.Breakdown[label], 1e-12, "label %s", label)
	}
	assert.Equal(t, first.TotalOutlayed, second.TotalOutlayed)
	assert.Equal(t, first.FinalBalance, second.FinalBalance)
}
