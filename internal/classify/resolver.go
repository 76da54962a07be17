package classify

import (
	"github.com/grantwatch/grantcuts/internal/model"
)

// Resolve normalizes the raw hypothesis scores, picks the dominant label,
// and returns the label, its confidence, and the full breakdown. When every
// raw score is zero (an award with negatives but no positive obligation, or
// equally hopeless data) it falls back to ADMIN_OR_PREPAY_ADJ at confidence
// zero with a uniform breakdown instead of failing.
func Resolve(scores model.HypothesisScores) (model.Label, float64, model.Breakdown) {
	breakdown := make(model.Breakdown, len(model.AllLabels))

	total := scores.Sum()
	if total <= 0 {
		uniform := 1.0 / float64(len(model.AllLabels))
		for _, label := range model.AllLabels {
			breakdown[label] = uniform
		}
		return model.LabelAdminAdjustment, 0, breakdown
	}

	normalized := make(model.HypothesisScores, len(scores))
	for i, s := range scores {
		normalized[i] = model.HypothesisScore{Label: s.Label, Score: s.Score / total}
		breakdown[s.Label] = normalized[i].Score
	}

	top := normalized.Top()
	return top.Label, top.Score, breakdown
}
