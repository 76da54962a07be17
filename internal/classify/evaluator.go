package classify

import (
	"github.com/grantwatch/grantcuts/internal/model"
)

// Evaluator scores the five competing hypotheses for one award series. Each
// rule is independent and yields a raw score in [0,1]; the resolver handles
// mutual exclusion.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(thresholds Thresholds) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate computes one raw score per label. An award with no negative
// transactions scores 1.0 for NODEOBLIGATION and the remaining hypotheses
// are forced to 0. When no positive obligation was ever recorded, the
// ratio-based scores are undefined and forced to 0, leaving such awards to
// the resolver's fallback.
func (e *Evaluator) Evaluate(series *model.AwardSeries) model.HypothesisScores {
	scores := model.HypothesisScores{
		{Label: model.LabelNoDeobligation},
		{Label: model.LabelCancellation},
		{Label: model.LabelRescission},
		{Label: model.LabelPartialRescission},
		{Label: model.LabelAdminAdjustment},
	}

	if !series.HasNegative() {
		scores[0].Score = 1.0
		return scores
	}

	if series.TotalObligationPos <= 0 {
		return scores
	}

	balanceRatio := series.FinalBalance / series.TotalObligationPos
	outlayRatio := clamp01(series.TotalOutlayed / series.TotalObligationPos)
	negativeRatio := series.NegativeMagnitude() / series.TotalObligationPos

	scores[1].Score = e.scoreCancellation(balanceRatio, outlayRatio)
	scores[2].Score = e.scoreRescission(series, outlayRatio)
	scores[3].Score = e.scorePartialRescission(balanceRatio, negativeRatio)
	scores[4].Score = e.scoreAdminAdjustment(series, negativeRatio)

	return scores
}

// scoreCancellation is high when the award was effectively unwound (final
// balance near zero) without ever substantially drawing down funds.
func (e *Evaluator) scoreCancellation(balanceRatio, outlayRatio float64) float64 {
	outlayFactor := 1 - outlayRatio
	if outlayRatio <= e.thresholds.LowOutlayRatio {
		outlayFactor = 1
	}
	return clamp01((1 - clamp01(balanceRatio)) * outlayFactor)
}

// scoreRescission is high when funds were actually disbursed and then
// clawed back: it scales with the outlay share and with the magnitude of
// negative transactions occurring after outlays had already accrued.
func (e *Evaluator) scoreRescission(series *model.AwardSeries, outlayRatio float64) float64 {
	substantial := e.thresholds.SubstantialOutlayRatio * series.TotalObligationPos

	var clawedAfter float64
	reached := false
	for _, txn := range series.Transactions {
		if !reached && txn.Outlay != nil && *txn.Outlay >= substantial {
			reached = true
		}
		if reached && txn.Amount < 0 {
			clawedAfter += -txn.Amount
		}
	}
	if !reached {
		return 0
	}

	return clamp01(outlayRatio * clamp01(clawedAfter/series.TotalObligationPos))
}

// scorePartialRescission is high when the award keeps a meaningful positive
// balance despite a non-trivial clawback: cut, but not unwound.
func (e *Evaluator) scorePartialRescission(balanceRatio, negativeRatio float64) float64 {
	if balanceRatio < e.thresholds.PartialBalanceFloor {
		return 0
	}
	significance := clamp01(negativeRatio / e.thresholds.AdminNoiseRatio)
	return clamp01(clamp01(balanceRatio) * significance)
}

// scoreAdminAdjustment is high when the negative transactions are small
// relative to the total positive obligation, or land close in time to a
// preceding positive transaction (a same-period correction, not a cut).
func (e *Evaluator) scoreAdminAdjustment(series *model.AwardSeries, negativeRatio float64) float64 {
	smallness := 1 - clamp01(negativeRatio/e.thresholds.AdminNoiseRatio)
	proximity := e.negativeProximity(series)
	return clamp01(0.5*smallness + 0.5*proximity)
}

// negativeProximity measures how close the deobligations sit to the positive
// transactions they follow: 1 inside the proximity window, decaying linearly
// to 0 at twice the window.
func (e *Evaluator) negativeProximity(series *model.AwardSeries) float64 {
	window := float64(e.thresholds.AdminProximityDays)
	if window <= 0 {
		return 0
	}

	best := -1.0
	for _, neg := range series.Transactions {
		if neg.Amount >= 0 {
			continue
		}
		for _, pos := range series.Transactions {
			if pos.Amount <= 0 || pos.Date.After(neg.Date) {
				continue
			}
			gap := neg.Date.Sub(pos.Date).Hours() / 24
			if best < 0 || gap < best {
				best = gap
			}
		}
	}
	if best < 0 {
		return 0
	}

	if best <= window {
		return 1
	}
	return clamp01(1 - (best-window)/window)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
