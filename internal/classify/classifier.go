package classify

import (
	"errors"
	"time"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/model"
)

// Classifier turns one award's raw transactions into a Classification. It is
// a pure function of the input series: it holds no state across awards, so a
// single instance is safe to share between goroutines.
type Classifier struct {
	evaluator *Evaluator
	cutoff    time.Time
}

// New creates a classifier from the given configuration. A zero cutoff falls
// back to the default analysis cutoff.
func New(cfg Config) *Classifier {
	if cfg.Cutoff.IsZero() {
		cfg.Cutoff = model.DefaultCutoff
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	return &Classifier{
		evaluator: NewEvaluator(cfg.Thresholds),
		cutoff:    cfg.Cutoff,
	}
}

// Cutoff returns the cutoff date this classifier flags against.
func (c *Classifier) Cutoff() time.Time {
	return c.cutoff
}

// Classify builds the award series, scores the five hypotheses, resolves the
// dominant label, and attaches the temporal flags. An award with no
// transactions yields a *common.SkippedAwardError; callers must exclude such
// awards from aggregate reporting rather than zero-filling them.
func (c *Classifier) Classify(awardID string, transactions []model.Transaction) (*model.Classification, error) {
	series, err := BuildSeries(transactions)
	if err != nil {
		if errors.Is(err, common.ErrEmptySeries) {
			return nil, common.NewSkippedAwardError(awardID, err)
		}
		return nil, err
	}

	scores := c.evaluator.Evaluate(series)
	label, confidence, breakdown := Resolve(scores)

	result := &model.Classification{
		AwardID:              series.AwardID,
		Label:                label,
		Confidence:           confidence,
		Breakdown:            breakdown,
		ClassifiedAt:         time.Now().UTC(),
		TotalObligationPos:   series.TotalObligationPos,
		TotalDeobligationNeg: series.TotalDeobligationNeg,
		FinalBalance:         series.FinalBalance,
		TotalOutlayed:        series.TotalOutlayed,
		FirstActionDate:      series.FirstActionDate,
		LastActionDate:       series.LastActionDate,
		FirstNegativeDate:    series.FirstNegativeDate,
		EraFlag:              !series.LastActionDate.Before(c.cutoff),
		PreEraFlag:           series.FirstActionDate.Before(c.cutoff),
		CutAfterCutoff:       c.hasCutAfterCutoff(series),
	}

	return result, nil
}

func (c *Classifier) hasCutAfterCutoff(series *model.AwardSeries) bool {
	for _, txn := range series.Transactions {
		if txn.Amount < 0 && !txn.Date.Before(c.cutoff) {
			return true
		}
	}
	return false
}
