package model

import "time"

// AwardSeries is the ordered transaction history for a single award, plus
// the derived totals the classifier scores against. Transactions are sorted
// by action date ascending; same-day transactions keep ingestion order.
type AwardSeries struct {
	FirstNegativeDate    *time.Time
	AwardID              string
	Transactions         []Transaction
	TotalObligationPos   float64
	TotalDeobligationNeg float64 // kept signed (<= 0)
	FinalBalance         float64
	TotalOutlayed        float64
	FirstActionDate      time.Time
	LastActionDate       time.Time
}

// HasNegative reports whether the series contains any deobligation.
func (s *AwardSeries) HasNegative() bool {
	return s.FirstNegativeDate != nil
}

// NegativeMagnitude returns the absolute dollars clawed back.
func (s *AwardSeries) NegativeMagnitude() float64 {
	return -s.TotalDeobligationNeg
}
