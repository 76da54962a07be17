package model

import "time"

// DefaultCutoff is the fixed analysis cutoff date (2025-01-20). The
// classifier's era flag and any downstream "era-only" filter must reference
// the same value to stay consistent.
var DefaultCutoff = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

// Breakdown maps every label to its normalized share of the raw hypothesis
// scores. Values sum to 1 whenever any raw score was nonzero.
type Breakdown map[Label]float64

// Classification is the one output record per successfully classified award.
// It is created once per classification run and never mutated afterward.
type Classification struct {
	ClassifiedAt      time.Time
	Breakdown         Breakdown
	FirstNegativeDate *time.Time
	AwardID           string
	RunID             string
	Label             Label
	Confidence        float64

	// Derived totals carried through from the award series.
	TotalObligationPos   float64
	TotalDeobligationNeg float64
	FinalBalance         float64
	TotalOutlayed        float64
	FirstActionDate      time.Time
	LastActionDate       time.Time

	// Temporal flags relative to the configured cutoff date.
	EraFlag        bool // last action on or after the cutoff
	PreEraFlag     bool // first action before the cutoff
	CutAfterCutoff bool // any deobligation on or after the cutoff
}

// PctOutlayedOfPos returns outlays as a share of gross positive obligation,
// or 0 when no positive obligation was ever recorded.
func (c *Classification) PctOutlayedOfPos() float64 {
	if c.TotalObligationPos <= 0 {
		return 0
	}
	return c.TotalOutlayed / c.TotalObligationPos
}
