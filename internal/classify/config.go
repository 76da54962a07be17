// Package classify implements the award classification engine: it turns one
// award's transaction history into a label, a confidence value, and a full
// breakdown across the competing hypotheses.
package classify

import (
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
)

// Thresholds holds the tunable scoring constants. These were calibrated
// against historical USASpending samples and may need recalibration; every
// cutoff that the scoring rules depend on is named here rather than embedded
// in the formulas.
type Thresholds struct {
	// LowOutlayRatio is the outlay/obligation share below which an award
	// counts as never having drawn down funds.
	LowOutlayRatio float64
	// SubstantialOutlayRatio is the cumulative outlay share that marks the
	// point after which a clawback reads as a rescission.
	SubstantialOutlayRatio float64
	// AdminNoiseRatio is the clawback/obligation share below which negative
	// transactions read as administrative noise.
	AdminNoiseRatio float64
	// AdminProximityDays is the window within which a negative transaction
	// counts as a same-period correction of a preceding positive one. The
	// proximity signal decays linearly to zero at twice this window.
	AdminProximityDays int
	// PartialBalanceFloor is the minimum remaining balance share for an
	// award to count as still meaningfully funded.
	PartialBalanceFloor float64
}

// DefaultThresholds returns the tuned scoring constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowOutlayRatio:         0.10,
		SubstantialOutlayRatio: 0.25,
		AdminNoiseRatio:        0.25,
		AdminProximityDays:     45,
		PartialBalanceFloor:    0.10,
	}
}

// Config holds configuration options for the classifier. The cutoff date is
// threaded in here explicitly so that runs with different cutoffs can
// coexist, including under concurrent execution.
type Config struct {
	Cutoff     time.Time
	Thresholds Thresholds
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Cutoff:     model.DefaultCutoff,
		Thresholds: DefaultThresholds(),
	}
}
