// Package model defines the core domain models used throughout the application.
package model

// Label identifies what happened to an award, inferred from its
// transaction history.
type Label string

// Classification labels, from most to least severe.
const (
	// LabelNoDeobligation marks awards with no negative transactions at all.
	LabelNoDeobligation Label = "NODEOBLIGATION"
	// LabelCancellation marks awards unwound before funds were drawn down.
	LabelCancellation Label = "CANCELLATION"
	// LabelRescission marks awards where disbursed funds were clawed back.
	LabelRescission Label = "RESCISSION"
	// LabelPartialRescission marks partial reductions on still-active awards.
	LabelPartialRescission Label = "PARTIAL_RES_CUMPOS"
	// LabelAdminAdjustment marks small or same-period corrections.
	LabelAdminAdjustment Label = "ADMIN_OR_PREPAY_ADJ"
)

// AllLabels lists every label in tie-break priority order: when two
// hypotheses score exactly equal, the earlier label wins.
var AllLabels = []Label{
	LabelNoDeobligation,
	LabelCancellation,
	LabelRescission,
	LabelPartialRescission,
	LabelAdminAdjustment,
}

var labelPriority = map[Label]int{
	LabelNoDeobligation:    0,
	LabelCancellation:      1,
	LabelRescission:        2,
	LabelPartialRescission: 3,
	LabelAdminAdjustment:   4,
}

// Priority returns the tie-break rank of the label; lower wins ties.
func (l Label) Priority() int {
	p, ok := labelPriority[l]
	if !ok {
		return len(labelPriority)
	}
	return p
}

// Valid reports whether l is one of the five known labels.
func (l Label) Valid() bool {
	_, ok := labelPriority[l]
	return ok
}
