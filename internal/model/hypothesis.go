package model

import (
	"fmt"
	"sort"
)

// HypothesisScore is one candidate explanation for an award's history and
// the raw, unnormalized evidence for it.
type HypothesisScore struct {
	Label Label
	Score float64
}

// Validate ensures the HypothesisScore has valid data.
func (h *HypothesisScore) Validate() error {
	if !h.Label.Valid() {
		return fmt.Errorf("unknown label %q", h.Label)
	}

	if h.Score < 0.0 || h.Score > 1.0 {
		return fmt.Errorf("score must be between 0.0 and 1.0, got %.2f", h.Score)
	}

	return nil
}

// HypothesisScores is a slice of HypothesisScore that supports sorting and
// normalization.
type HypothesisScores []HypothesisScore

// Len implements sort.Interface.
func (h HypothesisScores) Len() int {
	return len(h)
}

// Less implements sort.Interface - higher scores come first, and exact ties
// fall back to label priority so the most severe classification wins.
func (h HypothesisScores) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	return h[i].Label.Priority() < h[j].Label.Priority()
}

// Swap implements sort.Interface.
func (h HypothesisScores) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Sort sorts the scores by score descending, priority on ties.
func (h HypothesisScores) Sort() {
	sort.Stable(h)
}

// Top returns the winning hypothesis, or nil if empty.
func (h HypothesisScores) Top() *HypothesisScore {
	if len(h) == 0 {
		return nil
	}
	h.Sort()
	return &h[0]
}

// Sum returns the total raw score across all hypotheses.
func (h HypothesisScores) Sum() float64 {
	var total float64
	for _, s := range h {
		total += s.Score
	}
	return total
}

// Validate ensures all scores in the slice are valid and labels are unique.
func (h HypothesisScores) Validate() error {
	seen := make(map[Label]bool)

	for i, score := range h {
		if err := score.Validate(); err != nil {
			return fmt.Errorf("invalid hypothesis at index %d: %w", i, err)
		}

		if seen[score.Label] {
			return fmt.Errorf("duplicate label %q in hypotheses", score.Label)
		}
		seen[score.Label] = true
	}

	return nil
}
