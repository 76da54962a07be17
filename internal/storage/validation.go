package storage

import (
	"context"
	"fmt"

	"github.com/grantwatch/grantcuts/internal/model"
)

// validateContext ensures the context is not nil and not already canceled.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return nil
}

// validateString ensures a required string parameter is non-empty.
func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	return nil
}

// validateTransactions ensures a transaction batch is sane before writing.
func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("transactions must not be empty")
	}
	for i, txn := range transactions {
		if txn.AwardID == "" {
			return fmt.Errorf("transaction at index %d has no award ID", i)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction at index %d has no action date", i)
		}
	}
	return nil
}

// validateClassifications ensures a classification batch is sane before writing.
func validateClassifications(classifications []model.Classification) error {
	if len(classifications) == 0 {
		return fmt.Errorf("classifications must not be empty")
	}
	for i, c := range classifications {
		if c.AwardID == "" {
			return fmt.Errorf("classification at index %d has no award ID", i)
		}
		if !c.Label.Valid() {
			return fmt.Errorf("classification at index %d has unknown label %q", i, c.Label)
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			return fmt.Errorf("classification at index %d has confidence %.2f outside [0,1]", i, c.Confidence)
		}
	}
	return nil
}
