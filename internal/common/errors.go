// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Classification errors.
	ErrEmptySeries = errors.New("award has no transactions")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SkippedAwardError marks an award that could not be classified and must be
// excluded from aggregate reporting rather than zero-filled.
type SkippedAwardError struct {
	Err     error
	AwardID string
}

func (e *SkippedAwardError) Error() string {
	return fmt.Sprintf("award %s skipped: %v", e.AwardID, e.Err)
}

func (e *SkippedAwardError) Unwrap() error {
	return e.Err
}

// NewSkippedAwardError wraps a classification failure for one award.
func NewSkippedAwardError(awardID string, err error) error {
	return &SkippedAwardError{AwardID: awardID, Err: err}
}

// IsSkipped reports whether err marks a skipped (unclassifiable) award.
func IsSkipped(err error) bool {
	var skipped *SkippedAwardError
	return errors.As(err, &skipped)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
