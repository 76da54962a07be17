package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial action on a federal award.
// Amount is the signed obligation delta: positive adds funding, negative
// deobligates it. Outlay is the cumulative outlay snapshot reported at or
// near the action date; nil when the source row carries no outlay figure.
type Transaction struct {
	Date            time.Time
	Outlay          *float64
	ID              string
	AwardID         string
	AwardingAgency  string
	FundingAgency   string
	CFDANumber      string
	CFDATitle       string
	RecipientName   string
	RecipientCity   string
	RecipientState  string
	RecipientCounty string
	ActionType      string
	Amount          float64
}

// IsDeobligation reports whether this transaction claws back funds.
func (t *Transaction) IsDeobligation() bool {
	return t.Amount < 0
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s",
		t.AwardID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.ActionType)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
