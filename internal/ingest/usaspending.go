// Package ingest parses the raw source feeds: USASpending prime transaction
// CSV exports and ACS DP05 county demographic tables.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
)

// Column candidates for the award identifier, in preference order. The feed
// schema drifts between exports, so we take the first populated candidate
// per row and fall back to the transaction-level key.
var awardIDColumns = []string{
	"assistance_award_unique_key",
	"award_id_fain",
	"award_id_uri",
	"award_id",
}

const transactionIDColumn = "assistance_transaction_unique_key"

// USASpendingParser parses USASpending assistance prime transaction CSVs.
type USASpendingParser struct{}

// NewUSASpendingParser creates a new parser.
func NewUSASpendingParser() *USASpendingParser {
	return &USASpendingParser{}
}

// ParseFile reads a prime transaction CSV and returns transactions. Rows
// with no resolvable award identifier or no parseable action date are
// dropped with a warning; amounts default to 0 when unparseable, matching
// the upstream feed's own conventions.
func (p *USASpendingParser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var transactions []model.Transaction
	var dropped int
	line := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line+1, readErr)
		}
		line++

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		awardID := p.resolveAwardID(field)
		if awardID == "" {
			dropped++
			continue
		}

		date, dateErr := parseDate(field("action_date"))
		if dateErr != nil {
			slog.Warn("Dropping row with unparseable action date",
				"line", line,
				"award_id", awardID,
				"value", field("action_date"))
			dropped++
			continue
		}

		txn := model.Transaction{
			ID:              field(transactionIDColumn),
			AwardID:         awardID,
			Date:            date,
			Amount:          parseAmount(field("federal_action_obligation")),
			Outlay:          parseOptionalAmount(field("total_outlayed_amount_for_overall_award")),
			AwardingAgency:  field("awarding_agency_name"),
			FundingAgency:   field("funding_agency_name"),
			CFDANumber:      field("cfda_number"),
			CFDATitle:       field("cfda_title"),
			RecipientName:   field("recipient_name"),
			RecipientCity:   field("recipient_city_name"),
			RecipientState:  field("recipient_state_code"),
			RecipientCounty: NormalizeCountyName(field("recipient_county_name")),
			ActionType:      field("action_type_description"),
		}

		transactions = append(transactions, txn)
	}

	if dropped > 0 {
		slog.Warn("Dropped rows during import", "count", dropped)
	}

	return transactions, nil
}

func (p *USASpendingParser) resolveAwardID(field func(string) string) string {
	for _, column := range awardIDColumns {
		if value := field(column); value != "" {
			return value
		}
	}
	return field(transactionIDColumn)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.Parse("2006-01-02", value)
}

func parseAmount(value string) float64 {
	if value == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0
	}
	return amount
}

func parseOptionalAmount(value string) *float64 {
	if value == "" {
		return nil
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &amount
}

// NormalizeCountyName uppercases and trims a county name so recipient
// records and the ACS lookup join on the same key.
func NormalizeCountyName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, " COUNTY")
	return name
}
