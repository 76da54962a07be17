package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/service"
)

// SaveClassifications replaces the stored classification for each award.
// Re-running the classifier replaces results wholesale; there is no partial
// update of an existing record.
func (s *SQLiteStorage) SaveClassifications(ctx context.Context, classifications []model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateClassifications(classifications); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO classifications (
			award_id, run_id, label, confidence, breakdown,
			total_obligation_pos, total_deobligation_neg, final_balance, total_outlayed,
			first_action_date, last_action_date, first_negative_date,
			era_flag, pre_era_flag, cut_after_cutoff, classified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range classifications {
		breakdownJSON, marshalErr := json.Marshal(c.Breakdown)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal breakdown for award %s: %w", c.AwardID, marshalErr)
		}

		var firstNegative sql.NullTime
		if c.FirstNegativeDate != nil {
			firstNegative = sql.NullTime{Time: *c.FirstNegativeDate, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			c.AwardID,
			c.RunID,
			string(c.Label),
			c.Confidence,
			string(breakdownJSON),
			c.TotalObligationPos,
			c.TotalDeobligationNeg,
			c.FinalBalance,
			c.TotalOutlayed,
			c.FirstActionDate,
			c.LastActionDate,
			firstNegative,
			c.EraFlag,
			c.PreEraFlag,
			c.CutAfterCutoff,
			c.ClassifiedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert classification for award %s: %w", c.AwardID, err)
		}
	}

	return tx.Commit()
}

const classificationColumns = `
	award_id, run_id, label, confidence, breakdown,
	total_obligation_pos, total_deobligation_neg, final_balance, total_outlayed,
	first_action_date, last_action_date, first_negative_date,
	era_flag, pre_era_flag, cut_after_cutoff, classified_at`

// GetClassificationByAward retrieves the classification for one award.
func (s *SQLiteStorage) GetClassificationByAward(ctx context.Context, awardID string) (*model.Classification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(awardID, "awardID"); err != nil {
		return nil, err
	}

	results, err := s.queryClassifications(ctx,
		`SELECT`+classificationColumns+` FROM classifications WHERE award_id = ?`, awardID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("classification for award %s: %w", awardID, common.ErrNotFound)
	}

	return &results[0], nil
}

// GetClassifications retrieves classifications matching the filter.
func (s *SQLiteStorage) GetClassifications(ctx context.Context, filter service.ClassificationFilter) ([]model.Classification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT` + classificationColumns + ` FROM classifications`
	var conditions []string
	var args []any

	if filter.Label != "" {
		conditions = append(conditions, "label = ?")
		args = append(args, string(filter.Label))
	}
	if filter.EraOnly {
		conditions = append(conditions, "era_flag = 1")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY award_id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return s.queryClassifications(ctx, query, args...)
}

func (s *SQLiteStorage) queryClassifications(ctx context.Context, query string, args ...any) ([]model.Classification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.Classification
	for rows.Next() {
		var c model.Classification
		var label, breakdownJSON string
		var firstNegative sql.NullTime

		err := rows.Scan(
			&c.AwardID,
			&c.RunID,
			&label,
			&c.Confidence,
			&breakdownJSON,
			&c.TotalObligationPos,
			&c.TotalDeobligationNeg,
			&c.FinalBalance,
			&c.TotalOutlayed,
			&c.FirstActionDate,
			&c.LastActionDate,
			&firstNegative,
			&c.EraFlag,
			&c.PreEraFlag,
			&c.CutAfterCutoff,
			&c.ClassifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}

		c.Label = model.Label(label)
		if firstNegative.Valid {
			date := firstNegative.Time
			c.FirstNegativeDate = &date
		}

		c.Breakdown = make(model.Breakdown)
		if unmarshalErr := json.Unmarshal([]byte(breakdownJSON), &c.Breakdown); unmarshalErr != nil {
			return nil, fmt.Errorf("corrupt breakdown for award %s: %w", c.AwardID, unmarshalErr)
		}

		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return results, nil
}
