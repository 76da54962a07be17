package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/service"
)

// SaveTransactions saves a batch of transactions, ignoring duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, award_id, action_date, amount, outlay,
			awarding_agency, funding_agency, cfda_number, cfda_title,
			recipient_name, recipient_city, recipient_state, recipient_county,
			action_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		hash := txn.GenerateHash()
		id := txn.ID
		if id == "" {
			id = hash
		}

		var outlay sql.NullFloat64
		if txn.Outlay != nil {
			outlay = sql.NullFloat64{Float64: *txn.Outlay, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			id,
			hash,
			txn.AwardID,
			txn.Date,
			txn.Amount,
			outlay,
			txn.AwardingAgency,
			txn.FundingAgency,
			txn.CFDANumber,
			txn.CFDATitle,
			txn.RecipientName,
			txn.RecipientCity,
			txn.RecipientState,
			txn.RecipientCounty,
			txn.ActionType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", id, err)
		}
	}

	return tx.Commit()
}

const transactionColumns = `
	id, award_id, action_date, amount, outlay,
	awarding_agency, funding_agency, cfda_number, cfda_title,
	recipient_name, recipient_city, recipient_state, recipient_county,
	action_type`

// GetTransactions retrieves transactions matching the filter, ordered by
// action date then ingestion order so series building stays deterministic.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT` + transactionColumns + ` FROM transactions`
	var conditions []string
	var args []any

	if filter.AwardID != "" {
		conditions = append(conditions, "award_id = ?")
		args = append(args, filter.AwardID)
	}
	if filter.NegativeOnly {
		conditions = append(conditions, "amount < 0")
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "action_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "action_date <= ?")
		args = append(args, *filter.EndDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY action_date, rowid"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return s.queryTransactions(ctx, s.db, query, args...)
}

// GetTransactionsByAward retrieves all transactions for one award.
func (s *SQLiteStorage) GetTransactionsByAward(ctx context.Context, awardID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(awardID, "awardID"); err != nil {
		return nil, err
	}

	return s.GetTransactions(ctx, service.TransactionFilter{AwardID: awardID})
}

// GetAwardIDs lists every distinct award identifier with transactions.
func (s *SQLiteStorage) GetAwardIDs(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT award_id FROM transactions ORDER BY award_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query award IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan award ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, q queryable, query string, args ...any) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var outlay sql.NullFloat64

		err := rows.Scan(
			&txn.ID,
			&txn.AwardID,
			&txn.Date,
			&txn.Amount,
			&outlay,
			&txn.AwardingAgency,
			&txn.FundingAgency,
			&txn.CFDANumber,
			&txn.CFDATitle,
			&txn.RecipientName,
			&txn.RecipientCity,
			&txn.RecipientState,
			&txn.RecipientCounty,
			&txn.ActionType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if outlay.Valid {
			value := outlay.Float64
			txn.Outlay = &value
		}

		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
