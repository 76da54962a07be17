package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test transactions for one award.
func createTestTransactions(awardID string, count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:             fmt.Sprintf("%s-txn-%d", awardID, i+1),
			AwardID:        awardID,
			Date:           baseDate.AddDate(0, i, 0),
			Amount:         float64(i+1) * 10_000,
			AwardingAgency: "Department of Education",
			RecipientCity:  "BOSTON",
			RecipientState: "MA",
			ActionType:     "B",
		}
	}
	return txns
}

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	tests := []struct {
		setup        func(*SQLiteStorage, context.Context)
		validate     func(*testing.T, *SQLiteStorage, context.Context)
		name         string
		transactions []model.Transaction
		wantErr      bool
	}{
		{
			name:         "save new transactions",
			transactions: createTestTransactions("FAIN-1", 3),
			wantErr:      false,
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				txns, err := s.GetTransactionsByAward(ctx, "FAIN-1")
				if err != nil {
					t.Errorf("Failed to get transactions: %v", err)
				}
				if len(txns) != 3 {
					t.Errorf("Expected 3 transactions, got %d", len(txns))
				}
			},
		},
		{
			name:         "handle duplicate transactions",
			transactions: createTestTransactions("FAIN-1", 2),
			setup: func(s *SQLiteStorage, ctx context.Context) {
				// Save the same transactions first
				txns := createTestTransactions("FAIN-1", 2)
				_ = s.SaveTransactions(ctx, txns)
			},
			wantErr: false,
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				txns, err := s.GetTransactionsByAward(ctx, "FAIN-1")
				if err != nil {
					t.Errorf("Failed to get transactions: %v", err)
				}
				// Should still have only 2 transactions (no duplicates)
				if len(txns) != 2 {
					t.Errorf("Expected 2 transactions (no duplicates), got %d", len(txns))
				}
			},
		},
		{
			name:         "save empty list",
			transactions: []model.Transaction{},
			wantErr:      true,
		},
		{
			name: "reject transaction without award ID",
			transactions: []model.Transaction{
				{ID: "txn-1", Date: time.Now(), Amount: 100},
			},
			wantErr: true,
		},
		{
			name: "save transaction with outlay snapshot",
			transactions: []model.Transaction{
				{
					ID:      "txn-outlay-1",
					AwardID: "FAIN-2",
					Date:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
					Amount:  50_000,
					Outlay:  floatPtr(42_500.75),
				},
			},
			wantErr: false,
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				txns, err := s.GetTransactionsByAward(ctx, "FAIN-2")
				if err != nil {
					t.Fatalf("Failed to get transactions: %v", err)
				}
				if len(txns) != 1 {
					t.Fatalf("Expected 1 transaction, got %d", len(txns))
				}
				if txns[0].Outlay == nil {
					t.Fatal("Expected outlay to round-trip, got nil")
				}
				if *txns[0].Outlay != 42_500.75 {
					t.Errorf("Expected outlay 42500.75, got %v", *txns[0].Outlay)
				}
			},
		},
		{
			name: "missing outlay stays nil",
			transactions: []model.Transaction{
				{
					ID:      "txn-no-outlay",
					AwardID: "FAIN-3",
					Date:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
					Amount:  -5_000,
				},
			},
			wantErr: false,
			validate: func(t *testing.T, s *SQLiteStorage, ctx context.Context) {
				t.Helper()
				txns, err := s.GetTransactionsByAward(ctx, "FAIN-3")
				if err != nil {
					t.Fatalf("Failed to get transactions: %v", err)
				}
				if len(txns) != 1 {
					t.Fatalf("Expected 1 transaction, got %d", len(txns))
				}
				if txns[0].Outlay != nil {
					t.Errorf("Expected nil outlay, got %v", *txns[0].Outlay)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			if tt.setup != nil {
				tt.setup(store, ctx)
			}

			err := store.SaveTransactions(ctx, tt.transactions)
			if (err != nil) != tt.wantErr {
				t.Errorf("SaveTransactions() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.validate != nil {
				tt.validate(t, store, ctx)
			}
		})
	}
}

func TestSQLiteStorage_GetTransactionsFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := []model.Transaction{
		{ID: "t1", AwardID: "FAIN-A", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Amount: 100_000},
		{ID: "t2", AwardID: "FAIN-A", Date: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), Amount: -25_000},
		{ID: "t3", AwardID: "FAIN-B", Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Amount: -10_000},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save transactions: %v", err)
	}

	negatives, err := store.GetTransactions(ctx, service.TransactionFilter{NegativeOnly: true})
	if err != nil {
		t.Fatalf("Failed to get negative transactions: %v", err)
	}
	if len(negatives) != 2 {
		t.Errorf("Expected 2 negative transactions, got %d", len(negatives))
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("Failed to get recent transactions: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "t3" {
		t.Errorf("Expected only t3 after %s, got %d rows", start.Format("2006-01-02"), len(recent))
	}

	limited, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Failed to get limited transactions: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 transactions with limit, got %d", len(limited))
	}
}

func TestSQLiteStorage_GetAwardIDs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	all := append(createTestTransactions("FAIN-B", 2), createTestTransactions("FAIN-A", 2)...)
	if err := store.SaveTransactions(ctx, all); err != nil {
		t.Fatalf("Failed to save transactions: %v", err)
	}

	ids, err := store.GetAwardIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to get award IDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 award IDs, got %d", len(ids))
	}
	if ids[0] != "FAIN-A" || ids[1] != "FAIN-B" {
		t.Errorf("Expected sorted award IDs, got %v", ids)
	}
}

func TestSQLiteStorage_OrderedByActionDate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Insert out of chronological order.
	txns := []model.Transaction{
		{ID: "late", AwardID: "FAIN-A", Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), Amount: -10},
		{ID: "early", AwardID: "FAIN-A", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 100},
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save transactions: %v", err)
	}

	got, err := store.GetTransactionsByAward(ctx, "FAIN-A")
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(got))
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Errorf("Expected chronological order, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestSQLiteStorage_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // deliberately passing nil context
	if err := store.SaveTransactions(nil, createTestTransactions("FAIN-A", 1)); err == nil {
		t.Error("Expected error for nil context")
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
