// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/grantwatch/grantcuts/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	AwardID      string
	NegativeOnly bool
	Limit        int
	Offset       int
}

// ClassificationFilter defines filtering options for classification queries.
type ClassificationFilter struct {
	Label   model.Label
	EraOnly bool
	Limit   int
	Offset  int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsByAward(ctx context.Context, awardID string) ([]model.Transaction, error)
	GetAwardIDs(ctx context.Context) ([]string, error)

	// Classification operations
	SaveClassifications(ctx context.Context, classifications []model.Classification) error
	GetClassificationByAward(ctx context.Context, awardID string) (*model.Classification, error)
	GetClassifications(ctx context.Context, filter ClassificationFilter) ([]model.Classification, error)

	// County demographics operations
	SaveCountyDemographics(ctx context.Context, counties []model.CountyDemographics) error
	GetCountyDemographics(ctx context.Context) ([]model.CountyDemographics, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ClassificationStats shows the results of a classification run.
type ClassificationStats struct {
	ByLabel       map[model.Label]int
	RunID         string
	SkippedAwards []string
	TotalAwards   int
	Classified    int
	Skipped       int
	Duration      time.Duration
}
