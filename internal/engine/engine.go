// Package engine orchestrates batch classification: it groups stored
// transactions by award, runs the classifier over each award, and persists
// one classification per award.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/grantwatch/grantcuts/internal/classify"
	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/service"
)

// Engine runs the classifier over every award in storage.
type Engine struct {
	storage    service.Storage
	classifier *classify.Classifier
	workers    int
	progress   bool
}

// Config holds configuration options for the classification engine.
type Config struct {
	Workers      int
	ShowProgress bool
}

// DefaultConfig returns the default configuration. Awards are independent,
// so a handful of workers is plenty; the work is CPU-trivial per award.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		ShowProgress: true,
	}
}

// New creates a new engine with the default configuration.
func New(storage service.Storage, classifier *classify.Classifier) *Engine {
	return NewWithConfig(storage, classifier, DefaultConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(storage service.Storage, classifier *classify.Classifier, config Config) *Engine {
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		storage:    storage,
		classifier: classifier,
		workers:    workers,
		progress:   config.ShowProgress,
	}
}

// ClassifyAll classifies every award with stored transactions and persists
// the results. Awards with no classifiable history are counted and logged as
// skipped, never zero-filled into the result set. Each worker writes to its
// own slot, so concurrent classification cannot reorder results.
func (e *Engine) ClassifyAll(ctx context.Context) (*service.ClassificationStats, error) {
	start := time.Now()

	slog.Info("Starting classification run")

	transactions, err := e.storage.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("no transactions in storage - run import first")
	}

	groups := e.groupByAward(transactions)
	awardIDs := make([]string, 0, len(groups))
	for awardID := range groups {
		awardIDs = append(awardIDs, awardID)
	}
	sort.Strings(awardIDs)

	slog.Info("Loaded transactions",
		"transactions", len(transactions),
		"awards", len(awardIDs))

	runID := uuid.NewString()
	results := make([]*model.Classification, len(awardIDs))
	skipped := make([]error, len(awardIDs))

	var bar *progressbar.ProgressBar
	if e.progress {
		bar = progressbar.Default(int64(len(awardIDs)), "classifying awards")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, awardID := range awardIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			classification, classifyErr := e.classifier.Classify(awardID, groups[awardID])
			if classifyErr != nil {
				if common.IsSkipped(classifyErr) {
					skipped[i] = classifyErr
					return nil
				}
				return classifyErr
			}

			classification.RunID = runID
			results[i] = classification

			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classification run failed: %w", err)
	}

	stats := &service.ClassificationStats{
		RunID:       runID,
		TotalAwards: len(awardIDs),
		ByLabel:     make(map[model.Label]int),
	}

	classifications := make([]model.Classification, 0, len(results))
	for i, classification := range results {
		if classification == nil {
			stats.Skipped++
			stats.SkippedAwards = append(stats.SkippedAwards, awardIDs[i])
			if skipped[i] != nil {
				slog.Warn("Skipped award", "award_id", awardIDs[i], "reason", skipped[i])
			}
			continue
		}
		classifications = append(classifications, *classification)
		stats.ByLabel[classification.Label]++
	}
	stats.Classified = len(classifications)

	if len(classifications) > 0 {
		if err := e.storage.SaveClassifications(ctx, classifications); err != nil {
			return nil, fmt.Errorf("failed to save classifications: %w", err)
		}
	}

	stats.Duration = time.Since(start)

	slog.Info("Classification run complete",
		"run_id", runID,
		"classified", stats.Classified,
		"skipped", stats.Skipped,
		"duration", stats.Duration)

	return stats, nil
}

func (e *Engine) groupByAward(transactions []model.Transaction) map[string][]model.Transaction {
	groups := make(map[string][]model.Transaction)
	for _, txn := range transactions {
		groups[txn.AwardID] = append(groups[txn.AwardID], txn)
	}
	return groups
}
