package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/ingest"
	"github.com/grantwatch/grantcuts/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import USASpending prime transaction CSV exports",
		Long: `Import assistance prime transaction CSVs downloaded from USASpending.

Examples:
  # Import a single export
  grantcuts import data_raw/Assistance_PrimeTransactions.csv

  # Import several exports at once
  grantcuts import data_raw/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Parse files without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing transaction files",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	parser := ingest.NewUSASpendingParser()
	ctx := cmd.Context()

	var allTransactions []model.Transaction
	seen := make(map[string]bool) // dedupe across files by hash

	for _, filePath := range allFiles {
		slog.Info("Processing file", "file", filepath.Base(filePath))

		f, err := os.Open(filePath)
		if err != nil {
			common.LogError(err, "Failed to open file", common.Fields{"file": filePath})
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse file", common.Fields{"file": filePath})
			continue
		}

		added := 0
		for _, txn := range transactions {
			hash := txn.GenerateHash()
			if seen[hash] {
				continue
			}
			seen[hash] = true
			allTransactions = append(allTransactions, txn)
			added++
		}

		slog.Info("Parsed file",
			"file", filepath.Base(filePath),
			"transactions", len(transactions),
			"added", added)
	}

	if len(allTransactions) == 0 {
		return fmt.Errorf("no transactions parsed from %d file(s)", len(allFiles))
	}

	if dryRun {
		slog.Info("Dry run complete, nothing saved", "transactions", len(allTransactions))
		return nil
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info("Import complete", "transactions", len(allTransactions))
	return nil
}
