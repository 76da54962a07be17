package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grantwatch/grantcuts/internal/ingest"
	"github.com/grantwatch/grantcuts/internal/model"
)

func demographicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demographics [file]",
		Short: "Import the ACS DP05 county demographic table",
		Long: `Import the ACS DP05 demographic table used for the county rollup.
Both the Census tab-delimited .csv export and .xlsx workbooks are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: runDemographics,
	}
}

func runDemographics(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	parser := ingest.NewACSParser()
	ctx := cmd.Context()

	var counties []model.CountyDemographics
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		parsed, parseErr := parser.ParseWorkbook(ctx, f)
		if parseErr != nil {
			return fmt.Errorf("failed to parse workbook %s: %w", filePath, parseErr)
		}
		counties = parsed
	} else {
		parsed, parseErr := parser.ParseFile(ctx, f)
		if parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, parseErr)
		}
		counties = parsed
	}

	if len(counties) == 0 {
		return fmt.Errorf("no county rows found in %s", filePath)
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveCountyDemographics(ctx, counties); err != nil {
		return fmt.Errorf("failed to save county demographics: %w", err)
	}

	slog.Info("Demographics import complete", "counties", len(counties))
	return nil
}
