package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grantwatch/grantcuts/internal/common"
	"github.com/grantwatch/grantcuts/internal/export"
	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/report"
	"github.com/grantwatch/grantcuts/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the classified awards and rollups",
		Long: `Export the awards master table, the labeled deobligation transactions,
the county geo aggregation, and the city-month rollup as CSV files, and
optionally the same data as one XLSX workbook.`,
		RunE: runExport,
	}

	cmd.Flags().String("dir", "data_exports", "output directory")
	cmd.Flags().Bool("xlsx", false, "also write an XLSX workbook")
	cmd.Flags().String("cutoff", "", "era cutoff date override (YYYY-MM-DD)")

	_ = viper.BindPFlag("export.dir", cmd.Flags().Lookup("dir"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	writeXLSX, _ := cmd.Flags().GetBool("xlsx")

	cutoff := model.DefaultCutoff
	if value, _ := cmd.Flags().GetString("cutoff"); value != "" {
		parsed, err := parseCutoff(value)
		if err != nil {
			return err
		}
		cutoff = parsed
	}

	outDir := viper.GetString("export.dir")
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	classifications, err := store.GetClassifications(ctx, service.ClassificationFilter{})
	if err != nil {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	if len(classifications) == 0 {
		return common.NewUserError("no classifications to export - run classify first", nil)
	}

	transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	counties, err := store.GetCountyDemographics(ctx)
	if err != nil {
		return fmt.Errorf("failed to load county demographics: %w", err)
	}

	byAward := make(map[string][]model.Transaction)
	var deobligations []model.Transaction
	for _, txn := range transactions {
		byAward[txn.AwardID] = append(byAward[txn.AwardID], txn)
		if txn.Amount < 0 {
			deobligations = append(deobligations, txn)
		}
	}

	labelByAward := make(map[string]model.Label, len(classifications))
	for _, c := range classifications {
		labelByAward[c.AwardID] = c.Label
	}

	rows := export.BuildAwardRows(classifications, byAward)
	countyRollups := report.RollupByCounty(deobligations, counties)
	cityRollups := report.RollupByCityMonth(deobligations, cutoff)
	summaries := report.SummarizeByLabel(classifications)

	if err := writeCSV(filepath.Join(outDir, "awards_master.csv"), func(f *os.File) error {
		return export.WriteAwardsMasterCSV(f, rows)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, "transactions_deob.csv"), func(f *os.File) error {
		return export.WriteDeobligationsCSV(f, deobligations, labelByAward, cutoff)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, "geo_aggregation.csv"), func(f *os.File) error {
		return export.WriteGeoAggregationCSV(f, countyRollups)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, "transactions_deob_city_month.csv"), func(f *os.File) error {
		return export.WriteCityMonthCSV(f, cityRollups)
	}); err != nil {
		return err
	}

	if writeXLSX {
		if err := writeCSV(filepath.Join(outDir, "grantcuts.xlsx"), func(f *os.File) error {
			return export.WriteWorkbook(f, rows, countyRollups, cityRollups, summaries)
		}); err != nil {
			return err
		}
	}

	slog.Info("Export complete",
		"dir", outDir,
		"awards", len(rows),
		"deobligations", len(deobligations),
		"counties", len(countyRollups))

	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Debug("Wrote export file", "path", path)
	return nil
}
