package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grantwatch/grantcuts/internal/cli"
	"github.com/grantwatch/grantcuts/internal/model"
	"github.com/grantwatch/grantcuts/internal/report"
	"github.com/grantwatch/grantcuts/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a summary of the classified awards",
		RunE:  runReport,
	}

	cmd.Flags().Bool("era-only", false, "only awards active on/after the cutoff date")
	cmd.Flags().Bool("by-county", false, "show the county rollup instead of the label summary")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	eraOnly, _ := cmd.Flags().GetBool("era-only")
	byCounty, _ := cmd.Flags().GetBool("by-county")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	if byCounty {
		deobligations, loadErr := store.GetTransactions(ctx, service.TransactionFilter{NegativeOnly: true})
		if loadErr != nil {
			return fmt.Errorf("failed to load deobligations: %w", loadErr)
		}
		if eraOnly {
			deobligations = report.FilterEra(deobligations, model.DefaultCutoff)
		}

		counties, loadErr := store.GetCountyDemographics(ctx)
		if loadErr != nil {
			return fmt.Errorf("failed to load county demographics: %w", loadErr)
		}

		printCountyReport(report.RollupByCounty(deobligations, counties))
		return nil
	}

	classifications, err := store.GetClassifications(ctx, service.ClassificationFilter{EraOnly: eraOnly})
	if err != nil {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	if len(classifications) == 0 {
		fmt.Println(cli.FormatWarning("No classifications found - run classify first"))
		return nil
	}

	printLabelReport(report.SummarizeByLabel(classifications), len(classifications))
	return nil
}

func printLabelReport(summaries []report.LabelSummary, total int) {
	fmt.Println(cli.FormatTitle("Award classifications"))

	header := fmt.Sprintf("%-22s %8s %18s %12s", "LABEL", "AWARDS", "DEOBLIGATED USD", "AVG CONF")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, summary := range summaries {
		row := fmt.Sprintf("%-22s %8d %18.2f %12.2f",
			summary.Label,
			summary.Awards,
			summary.DeobligatedUSD,
			summary.AvgConfidence)
		fmt.Println(cli.TableCellStyle.Render(row))
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d awards classified", total)))
}

func printCountyReport(rollups []report.CountyRollup) {
	fmt.Println(cli.FormatTitle("Deobligations by county"))

	header := fmt.Sprintf("%-16s %18s %10s %14s %12s", "COUNTY", "DEOBLIGATED USD", "AWARDS", "USD/CAPITA", "CUTS/10K")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, rollup := range rollups {
		row := fmt.Sprintf("%-16s %18.2f %10d %14.4f %12.4f",
			titleCase(rollup.County),
			rollup.DeobligatedUSD,
			rollup.AwardsWithAnyCut,
			rollup.PerCapitaUSD,
			rollup.CutsPer10K)
		fmt.Println(cli.TableCellStyle.Render(row))
	}
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
