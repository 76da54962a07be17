package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grantwatch/grantcuts/internal/classify"
	"github.com/grantwatch/grantcuts/internal/cli"
	"github.com/grantwatch/grantcuts/internal/engine"
	"github.com/grantwatch/grantcuts/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify every imported award",
		Long: `Classify each award's transaction history into one of five outcomes:
NODEOBLIGATION, CANCELLATION, RESCISSION, PARTIAL_RES_CUMPOS, or
ADMIN_OR_PREPAY_ADJ, with a confidence score and full hypothesis breakdown.`,
		RunE: runClassify,
	}

	cmd.Flags().String("cutoff", "", "era cutoff date override (YYYY-MM-DD)")
	cmd.Flags().Int("workers", 0, "number of classification workers (default 4)")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("classify.cutoff", cmd.Flags().Lookup("cutoff"))
	_ = viper.BindPFlag("classify.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	classifierCfg := classify.DefaultConfig()
	if cutoff := viper.GetString("classify.cutoff"); cutoff != "" {
		parsed, err := parseCutoff(cutoff)
		if err != nil {
			return err
		}
		classifierCfg.Cutoff = parsed
	}

	engineCfg := engine.DefaultConfig()
	if workers := viper.GetInt("classify.workers"); workers > 0 {
		engineCfg.Workers = workers
	}
	engineCfg.ShowProgress = !noProgress

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng := engine.NewWithConfig(store, classify.New(classifierCfg), engineCfg)

	stats, err := eng.ClassifyAll(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Classified %d of %d awards (%d skipped) in %s",
		stats.Classified, stats.TotalAwards, stats.Skipped, stats.Duration.Round(10*time.Millisecond))))
	for _, label := range model.AllLabels {
		if count, ok := stats.ByLabel[label]; ok {
			fmt.Printf("  %-22s %d\n", label, count)
		}
	}

	return nil
}
