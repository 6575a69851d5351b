package cmd

import (
	"github.com/spf13/cobra"

	"admetrics/internal/logging"
	"admetrics/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute KPI tables for a day",
	Long: "Derives the per-dimension CPI tables plus ARPU and ROAS from the\n" +
		"target date's ingested tables.",
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(_ *cobra.Command, _ []string) error {
	date, err := parseDate()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	progress("  Computing KPIs for %s...\n", flagDate)

	engine := metrics.NewEngine(st, logging.New("metrics"))
	if err := engine.ComputeDaily(date); err != nil {
		return err
	}

	progress("  Done\n")
	return nil
}
