package cmd

import (
	"github.com/spf13/cobra"

	"admetrics/internal/logging"
	"admetrics/internal/weekly"
)

var flagPrefixes []string

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Build trailing-week rollup tables",
	Long: "Discovers daily tables from the 7 days strictly preceding the target\n" +
		"date and concatenates them into tagged rollup tables.",
	RunE: runWeekly,
}

func init() {
	weeklyCmd.Flags().StringSliceVar(&flagPrefixes, "prefix", nil,
		"Entity prefixes to roll up (default roas,arpu,cpi)")
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(_ *cobra.Command, _ []string) error {
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

	progress("  Rolling up week ending before %s...\n", flagDate)

	agg := weekly.NewAggregator(st, logging.New("weekly"))
	if err := agg.Run(date, flagPrefixes); err != nil {
		return err
	}

	progress("  Done\n")
	return nil
}
