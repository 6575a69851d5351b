package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"admetrics/internal/ingest"
	"admetrics/internal/logging"
)

var flagOnly []string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch and store a day's attribution datasets",
	Long: "Fetches costs, installs, events, and orders for the target date and\n" +
		"replaces the corresponding daily tables.",
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&flagOnly, "only", nil,
		"Datasets to ingest (subset of costs,installs,events,orders)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	date, err := parseDate()
	if err != nil {
		return err
	}

	for _, name := range flagOnly {
		if !validDataset(name) {
			return fmt.Errorf("unknown dataset %q (want one of %s)", name, strings.Join(ingest.Datasets, ","))
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	progress("  Ingesting %s...\n", flagDate)

	runner := ingest.NewRunner(client, st, cfg.Retry, logging.New("ingest"))
	result, err := runner.RunDaily(cmd.Context(), date, flagOnly)
	if err != nil {
		if len(result.Done) > 0 {
			progress("  Completed before failure: %s\n", strings.Join(result.Done, ", "))
		}
		return err
	}

	for _, dataset := range result.Done {
		progress("  %-10s %d rows\n", dataset, result.RowCount[dataset])
	}
	progress("  Done (run %s)\n", result.RunID)
	return nil
}

func validDataset(name string) bool {
	for _, d := range ingest.Datasets {
		if d == name {
			return true
		}
	}
	return false
}
