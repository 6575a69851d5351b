package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"admetrics/internal/attribapi"
	"admetrics/internal/config"
	"admetrics/internal/store"
)

var (
	flagDate   string
	flagConfig string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "admetrics",
	Short: "Marketing attribution ETL",
	Long: "Ingest daily attribution data (installs, costs, events, orders),\n" +
		"derive marketing KPIs (CPI, ARPU, ROAS), and build weekly rollups.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	rootCmd.PersistentFlags().StringVarP(&flagDate, "date", "d", yesterday, "Target date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (default XDG location)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file, honoring --config.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// parseDate parses the --date flag.
func parseDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", flagDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", flagDate, err)
	}
	return t, nil
}

// openStore opens the configured store; the caller closes it.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Store.Driver, config.GetDSN(cfg))
	if err != nil {
		return nil, err
	}
	return st, nil
}

// newClient builds the attribution API client from config.
func newClient(cfg config.Config) (*attribapi.Client, error) {
	return attribapi.NewClient(cfg.API.BaseURL, config.GetToken(cfg), cfg.API.Timeout())
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
