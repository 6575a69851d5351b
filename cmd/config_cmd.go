// Package cmd implements the admetrics CLI commands.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"admetrics/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfigCmd,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	if cfg.API.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	} else {
		fmt.Println("    Base URL: not configured")
	}
	if tok := config.GetToken(cfg); tok != "" {
		fmt.Printf("    Token:    %s\n", maskToken(tok))
	} else {
		fmt.Println("    Token:    not configured")
	}
	fmt.Printf("    Timeout:  %s\n", cfg.API.Timeout())
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Driver: %s\n", cfg.Store.Driver)
	fmt.Printf("    DSN:    %s\n", config.GetDSN(cfg))
	fmt.Println()

	fmt.Println("  [Retry]")
	fmt.Printf("    Max attempts: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("    Backoff:      %s base, %s cap\n", cfg.Retry.BaseBackoff(), cfg.Retry.MaxBackoff())
	fmt.Println()

	fmt.Println("  [Schedule]")
	fmt.Printf("    Daily ingest at: %s\n", cfg.Schedule.DailyAt)
	fmt.Printf("    Weekly rollups:  %s at %s\n",
		time.Weekday(cfg.Schedule.WeeklyWeekday), cfg.Schedule.WeeklyAt)
	fmt.Println()

	fmt.Println("  Run `admetrics setup` to reconfigure.")
	return nil
}
