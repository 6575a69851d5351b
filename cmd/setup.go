package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"admetrics/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := loadConfig()

	baseURL := cfg.API.BaseURL
	token := ""
	driver := cfg.Store.Driver
	dsn := cfg.Store.DSN

	tokenTitle := "API token"
	if existing := config.GetToken(cfg); existing != "" {
		tokenTitle = fmt.Sprintf("API token (current: %s)", maskToken(existing))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Attribution API base URL").
				Placeholder("https://api.example.com").
				Value(&baseURL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("base URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title(tokenTitle).
				Description("Leave blank to keep the current token. ADMETRICS_TOKEN overrides.").
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("SQLite (local file)", "sqlite"),
					huh.NewOption("PostgreSQL", "postgres"),
				).
				Value(&driver),
			huh.NewInput().
				Title("DSN").
				Description("File path for sqlite, connection string for postgres. ADMETRICS_DSN overrides.").
				Value(&dsn),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	cfg.API.BaseURL = strings.TrimSpace(baseURL)
	if t := strings.TrimSpace(token); t != "" {
		cfg.API.Token = t
	}
	cfg.Store.Driver = driver
	if d := strings.TrimSpace(dsn); d != "" {
		cfg.Store.DSN = d
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `admetrics setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskToken(tok string) string {
	if len(tok) > 12 {
		return tok[:6] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:4] + "..."
	}
	return "****"
}
