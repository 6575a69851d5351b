package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"admetrics/internal/tui"
)

var flagWatchAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the daemon status",
	RunE:  runWatchCmd,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchAddr, "addr", "127.0.0.1:8191", "Daemon address")
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(_ *cobra.Command, _ []string) error {
	p := tea.NewProgram(tui.NewModel(flagWatchAddr))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
