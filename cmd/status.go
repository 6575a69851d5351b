package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"admetrics/internal/cli"
	"admetrics/internal/daemon"
	"admetrics/internal/store"
)

var flagStatusAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status and recent pipeline runs",
	RunE:  runStatusCmd,
}

func init() {
	statusCmd.Flags().StringVar(&flagStatusAddr, "addr", "127.0.0.1:8191", "Daemon address")
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println(cli.RenderTitle("ADMETRICS STATUS"))
	fmt.Println()

	renderDaemon(cmd.Context())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return renderRecentRuns(st)
}

func renderDaemon(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+flagStatusAddr+"/v1/status", nil)
	if err != nil {
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("daemon not running at %s (start with `admetrics daemon`)", flagStatusAddr)))
		fmt.Println()
		return
	}
	defer func() { _ = resp.Body.Close() }()

	var status daemon.Status
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&status) != nil {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("daemon at %s answered %s", flagStatusAddr, resp.Status)))
		fmt.Println()
		return
	}

	rows := [][]string{
		{"Started", status.StartedAt.Format(time.RFC3339)},
		{"Daily at", status.DailyAt},
		{"Weekly at", fmt.Sprintf("%s (%s)", status.WeeklyAt, status.WeeklyWeekday)},
		{"Daily runs", fmt.Sprintf("%d", status.DailyRuns)},
		{"Weekly runs", fmt.Sprintf("%d", status.WeeklyRuns)},
	}
	if status.LastDailyDay != "" {
		rows = append(rows, []string{"Last daily", status.LastDailyDay})
	}
	if status.LastWeeklyDay != "" {
		rows = append(rows, []string{"Last weekly", status.LastWeeklyDay})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daemon",
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	if status.LastDailyErr != "" {
		fmt.Println(cli.RenderWarning("last daily run failed: " + status.LastDailyErr))
		fmt.Println()
	}
	if status.LastWeeklyErr != "" {
		fmt.Println(cli.RenderWarning("last weekly run failed: " + status.LastWeeklyErr))
		fmt.Println()
	}
}

func renderRecentRuns(st *store.Store) error {
	runs, err := st.RecentRuns(10)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(cli.RenderMuted("no pipeline runs recorded yet"))
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		outcome := "ok"
		if r.Err != "" {
			outcome = "failed"
		}
		rows = append(rows, []string{
			r.Kind,
			r.Date,
			r.Datasets,
			cli.FormatNumber(r.Rows),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			outcome,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent Runs",
		Headers: []string{"Kind", "Date", "Datasets", "Rows", "Took", "Result"},
		Rows:    rows,
	}))
	fmt.Println()

	for _, r := range runs {
		if r.Err != "" {
			fmt.Println(cli.RenderWarning(fmt.Sprintf("%s %s: %s", r.Kind, r.Date, r.Err)))
		}
	}
	return nil
}
