package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"admetrics/internal/daemon"
	"admetrics/internal/ingest"
	"admetrics/internal/logging"
	"admetrics/internal/metrics"
	"admetrics/internal/weekly"
)

var flagDaemonAddr string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scheduler: daily ingest plus weekly rollups",
	Long: "Runs in the foreground, ingesting the previous day and computing its\n" +
		"KPIs at the configured daily time, and building weekly rollups on the\n" +
		"configured weekday. Serves /v1/status on the daemon address.",
	RunE: runDaemonCmd,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8191", "HTTP listen address")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemonCmd(_ *cobra.Command, _ []string) error {
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

	log := logging.New("daemon")

	daily := func(ctx context.Context, date time.Time) error {
		runner := ingest.NewRunner(client, st, cfg.Retry, logging.New("ingest"))
		if _, err := runner.RunDaily(ctx, date, nil); err != nil {
			return err
		}
		engine := metrics.NewEngine(st, logging.New("metrics"))
		return engine.ComputeDaily(date)
	}

	weeklyRun := func(_ context.Context, runDate time.Time) error {
		agg := weekly.NewAggregator(st, logging.New("weekly"))
		return agg.Run(runDate, nil)
	}

	svc := daemon.New(daemon.Config{
		Addr:          flagDaemonAddr,
		DailyAt:       cfg.Schedule.DailyAt,
		WeeklyAt:      cfg.Schedule.WeeklyAt,
		WeeklyWeekday: time.Weekday(cfg.Schedule.WeeklyWeekday),
	}, daily, weeklyRun, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return svc.Run(ctx)
}
