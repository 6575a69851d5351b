package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"admetrics/internal/cli"
	"admetrics/internal/model"
	"admetrics/internal/store"
)

var flagDimension string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a day's KPI tables",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagDimension, "dimension", "channel", "CPI dimension to display")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
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

	fmt.Println()
	fmt.Println(cli.RenderTitle("KPI REPORT  " + flagDate))
	fmt.Println()

	if err := renderCPI(st, date); err != nil {
		return err
	}
	if err := renderRevenue(st, date); err != nil {
		return err
	}

	return nil
}

func renderCPI(st *store.Store, date time.Time) error {
	valid := false
	for _, d := range model.Dimensions {
		if d == flagDimension {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown dimension %q", flagDimension)
	}

	name := "cpi_" + flagDimension + "_" + date.Format(store.DateKey)
	t, err := st.ReadTable(name)
	if err != nil {
		fmt.Println(cli.RenderMuted("CPI (" + flagDimension + "): not computed for this date"))
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		installs, _ := row[1].(int64)
		spent, _ := row[2].(float64)
		cpi, _ := row[3].(float64)
		rows = append(rows, []string{
			fmt.Sprintf("%v", row[0]),
			cli.FormatNumber(installs),
			cli.FormatMoney(spent),
			fmt.Sprintf("%.2f", cpi),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "CPI by " + flagDimension,
		Headers: []string{flagDimension, "Installs", "Spend", "CPI"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func renderRevenue(st *store.Store, date time.Time) error {
	key := date.Format(store.DateKey)

	if t, err := st.ReadTable("arpu_" + key); err == nil && len(t.Rows) > 0 {
		row := t.Rows[0]
		users, _ := row[0].(int64)
		revenue, _ := row[1].(float64)
		arpu := asRatio(row[2])
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "ARPU",
			Headers: []string{"Unique users", "Revenue", "ARPU"},
			Rows: [][]string{{
				cli.FormatNumber(users),
				cli.FormatMoney(revenue),
				cli.FormatRatio(arpu),
			}},
		}))
		fmt.Println()
	} else {
		fmt.Println(cli.RenderMuted("ARPU: not computed for this date"))
		fmt.Println()
	}

	if t, err := st.ReadTable("roas_" + key); err == nil && len(t.Rows) > 0 {
		row := t.Rows[0]
		revenue, _ := row[0].(float64)
		spent, _ := row[1].(float64)
		roas := asRatio(row[2])
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "ROAS",
			Headers: []string{"Revenue", "Spend", "ROAS"},
			Rows: [][]string{{
				cli.FormatMoney(revenue),
				cli.FormatMoney(spent),
				cli.FormatPercent(roas),
			}},
		}))
		fmt.Println()
	} else {
		fmt.Println(cli.RenderMuted("ROAS: not computed for this date"))
		fmt.Println()
	}

	return nil
}

func asRatio(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
