package commands

import (
	"fmt"
	"time"

	"numbers4-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var fillPayoutsFlags struct {
	csv      *string
	dumpHttp *string
}

func init() {
	fillPayoutsFlags.csv = fillPayoutsCmd.Flags().String("csv", "", "Canonical dataset path, overrides the config.")
	fillPayoutsFlags.dumpHttp = fillPayoutsCmd.Flags().String("dump-http", "", "Dump every request/response pair into this directory.")
	rootCmd.AddCommand(fillPayoutsCmd)
}

var fillPayoutsCmd = &cobra.Command{
	Use:   "fill-payouts",
	Short: "Backfills payout amounts for stored draws that have none.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *fillPayoutsFlags.csv != "" {
			cfg.Csv = *fillPayoutsFlags.csv
		}

		service, journal := buildService(cfg, *fillPayoutsFlags.dumpHttp)
		if journal != nil {
			defer journal.Close()
		}

		t1 := time.Now()
		summary, err := service.FillPayouts(cmd.Context(), cfg.Csv)
		if err != nil {
			serviceutil.Fatal("payout backfill failed", err)
		}
		t2 := time.Now()

		t := newTable()
		t.AppendRow(row("records missing payouts", summary.Missing))
		t.AppendRow(row("payout fields filled", summary.Filled))
		t.AppendRow(row("complete payout data", coverage(summary.Complete, summary.Total)))
		t.AppendRow(row("seconds", fmt.Sprintf("%.1f", t2.Sub(t1).Seconds())))
		t.Render()
	},
}
