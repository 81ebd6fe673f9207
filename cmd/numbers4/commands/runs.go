package commands

import (
	"fmt"
	"time"

	"numbers4-backend/lib/serviceutil"
	"numbers4-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var runsLimit *int64

func init() {
	runsLimit = runsCmd.Flags().Int64("limit", 20, "How many journal entries to show.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--limit N]",
	Short: "Lists recent scrape runs from the journal.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.Journal.File == "" {
			serviceutil.Fatal("no journal configured", fmt.Errorf("set journal.file in config.json5"))
		}

		service, journal := buildService(cfg, "")
		defer journal.Close()

		runs, err := service.Runs(cmd.Context(), *runsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}

		t := newTable()
		t.AppendHeader(row("started", "mode", "range", "pages", "added", "payouts filled", "seconds"))
		for _, r := range runs {
			started := time.Unix(r.StartedAt, 0).In(timezone.Location)
			t.AppendRow(row(
				started.Format(time.DateTime),
				r.Mode,
				fmt.Sprintf("%04d-%04d", r.StartNo, r.EndNo),
				r.Pages,
				r.RecordsAdded,
				r.PayoutsFilled,
				r.FinishedAt-r.StartedAt,
			))
		}
		t.Render()
	},
}
