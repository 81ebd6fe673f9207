package commands

import (
	"database/sql"
	"fmt"
	"time"

	"numbers4-backend/lib/restyutil"
	"numbers4-backend/lib/scrapers/takarakuji"
	"numbers4-backend/lib/serviceutil"
	"numbers4-backend/services/numbers4"
	numbers4db "numbers4-backend/services/numbers4/db"

	"github.com/spf13/cobra"
)

var scrapeFlags struct {
	start       *int
	end         *int
	append      *bool
	withPayouts *bool
	csv         *string
	dumpHttp    *string
}

func init() {
	scrapeFlags.start = scrapeCmd.Flags().Int("start", 1, "First draw number to fetch (inclusive).")
	scrapeFlags.end = scrapeCmd.Flags().Int("end", 0, "Last draw number to fetch (inclusive); 0 auto-detects.")
	scrapeFlags.append = scrapeCmd.Flags().Bool("append", false, "Only fetch draws newer than the stored maximum.")
	scrapeFlags.withPayouts = scrapeCmd.Flags().Bool("with-payouts", false, "Also collect payout amounts (slower).")
	scrapeFlags.csv = scrapeCmd.Flags().String("csv", "", "Canonical dataset path, overrides the config.")
	scrapeFlags.dumpHttp = scrapeCmd.Flags().String("dump-http", "", "Dump every request/response pair into this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

func buildService(cfg Config, dumpHttp string) (numbers4.Service, *sql.DB) {
	var output restyutil.InstrumentOutput
	if dumpHttp != "" {
		output = restyutil.NewFilesystemOutput(dumpHttp)
	}

	client, err := takarakuji.NewClient(takarakuji.ClientOptions{
		BaseUrl:          cfg.Scraper.BaseUrl,
		Delay:            time.Duration(cfg.Scraper.DelayMs) * time.Millisecond,
		InstrumentOutput: output,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize takarakuji client", err)
	}

	var journal *sql.DB
	if cfg.Journal.File != "" {
		journal, err = cfg.Journal.OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open run journal", err)
		}
		_, err = journal.Exec(numbers4db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to migrate run journal", err)
		}
	}

	return numbers4.NewService(client, journal), journal
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--start N] [--end N] [--append] [--with-payouts]",
	Short: "Scrapes draw results and merges them into the canonical dataset.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *scrapeFlags.csv != "" {
			cfg.Csv = *scrapeFlags.csv
		}

		service, journal := buildService(cfg, *scrapeFlags.dumpHttp)
		if journal != nil {
			defer journal.Close()
		}

		summary, err := service.Scrape(cmd.Context(), numbers4.ScrapeOptions{
			CsvPath:     cfg.Csv,
			Start:       *scrapeFlags.start,
			End:         *scrapeFlags.end,
			Append:      *scrapeFlags.append,
			WithPayouts: *scrapeFlags.withPayouts,
		})
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}

		if summary.UpToDate {
			fmt.Println("already up to date")
			return
		}

		t := newTable()
		t.AppendRow(row("range", fmt.Sprintf("%04d-%04d", summary.Range.Start, summary.Range.End)))
		t.AppendRow(row("pages", summary.Pages))
		t.AppendRow(row("new records", summary.NewRecords))
		t.AppendRow(row("payout fields filled", summary.PayoutsFilled))
		t.AppendRow(row("total records", summary.Total))
		t.AppendRow(row("complete payout data", coverage(summary.Complete, summary.Total)))
		t.Render()
	},
}

func coverage(complete, total int) string {
	if total == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", complete, total, float64(complete)/float64(total)*100)
}
