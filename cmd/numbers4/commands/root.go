package commands

import (
	"context"
	"fmt"
	"os"

	"numbers4-backend/lib/configutil"
	configsqlite "numbers4-backend/lib/configutil/sqlite"
	"numbers4-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

type ScraperConfig struct {
	BaseUrl string `json:"base_url"`
	// milliseconds between consecutive page fetches
	DelayMs int `json:"delay_ms"`
}

type Config struct {
	// path of the canonical dataset
	Csv string `json:"csv"`
	// run journal database, leave empty to disable
	Journal ScraperJournalConfig `json:"journal"`
	Scraper ScraperConfig        `json:"scraper"`
}

type ScraperJournalConfig = configsqlite.Struct

func defaultConfig() Config {
	return Config{
		Csv: "numbers4_results.csv",
	}
}

// reads config.json5 (plus config.local.json5 overrides), falling back
// to defaults when no config file exists at all
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	if cfg.Csv == "" {
		cfg.Csv = defaultConfig().Csv
	}
	return cfg, nil
}

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "numbers4",
	Short: "numbers4 scrapes lottery results and publishes them as JSON artifacts.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
