package main

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
	"github.com/Shimizu-Technology/study-circle-api/internal/database"
)

// v holds flag values, overridable by SCRAPE_* environment variables
// (SCRAPE_CLASSES=9,10 or SCRAPE_BOOK_DELAY=5s).
var v = newViper()

var rootCmd = &cobra.Command{
	Use:   "ncert-sync",
	Short: "Sync the NCERT textbook catalog",
	Long: `ncert-sync keeps the Study Circle NCERT catalog up to date.

  scrape      walk ncert.nic.in, store chapter PDFs and text, upsert catalog rows
  warm-cache  download every catalog chapter PDF into the local PDF cache

Service settings (DATABASE_URL, STORAGE_DIR, NCERT_CACHE_DIR, ...) are read
from the environment or a .env file, the same way the API server reads them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		config.LoadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().Duration("pdf-timeout", 60*time.Second, "chapter PDF download timeout")
	_ = v.BindPFlag("pdf-timeout", rootCmd.PersistentFlags().Lookup("pdf-timeout"))

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(warmCacheCmd)
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix("SCRAPE")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()
	return nv
}

// openCatalog connects to the live catalog and applies migrations.
func openCatalog(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("✅ Database connected")
	return db, nil
}

// listValue reads a list flag. Values may be repeated or comma separated;
// environment values arrive as one comma separated string.
func listValue(key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
