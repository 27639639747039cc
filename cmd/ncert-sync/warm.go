package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/scraper"
)

var warmCacheCmd = &cobra.Command{
	Use:   "warm-cache",
	Short: "Download every catalog chapter PDF into the PDF cache",
	Long: `Walk the active catalog (live when DATABASE_URL is set, otherwise the
bundled static books) and make sure every chapter PDF is in NCERT_CACHE_DIR.
Already cached files are skipped; failures are logged and retried next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var live catalog.Source
		if cfg.LiveCatalogConfigured() {
			db, err := openCatalog(cfg)
			if err != nil {
				log.Printf("⚠️  Live catalog unavailable, warming the static catalog: %v", err)
			} else {
				defer db.Close()
				live = catalog.NewLiveSource(db)
			}
		}
		resolver := catalog.NewResolver(live, catalog.NewStaticSource(cfg.NCERTPDFBaseURL))

		fetchPDF := fetch.New("").WithTimeout(v.GetDuration("pdf-timeout"))
		report, err := scraper.WarmCache(cmd.Context(), resolver, pdfcache.New(cfg.NCERTCacheDir), fetchPDF, v.GetInt("workers"))
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "cached: %d\ndownloaded: %d\nfailed: %d\n",
				report.Cached, report.Downloaded, report.Failed)
		}
		return err
	},
}

func init() {
	warmCacheCmd.Flags().Int("workers", 4, "concurrent PDF downloads")
	_ = v.BindPFlag("workers", warmCacheCmd.Flags().Lookup("workers"))
}
