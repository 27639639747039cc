package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/scraper"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/storage"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape ncert.nic.in into the live catalog",
	Long: `Scrape the NCERT textbook index, download every chapter PDF of the
selected books, extract text and titles, upload PDF and text to storage and
upsert the catalog rows. Chapter failures are logged and skipped.

Examples:
  ncert-sync scrape                               # classes 9-12, all subjects
  ncert-sync scrape --classes 10 --subjects Science
  SCRAPE_LANGUAGES=english,hindi ncert-sync scrape --book-delay 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.LiveCatalogConfigured() {
			return errors.New("DATABASE_URL is required for scrape")
		}

		db, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		opts := scrapeOptions(cfg)
		client := fetch.New("")
		s := scraper.New(
			client.WithTimeout(cfg.IndexTimeout),
			client.WithTimeout(v.GetDuration("pdf-timeout")),
			storage.NewBucket(cfg.StorageDir, cfg.PublicBaseURL),
			db,
			opts,
		)

		log.Printf("🔧 Scrape filter: classes=%v subjects=%v languages=%v", opts.Filter.Classes, opts.Filter.Subjects, opts.Filter.Languages)
		report, err := s.Run(cmd.Context())
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "books: %d\nchapters saved: %d\nchapters failed: %d\n",
				report.Books, report.ChaptersSaved, report.ChaptersFailed)
		}
		return err
	},
}

func init() {
	defaults := scraper.DefaultOptions()
	f := scrapeCmd.Flags()
	f.StringSlice("classes", defaults.Filter.Classes, "classes to scrape")
	f.StringSlice("subjects", nil, "subjects to scrape (default: all)")
	f.StringSlice("languages", nil, "language keys to scrape, e.g. english,hindi (default: all)")
	f.Duration("book-delay", defaults.BookDelay, "minimum time between books")
	f.Int("max-pages", defaults.MaxPages, "pages of text to extract per chapter")
	f.Int("max-chars", defaults.MaxChars, "characters of text to extract per chapter")
	f.Uint("attempts", defaults.Attempts, "download attempts per chapter PDF")
	_ = v.BindPFlags(f)
}

// scrapeOptions merges flags, SCRAPE_* variables and service config.
func scrapeOptions(cfg *config.Config) scraper.Options {
	opts := scraper.DefaultOptions()
	opts.IndexURL = cfg.NCERTIndexURL
	opts.PDFBaseURL = cfg.NCERTPDFBaseURL
	opts.Filter = scraper.Filter{
		Classes:   listValue("classes"),
		Subjects:  listValue("subjects"),
		Languages: listValue("languages"),
	}
	opts.BookDelay = v.GetDuration("book-delay")
	if n := v.GetInt("max-pages"); n > 0 {
		opts.MaxPages = n
	}
	if n := v.GetInt("max-chars"); n > 0 {
		opts.MaxChars = n
	}
	if n := v.GetUint("attempts"); n > 0 {
		opts.Attempts = n
	}
	return opts
}
