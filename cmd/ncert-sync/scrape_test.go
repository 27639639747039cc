package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
)

func TestScrapeOptionsDefaults(t *testing.T) {
	cfg := &config.Config{
		NCERTIndexURL:   "https://ncert.nic.in/textbook.php?ln=en",
		NCERTPDFBaseURL: "https://ncert.nic.in/textbook/pdf",
	}
	opts := scrapeOptions(cfg)

	assert.Equal(t, []string{"9", "10", "11", "12"}, opts.Filter.Classes)
	assert.Empty(t, opts.Filter.Subjects)
	assert.Equal(t, 6, opts.MaxPages)
	assert.Equal(t, 15000, opts.MaxChars)
	assert.Equal(t, uint(3), opts.Attempts)
	assert.Equal(t, cfg.NCERTIndexURL, opts.IndexURL)
	assert.Equal(t, 60*time.Second, v.GetDuration("pdf-timeout"))
}

func TestScrapeOptionsFromEnv(t *testing.T) {
	t.Setenv("SCRAPE_CLASSES", "10, 12")
	t.Setenv("SCRAPE_LANGUAGES", "english,hindi")
	t.Setenv("SCRAPE_BOOK_DELAY", "5s")
	t.Setenv("SCRAPE_MAX_CHARS", "2000")

	opts := scrapeOptions(&config.Config{})
	assert.Equal(t, []string{"10", "12"}, opts.Filter.Classes)
	assert.Equal(t, []string{"english", "hindi"}, opts.Filter.Languages)
	assert.Equal(t, 5*time.Second, opts.BookDelay)
	assert.Equal(t, 2000, opts.MaxChars)
	assert.Equal(t, 6, opts.MaxPages)
}
