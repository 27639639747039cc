package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
)

type staticLister []models.BookResponse

func (l staticLister) AllBooks(ctx context.Context) []models.BookResponse { return l }

func TestWarmCache(t *testing.T) {
	ctx := context.Background()
	cache := pdfcache.New(t.TempDir())
	require.NoError(t, cache.Put("https://ncert.nic.in/textbook/pdf/jemh101.pdf", []byte("%PDF-1.4 cached")))

	books := staticLister{{
		Source: models.SourceStatic,
		Book:   models.BookRecord{Class: "10", Subject: "Math"},
		Chapters: []models.ChapterRecord{
			{Number: 1, PDFURL: "https://ncert.nic.in/textbook/pdf/jemh101.pdf"},
			{Number: 2, PDFURL: "https://ncert.nic.in/textbook/pdf/jemh102.pdf"},
			{Number: 3, PDFURL: "https://ncert.nic.in/textbook/pdf/jemh103.pdf"},
			{Number: 4},
		},
	}}
	fetchPDF := func(ctx context.Context, url string) ([]byte, error) {
		if url == "https://ncert.nic.in/textbook/pdf/jemh103.pdf" {
			return nil, errors.New("connection reset")
		}
		return []byte("%PDF-1.4 fresh"), nil
	}

	report, err := WarmCache(ctx, books, cache, fetchPDF, 2)
	require.NoError(t, err)
	assert.Equal(t, &WarmReport{Cached: 1, Downloaded: 1, Failed: 1}, report)
	assert.True(t, cache.Has("https://ncert.nic.in/textbook/pdf/jemh102.pdf"))
	assert.False(t, cache.Has("https://ncert.nic.in/textbook/pdf/jemh103.pdf"))
}

func TestWarmCacheCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	books := staticLister{{
		Chapters: []models.ChapterRecord{
			{Number: 1, PDFURL: "https://ncert.nic.in/textbook/pdf/jesc101.pdf"},
		},
	}}
	fetchPDF := func(ctx context.Context, url string) ([]byte, error) {
		return []byte("%PDF-1.4"), nil
	}

	_, err := WarmCache(ctx, books, pdfcache.New(t.TempDir()), fetchPDF, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
