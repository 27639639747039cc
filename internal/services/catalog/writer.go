package catalog

import (
	"context"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// Writer is the write side of the live catalog, used by the scraper.
// Both calls are upserts: re-running a scrape refreshes rows in place.
type Writer interface {
	UpsertBook(ctx context.Context, book models.BookRecord, sourceURL string) error
	UpsertChapter(ctx context.Context, row models.ChapterRow) error
}
