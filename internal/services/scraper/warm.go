package scraper

import (
	"context"
	"log"
	"sync"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
)

// BookLister enumerates every book of the active catalog with its chapters.
type BookLister interface {
	AllBooks(ctx context.Context) []models.BookResponse
}

// WarmReport counts what WarmCache did.
type WarmReport struct {
	Cached     int
	Downloaded int
	Failed     int
}

type warmOutcome int

const (
	warmCached warmOutcome = iota
	warmDownloaded
	warmFailed
)

// WarmCache pulls every chapter PDF of the active catalog into the PDF
// cache with `workers` concurrent downloads. Failures are logged and left
// for the next run.
//
// Go Pattern: worker pool. A channel of chapter URLs is the job queue,
// `workers` goroutines drain it, and a WaitGroup tells us when they're done.
func WarmCache(ctx context.Context, books BookLister, cache *pdfcache.Cache, fetchPDF fetch.Func, workers int) (*WarmReport, error) {
	if workers < 1 {
		workers = 1
	}
	log.Printf("📦 Warming PDF cache in %s with %d workers", cache.Dir(), workers)

	var (
		mu     sync.Mutex
		report = &WarmReport{}
		wg     sync.WaitGroup
		jobs   = make(chan string)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				outcome := warmOne(ctx, cache, fetchPDF, url)
				mu.Lock()
				switch outcome {
				case warmCached:
					report.Cached++
				case warmDownloaded:
					report.Downloaded++
				default:
					report.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	err := enqueueChapters(ctx, books, jobs)
	close(jobs)
	wg.Wait()
	if err != nil {
		return report, err
	}

	log.Printf("📦 Cache warm complete: %d cached, %d downloaded, %d failed", report.Cached, report.Downloaded, report.Failed)
	return report, nil
}

// enqueueChapters feeds chapter PDF URLs to the pool until the catalog is
// exhausted or ctx is cancelled.
func enqueueChapters(ctx context.Context, books BookLister, jobs chan<- string) error {
	for _, book := range books.AllBooks(ctx) {
		log.Printf("Class %s - %s (%s)", book.Book.Class, book.Book.Subject, book.Source)
		for _, ch := range book.Chapters {
			if ch.PDFURL == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- ch.PDFURL:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func warmOne(ctx context.Context, cache *pdfcache.Cache, fetchPDF fetch.Func, url string) warmOutcome {
	if cache.Has(url) {
		log.Printf("✓ Already cached: %s", url)
		return warmCached
	}
	if _, err := cache.GetOrFetch(ctx, url, fetchPDF); err != nil {
		log.Printf("✗ Error caching %s (timeout=%v): %v", url, fetch.IsTimeout(err), err)
		return warmFailed
	}
	log.Printf("⇣ Cached %s to %s", url, cache.Path(url))
	return warmDownloaded
}
