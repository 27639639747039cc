// Package catalog resolves loosely specified NCERT textbook queries to a
// book and its ordered chapters.
//
// Two sources implement the same Source interface: a live catalog backed by
// Postgres (filled by the ncert-sync scraper) and a bundled static dataset.
// The Resolver tries the live catalog first and silently falls back to the
// static one; a failure in the live catalog never fails a request.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// ErrNotConfigured is returned by a live source with no backing store.
var ErrNotConfigured = errors.New("live catalog is not configured")

// Source is one catalog backend. A book that does not exist is (nil, nil),
// not an error.
type Source interface {
	ResolveBook(ctx context.Context, q models.BookQuery) (*models.BookResponse, error)
	ListOptions(ctx context.Context) (*models.LibraryOptions, error)
}

// staticIDPrefix marks book ids that belong to the static dataset.
const staticIDPrefix = "static"

// IsStaticID reports whether bookID refers to the static dataset.
func IsStaticID(bookID string) bool {
	return strings.HasPrefix(bookID, staticIDPrefix)
}

// Resolver picks between the live and static sources.
type Resolver struct {
	live   Source // nil when no live catalog is configured
	static *StaticSource
}

// NewResolver creates a resolver. live may be nil.
func NewResolver(live Source, static *StaticSource) *Resolver {
	return &Resolver{live: live, static: static}
}

// LiveConfigured reports whether a live catalog is wired in.
func (r *Resolver) LiveConfigured() bool {
	return r.live != nil
}

// ActiveSource reports which source answers requests first.
func (r *Resolver) ActiveSource() models.CatalogSource {
	if r.live != nil {
		return models.SourceLive
	}
	return models.SourceStatic
}

// ResolveBook returns the best book for q, or nil when nothing matches.
//
// Static ids go straight to the static dataset. Otherwise the live catalog is
// asked first; if it errors or has no match, the static dataset answers.
func (r *Resolver) ResolveBook(ctx context.Context, q models.BookQuery) *models.BookResponse {
	if q.BookID != "" && IsStaticID(q.BookID) {
		return r.static.Resolve(q)
	}

	if r.live != nil {
		resp, err := r.live.ResolveBook(ctx, q)
		if err != nil {
			log.Printf("⚠️  Live catalog lookup failed (bookId=%q class=%q subject=%q subjectGroup=%q subjectKey=%q language=%q): %v",
				q.BookID, q.Class, q.Subject, q.SubjectGroup, q.SubjectKey, q.Language, err)
		} else if resp != nil {
			return resp
		}
	}

	return r.static.Resolve(q)
}

// ListOptions enumerates the active catalog. It never fails: an empty or
// broken live catalog yields the static enumeration.
func (r *Resolver) ListOptions(ctx context.Context) *models.LibraryOptions {
	if r.live != nil {
		opts, err := r.live.ListOptions(ctx)
		switch {
		case err != nil:
			log.Printf("⚠️  Failed to load library options from live catalog: %v", err)
		case opts != nil && len(opts.Classes) > 0:
			return opts
		}
	}
	return r.static.Options()
}

// AllBooks returns every book of the active catalog with its chapters.
// The cache warmer walks this list.
func (r *Resolver) AllBooks(ctx context.Context) []models.BookResponse {
	var books []models.BookResponse
	for _, class := range r.ListOptions(ctx).Classes {
		for _, subject := range class.Subjects {
			for _, book := range subject.Books {
				resp := r.ResolveBook(ctx, models.BookQuery{BookID: book.ID})
				if resp == nil {
					log.Printf("⚠️  Book %s listed but not resolvable", book.ID)
					continue
				}
				books = append(books, *resp)
			}
		}
	}
	return books
}
