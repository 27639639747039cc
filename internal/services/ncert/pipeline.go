package ncert

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
)

// BookResolver is the part of catalog.Resolver the pipeline needs.
type BookResolver interface {
	ResolveBook(ctx context.Context, q models.BookQuery) *models.BookResponse
}

// TopicText is textbook text chosen for a free-text topic.
type TopicText struct {
	Book    models.BookRecord
	Chapter models.ChapterRecord
	Score   float64
	Text    string
}

// Pipeline resolves a topic to chapter text: catalog, matcher, then either
// the pre-extracted text URL or the cached PDF run through the extractor.
type Pipeline struct {
	resolver  BookResolver
	cache     *pdfcache.Cache
	fetchPDF  fetch.Func
	fetchText fetch.Func
	extract   pdf.Options
}

// NewPipeline wires a pipeline. fetchPDF and fetchText carry their own timeouts.
func NewPipeline(resolver BookResolver, cache *pdfcache.Cache, fetchPDF, fetchText fetch.Func, extract pdf.Options) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		cache:     cache,
		fetchPDF:  fetchPDF,
		fetchText: fetchText,
		extract:   extract,
	}
}

// TextForTopic returns the text of the chapter best matching topic, or nil
// when no book, chapter or text is available. It never fails the caller:
// every problem is logged and reported as nil.
func (p *Pipeline) TextForTopic(ctx context.Context, class, subjectGroup, topic string) *TopicText {
	resp := p.resolver.ResolveBook(ctx, models.BookQuery{
		Class:        class,
		SubjectGroup: subjectGroup,
		Language:     "English",
	})
	if resp == nil {
		log.Printf("ℹ️  No NCERT book for class=%q subjectGroup=%q", class, subjectGroup)
		return nil
	}

	match, ok := BestChapter(resp.Chapters, topic)
	if !ok {
		log.Printf("ℹ️  NCERT book %s has no chapters", resp.Book.ID)
		return nil
	}

	text := p.chapterText(ctx, match.Chapter)
	if text == "" {
		return nil
	}
	return &TopicText{
		Book:    resp.Book,
		Chapter: match.Chapter,
		Score:   match.Score,
		Text:    text,
	}
}

func (p *Pipeline) chapterText(ctx context.Context, ch models.ChapterRecord) string {
	if ch.TextURL != "" && p.fetchText != nil {
		body, err := p.fetchText(ctx, ch.TextURL)
		if err != nil {
			log.Printf("⚠️  Pre-extracted text fetch failed for %s: %v", ch.TextURL, err)
		} else if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
	}

	data, err := p.cache.GetOrFetch(ctx, ch.PDFURL, p.fetchPDF)
	if err != nil {
		log.Printf("⚠️  NCERT PDF unavailable %s (timeout=%v): %v", ch.PDFURL, fetch.IsTimeout(err), err)
		return ""
	}

	text, err := pdf.ExtractText(data, p.extract)
	if err != nil {
		var pe *pdf.ParseError
		if errors.As(err, &pe) {
			log.Printf("⚠️  NCERT PDF %s is not parseable: %v", ch.PDFURL, err)
		} else {
			log.Printf("⚠️  NCERT text extraction failed for %s: %v", ch.PDFURL, err)
		}
		return ""
	}
	return text
}
