package scraper

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/ncert"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/storage"
)

// previewChars is the length of the stored chapter text preview.
const previewChars = 500

// Options configures a scrape run.
type Options struct {
	IndexURL   string
	PDFBaseURL string
	Filter     Filter
	MaxPages   int
	MaxChars   int
	BookDelay  time.Duration // minimum spacing between books
	Attempts   uint          // download attempts per chapter PDF
	RetryDelay time.Duration
}

// DefaultOptions mirrors the batch tool's flag defaults.
func DefaultOptions() Options {
	return Options{
		IndexURL:   "https://ncert.nic.in/textbook.php?ln=en",
		PDFBaseURL: catalog.DefaultPDFBaseURL,
		Filter:     Filter{Classes: []string{"9", "10", "11", "12"}},
		MaxPages:   6,
		MaxChars:   15000,
		Attempts:   3,
		RetryDelay: 2 * time.Second,
	}
}

// Report summarises a scrape run.
type Report struct {
	Books          int
	ChaptersSaved  int
	ChaptersFailed int
}

// Scraper walks the index page and fills the live catalog.
type Scraper struct {
	fetchIndex fetch.Func
	fetchPDF   fetch.Func
	bucket     *storage.Bucket
	writer     catalog.Writer
	opts       Options
}

// New creates a scraper. fetchIndex and fetchPDF carry their own timeouts.
func New(fetchIndex, fetchPDF fetch.Func, bucket *storage.Bucket, writer catalog.Writer, opts Options) *Scraper {
	return &Scraper{
		fetchIndex: fetchIndex,
		fetchPDF:   fetchPDF,
		bucket:     bucket,
		writer:     writer,
		opts:       opts,
	}
}

// Run scrapes every book matching the filter. Only failures to load the
// index page or to write a book row abort the run; chapter failures are
// logged, counted and skipped.
func (s *Scraper) Run(ctx context.Context) (*Report, error) {
	log.Printf("📚 Fetching NCERT textbook index %s", s.opts.IndexURL)
	body, err := s.fetchIndex(ctx, s.opts.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch textbook index: %w", err)
	}
	script, err := IndexScripts(string(body))
	if err != nil {
		return nil, err
	}

	specs := ParseBookSpecs(script, s.opts.Filter)
	report := &Report{}
	if len(specs) == 0 {
		log.Println("⚠️  No NCERT book entries found. Check filters or website structure.")
		return report, nil
	}
	log.Printf("📚 Found %d textbook entries", len(specs))

	limit := rate.Inf
	if s.opts.BookDelay > 0 {
		limit = rate.Every(s.opts.BookDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	for _, spec := range specs {
		if err := limiter.Wait(ctx); err != nil {
			return report, err
		}
		saved, failed, err := s.ProcessBook(ctx, spec)
		if err != nil {
			return report, err
		}
		report.Books++
		report.ChaptersSaved += saved
		report.ChaptersFailed += failed
	}

	log.Printf("✅ NCERT scrape complete: %d books, %d chapters saved, %d failed",
		report.Books, report.ChaptersSaved, report.ChaptersFailed)
	return report, nil
}

// ProcessBook upserts one book and each of its chapters.
func (s *Scraper) ProcessBook(ctx context.Context, spec BookSpec) (saved, failed int, err error) {
	code := spec.Code
	priority := spec.Priority
	book := models.BookRecord{
		ID:           catalog.BuildBookID(spec.Class, spec.SubjectKey, spec.LanguageKey, spec.Code),
		Class:        spec.Class,
		Subject:      spec.Subject,
		SubjectGroup: spec.SubjectGroup,
		SubjectKey:   spec.SubjectKey,
		Language:     spec.Language,
		LanguageKey:  spec.LanguageKey,
		Title:        spec.Title,
		ChapterCount: spec.ChapterCount,
		Code:         &code,
		Priority:     &priority,
	}
	if err := s.writer.UpsertBook(ctx, book, spec.SourceURL); err != nil {
		return 0, 0, err
	}
	log.Printf("↳ %s • %s (%s) – %s [%d chapters]", spec.Class, spec.Subject, spec.Language, spec.Title, spec.ChapterCount)

	for n := 1; n <= spec.ChapterCount; n++ {
		if err := ctx.Err(); err != nil {
			return saved, failed, err
		}
		if err := s.processChapter(ctx, spec, book.ID, n); err != nil {
			log.Printf("    ✗ Failed to process chapter %d of %s: %v", n, spec.Title, err)
			failed++
			continue
		}
		saved++
	}
	return saved, failed, nil
}

func (s *Scraper) processChapter(ctx context.Context, spec BookSpec, bookID string, number int) error {
	pdfID := fmt.Sprintf("%s%02d", spec.Code, number)
	sourceURL := fmt.Sprintf("%s/%s.pdf", strings.TrimRight(s.opts.PDFBaseURL, "/"), pdfID)
	basePath := fmt.Sprintf("ncert/class-%s/%s/%s", catalog.PadClass(spec.Class), spec.SubjectKey, spec.Code)

	log.Printf("    • Chapter %d • downloading %s", number, sourceURL)
	data, err := s.download(ctx, sourceURL)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)

	defaultTitle := fmt.Sprintf("Chapter %d", number)
	row := models.ChapterRow{
		BookID:         bookID,
		Number:         number,
		DefaultTitle:   defaultTitle,
		OriginalPDFURL: sourceURL,
		PDFSHA256:      hex.EncodeToString(sum[:]),
	}

	if pages, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		log.Printf("    ⚠️  Could not count pages of %s: %v", sourceURL, err)
	} else {
		row.PageCount = &pages
	}

	text, err := pdf.ExtractText(data, pdf.Options{MaxPages: s.opts.MaxPages, MaxChars: s.opts.MaxChars})
	if err != nil {
		// The PDF is still worth storing; the summary path can retry extraction later.
		log.Printf("    ⚠️  No text extracted from %s: %v", sourceURL, err)
		text = ""
	}
	row.Title = ncert.DeriveTitle(text, defaultTitle)
	row.DerivedTitle = row.Title
	row.TextPreview = preview(text)
	row.TextLength = len([]rune(text))
	row.WordCount = pdf.CountWords(text)

	pdfObj, err := s.bucket.Save(ctx, basePath+"/"+pdfID+".pdf", data, "application/pdf")
	if err != nil {
		return fmt.Errorf("failed to store PDF: %w", err)
	}
	row.StoragePath = pdfObj.Path
	row.StorageURL = pdfObj.URL
	row.SizeBytes = &pdfObj.Size

	if text != "" {
		textObj, err := s.bucket.Save(ctx, basePath+"/"+pdfID+".txt", []byte(text), "text/plain; charset=utf-8")
		if err != nil {
			return fmt.Errorf("failed to store text: %w", err)
		}
		row.TextPath = textObj.Path
		row.TextURL = textObj.URL
	}

	return s.writer.UpsertChapter(ctx, row)
}

// download fetches a chapter PDF, retrying network errors and 5xx/429 answers.
func (s *Scraper) download(ctx context.Context, url string) ([]byte, error) {
	attempts := s.opts.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.DoWithData(
		func() ([]byte, error) {
			return s.fetchPDF(ctx, url)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("    ↻ Retry %d for %s: %v", n+1, url, err)
		}),
	)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	status := fetch.StatusCode(err)
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}

func preview(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	r := []rune(collapsed)
	if len(r) > previewChars {
		return string(r[:previewChars])
	}
	return collapsed
}
