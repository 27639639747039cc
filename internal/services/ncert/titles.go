package ncert

import (
	"context"
	"log"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
)

// titleExtract reads just enough of a chapter to find its heading.
var titleExtract = pdf.Options{MaxPages: 1, MaxChars: 1000}

// maxTitleLookups bounds concurrent PDF downloads when titling a whole book.
const maxTitleLookups = 4

// TitleService derives chapter titles from chapter PDFs and remembers them
// per PDF file name for the life of the process.
type TitleService struct {
	cache *pdfcache.Cache
	fetch fetch.Func

	mu       sync.RWMutex
	titles   map[string]string
	inflight singleflight.Group
}

// NewTitleService creates a title service reading PDFs through cache.
func NewTitleService(cache *pdfcache.Cache, fetchPDF fetch.Func) *TitleService {
	return &TitleService{
		cache:  cache,
		fetch:  fetchPDF,
		titles: make(map[string]string),
	}
}

// ChapterTitle returns the title found on the chapter's first page, or the
// chapter's own title when the PDF cannot be read. Failures are not
// remembered, so a later call retries the download.
func (s *TitleService) ChapterTitle(ctx context.Context, chapter models.ChapterRecord) string {
	key := path.Base(chapter.PDFURL)

	s.mu.RLock()
	title, ok := s.titles[key]
	s.mu.RUnlock()
	if ok {
		return title
	}

	// The shared lookup outlives a cancelled caller; waiters stop on their own ctx.
	lookupCtx := context.WithoutCancel(ctx)
	results := s.inflight.DoChan(key, func() (interface{}, error) {
		data, err := s.cache.GetOrFetch(lookupCtx, chapter.PDFURL, s.fetch)
		if err != nil {
			return nil, err
		}
		text, err := pdf.ExtractText(data, titleExtract)
		if err != nil {
			return nil, err
		}
		title := DeriveTitle(text, chapter.Title)

		s.mu.Lock()
		s.titles[key] = title
		s.mu.Unlock()
		return title, nil
	})

	var (
		v   interface{}
		err error
	)
	select {
	case res := <-results:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		log.Printf("⚠️  Failed to derive NCERT title for %s: %v", key, err)
		return chapter.Title
	}
	return v.(string)
}

// WithDerivedTitles returns a copy of chapters with DerivedTitle filled in.
func (s *TitleService) WithDerivedTitles(ctx context.Context, chapters []models.ChapterRecord) []models.ChapterRecord {
	out := make([]models.ChapterRecord, len(chapters))
	copy(out, chapters)

	var g errgroup.Group
	g.SetLimit(maxTitleLookups)
	for i := range out {
		g.Go(func() error {
			out[i].DerivedTitle = s.ChapterTitle(ctx, out[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}
