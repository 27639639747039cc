package catalog

import (
	"fmt"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// DefaultPDFBaseURL is where NCERT publishes chapter PDFs.
const DefaultPDFBaseURL = "https://ncert.nic.in/textbook/pdf"

// StaticSource serves the bundled dataset. It needs no network for metadata.
type StaticSource struct {
	pdfBaseURL string
	books      []staticBook
}

// NewStaticSource creates the static source. Chapter PDF URLs are built as
// <pdfBaseURL>/<code><NN>.pdf.
func NewStaticSource(pdfBaseURL string) *StaticSource {
	if pdfBaseURL == "" {
		pdfBaseURL = DefaultPDFBaseURL
	}
	return &StaticSource{
		pdfBaseURL: strings.TrimRight(pdfBaseURL, "/"),
		books:      staticBooks,
	}
}

// Resolve finds a static book by static id, or by class plus subject or
// subject group (compared by canonical group) or subject key.
func (s *StaticSource) Resolve(q models.BookQuery) *models.BookResponse {
	var target *staticBook

	switch {
	case q.BookID != "" && IsStaticID(q.BookID):
		rawID := strings.TrimPrefix(q.BookID, staticIDPrefix+"-")
		for i := range s.books {
			if s.books[i].id == rawID {
				target = &s.books[i]
				break
			}
		}
	case q.Class != "" && (q.Subject != "" || q.SubjectGroup != "" || q.SubjectKey != ""):
		for i := range s.books {
			if s.books[i].class == q.Class && s.books[i].matchesSubject(q) {
				target = &s.books[i]
				break
			}
		}
	}

	if target == nil {
		return nil
	}
	return &models.BookResponse{
		Source:   models.SourceStatic,
		Book:     target.record(),
		Chapters: s.chapters(target),
	}
}

// Options groups the static dataset by class and subject.
func (s *StaticSource) Options() *models.LibraryOptions {
	books := make([]models.BookRecord, 0, len(s.books))
	for i := range s.books {
		books = append(books, s.books[i].record())
	}
	return BuildOptions(models.SourceStatic, books)
}

func (s *StaticSource) chapters(b *staticBook) []models.ChapterRecord {
	chapters := make([]models.ChapterRecord, 0, len(b.chapters))
	for i, name := range b.chapters {
		n := i + 1
		pdfURL := fmt.Sprintf("%s/%s%02d.pdf", s.pdfBaseURL, b.code, n)
		chapters = append(chapters, models.ChapterRecord{
			ID:             fmt.Sprintf("%s-%s-ch-%d", staticIDPrefix, b.id, n),
			Number:         n,
			Title:          name,
			PDFURL:         pdfURL,
			OriginalPDFURL: pdfURL,
			Source:         models.SourceStatic,
		})
	}
	return chapters
}

// staticBook is one bundled English edition. Chapter names are in order.
type staticBook struct {
	id       string
	class    string
	subject  string
	title    string
	code     string
	chapters []string
}

func (b *staticBook) record() models.BookRecord {
	code := b.code
	return models.BookRecord{
		ID:           staticIDPrefix + "-" + b.id,
		Class:        b.class,
		Subject:      TitleCase(b.subject),
		SubjectGroup: ResolveSubjectGroup(b.subject),
		SubjectKey:   Slugify(b.subject),
		Language:     "English",
		LanguageKey:  "english",
		Title:        b.title,
		ChapterCount: len(b.chapters),
		Code:         &code,
		Source:       models.SourceStatic,
	}
}

func (b *staticBook) matchesSubject(q models.BookQuery) bool {
	if q.SubjectKey != "" && q.SubjectKey == Slugify(b.subject) {
		return true
	}
	group := ResolveSubjectGroup(b.subject)
	for _, name := range []string{q.Subject, q.SubjectGroup} {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if strings.EqualFold(ResolveSubjectGroup(name), group) {
			return true
		}
	}
	return false
}
