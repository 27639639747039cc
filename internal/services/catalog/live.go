package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// BookFilter narrows a live lookup. Empty fields are not filtered on.
type BookFilter struct {
	Class        string
	SubjectKey   string
	SubjectGroup string
	Subject      string
	LanguageKey  string
	Language     string
}

// BookStore is the read side of the live catalog (implemented by *database.DB).
type BookStore interface {
	// GetBook returns nil, nil when the id is unknown.
	GetBook(ctx context.Context, id string) (*models.BookRecord, error)
	FindBooks(ctx context.Context, f BookFilter) ([]models.BookRecord, error)
	ListBooks(ctx context.Context) ([]models.BookRecord, error)
	ListChapters(ctx context.Context, bookID string) ([]models.ChapterRow, error)
}

// LiveSource answers catalog queries from a BookStore.
type LiveSource struct {
	store BookStore
}

// NewLiveSource wraps store. A nil store yields ErrNotConfigured on every call.
func NewLiveSource(store BookStore) *LiveSource {
	return &LiveSource{store: store}
}

// ResolveBook implements Source.
func (s *LiveSource) ResolveBook(ctx context.Context, q models.BookQuery) (*models.BookResponse, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}

	if q.BookID != "" {
		return s.bookByID(ctx, q.BookID)
	}
	if q.Class == "" {
		return nil, nil
	}

	f := BookFilter{Class: q.Class}
	switch {
	case q.SubjectKey != "":
		f.SubjectKey = q.SubjectKey
	case q.SubjectGroup != "":
		f.SubjectGroup = q.SubjectGroup
	case q.Subject != "":
		f.Subject = q.Subject
	}
	switch {
	case q.LanguageKey != "":
		f.LanguageKey = q.LanguageKey
	case q.Language != "":
		f.Language = q.Language
	}

	books, err := s.store.FindBooks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	if len(books) == 0 {
		if q.HasLanguage() {
			// Language is a preference; an English edition beats no book.
			return s.ResolveBook(ctx, q.WithoutLanguage())
		}
		return nil, nil
	}

	sort.SliceStable(books, func(i, j int) bool {
		if books[i].PriorityValue() != books[j].PriorityValue() {
			return books[i].PriorityValue() < books[j].PriorityValue()
		}
		return books[i].Title < books[j].Title
	})
	return s.bookByID(ctx, books[0].ID)
}

func (s *LiveSource) bookByID(ctx context.Context, id string) (*models.BookResponse, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	if book == nil {
		return nil, nil
	}
	normalizeBook(book)

	rows, err := s.store.ListChapters(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("list chapters of %s: %w", book.ID, err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })

	chapters := make([]models.ChapterRecord, 0, len(rows))
	for _, row := range rows {
		if ch, ok := ChapterFromRow(book.ID, row); ok {
			chapters = append(chapters, ch)
		}
	}

	return &models.BookResponse{
		Source:   models.SourceLive,
		Book:     *book,
		Chapters: chapters,
	}, nil
}

// ListOptions implements Source.
func (s *LiveSource) ListOptions(ctx context.Context) (*models.LibraryOptions, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	for i := range books {
		normalizeBook(&books[i])
	}
	return BuildOptions(models.SourceLive, books), nil
}

// ChapterFromRow converts a stored chapter row into a ChapterRecord. Rows
// without a number or any PDF URL are unusable and reported as !ok.
func ChapterFromRow(bookID string, row models.ChapterRow) (models.ChapterRecord, bool) {
	if row.Number <= 0 {
		return models.ChapterRecord{}, false
	}

	pdfURL := row.StorageURL
	if pdfURL == "" {
		pdfURL = row.OriginalPDFURL
	}
	if pdfURL == "" {
		return models.ChapterRecord{}, false
	}

	title := firstNonEmpty(row.Title, row.DerivedTitle, row.DefaultTitle, fmt.Sprintf("Chapter %02d", row.Number))
	original := row.OriginalPDFURL
	if original == "" {
		original = pdfURL
	}

	return models.ChapterRecord{
		ID:             fmt.Sprintf("%s-ch-%02d", bookID, row.Number),
		Number:         row.Number,
		Title:          title,
		DerivedTitle:   row.DerivedTitle,
		PDFURL:         pdfURL,
		OriginalPDFURL: original,
		TextURL:        row.TextURL,
		TextPreview:    row.TextPreview,
		SizeBytes:      row.SizeBytes,
		Source:         models.SourceLive,
	}, true
}

// normalizeBook fills fields older scrapes may have left empty.
func normalizeBook(b *models.BookRecord) {
	if b.SubjectGroup == "" {
		b.SubjectGroup = ResolveSubjectGroup(b.Subject)
	}
	if b.SubjectKey == "" {
		b.SubjectKey = Slugify(b.Subject)
	}
	if b.Language == "" {
		b.Language = "English"
	}
	if b.LanguageKey == "" {
		b.LanguageKey = Slugify(b.Language)
	}
	if b.Title == "" {
		b.Title = b.Subject
	}
	b.Source = models.SourceLive
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
