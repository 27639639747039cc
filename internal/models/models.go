// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The `db` tags work with sqlx for database column mapping. The catalog
// types use camelCase JSON because the study-circle web client reads them
// directly.
package models

// CatalogSource tags where a book or chapter record came from.
type CatalogSource string

const (
	SourceLive   CatalogSource = "live"
	SourceStatic CatalogSource = "static"
)

// BookRecord is one NCERT textbook edition in the catalog.
//
// Within the live catalog (class, subjectKey, languageKey, code) is unique.
// Within the static dataset (class, subject) is unique and the language is
// always English.
type BookRecord struct {
	ID           string        `json:"id" db:"id"`
	Class        string        `json:"class" db:"class"`
	Subject      string        `json:"subject" db:"subject"`
	SubjectGroup string        `json:"subjectGroup" db:"subject_group"`
	SubjectKey   string        `json:"subjectKey" db:"subject_key"`
	Language     string        `json:"language" db:"language"`
	LanguageKey  string        `json:"languageKey" db:"language_key"`
	Title        string        `json:"title" db:"title"`
	ChapterCount int           `json:"chapterCount" db:"chapter_count"`
	Code         *string       `json:"code,omitempty" db:"code"`
	Priority     *int          `json:"priority,omitempty" db:"priority"`
	Source       CatalogSource `json:"source" db:"-"`
}

// PriorityValue returns the book's priority, treating a missing value as 0.
func (b BookRecord) PriorityValue() int {
	if b.Priority == nil {
		return 0
	}
	return *b.Priority
}

// ChapterRecord is one chapter of a book. Number is 1-based and defines
// reading order; the live catalog may have gaps if a scrape partially failed.
type ChapterRecord struct {
	ID             string        `json:"id"`
	Number         int           `json:"number"`
	Title          string        `json:"title"`
	DerivedTitle   string        `json:"derivedTitle,omitempty"`
	PDFURL         string        `json:"pdfUrl"`
	OriginalPDFURL string        `json:"originalPdfUrl,omitempty"`
	TextURL        string        `json:"textUrl,omitempty"`
	TextPreview    string        `json:"textPreview,omitempty"`
	SizeBytes      *int64        `json:"sizeBytes,omitempty"`
	Source         CatalogSource `json:"source"`
}

// ChapterRow is a chapter as stored in the live catalog (ncert_chapters).
// Empty strings mean "not set"; the catalog turns rows into ChapterRecords.
type ChapterRow struct {
	BookID         string `db:"book_id"`
	Number         int    `db:"number"`
	Title          string `db:"title"`
	DerivedTitle   string `db:"derived_title"`
	DefaultTitle   string `db:"default_title"`
	StorageURL     string `db:"storage_url"`
	StoragePath    string `db:"storage_path"`
	OriginalPDFURL string `db:"original_pdf_url"`
	TextURL        string `db:"text_url"`
	TextPath       string `db:"text_path"`
	TextPreview    string `db:"text_preview"`
	TextLength     int    `db:"text_length"`
	WordCount      int    `db:"word_count"`
	PDFSHA256      string `db:"pdf_sha256"`
	SizeBytes      *int64 `db:"size_bytes"`
	PageCount      *int   `db:"page_count"`
}

// BookResponse is a resolved book plus its ordered chapter list.
type BookResponse struct {
	Source   CatalogSource   `json:"source"`
	Book     BookRecord      `json:"book"`
	Chapters []ChapterRecord `json:"chapters"`
}

// BookQuery is a loosely specified catalog lookup. Either BookID or Class
// must be set for a lookup to succeed.
type BookQuery struct {
	BookID       string `form:"bookId"`
	Class        string `form:"class"`
	Subject      string `form:"subject"`
	SubjectGroup string `form:"subjectGroup"`
	SubjectKey   string `form:"subjectKey"`
	Language     string `form:"language"`
	LanguageKey  string `form:"languageKey"`
}

// HasLanguage reports whether the query carries a language preference.
func (q BookQuery) HasLanguage() bool {
	return q.Language != "" || q.LanguageKey != ""
}

// WithoutLanguage returns a copy of the query with the language filter dropped.
func (q BookQuery) WithoutLanguage() BookQuery {
	q.Language = ""
	q.LanguageKey = ""
	return q
}

// SubjectOption groups the books of one subject within a class.
type SubjectOption struct {
	Key          string       `json:"key"`
	Label        string       `json:"label"`
	SubjectGroup string       `json:"subjectGroup"`
	Books        []BookRecord `json:"books"`
}

// ClassOption groups the subjects of one class.
type ClassOption struct {
	Class    string          `json:"class"`
	Subjects []SubjectOption `json:"subjects"`
}

// LibraryOptions enumerates every (class → subject → book) combination.
type LibraryOptions struct {
	Source  CatalogSource `json:"source"`
	Classes []ClassOption `json:"classes"`
}

// StudySummaryRequest is the body of POST /api/v1/ai/summary.
// Both JSON and multipart/urlencoded forms are accepted.
type StudySummaryRequest struct {
	Prompt  string `json:"prompt" form:"prompt" binding:"required"`
	Class   string `json:"class" form:"class" binding:"required"`
	Subject string `json:"subject" form:"subject"`
	Chapter string `json:"chapter" form:"chapter"`
}

// StudySummaryResponse is returned by the study-summary endpoint.
type StudySummaryResponse struct {
	Summary         string `json:"summary"`
	SummaryHTML     string `json:"summaryHtml"`
	Subject         string `json:"subject"`
	Chapter         string `json:"chapter"`
	NCERTReferenced bool   `json:"ncertReferenced"`
	Model           string `json:"model"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status        string        `json:"status"`
	Version       string        `json:"version"`
	Database      string        `json:"database"`
	CatalogSource CatalogSource `json:"catalogSource"`
	CacheDir      string        `json:"cacheDir"`
}
