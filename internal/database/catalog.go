// catalog.go implements the live NCERT catalog store (catalog.BookStore and
// catalog.Writer) over the ncert_books and ncert_chapters tables.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
)

const bookColumns = `id, class, subject, subject_group, subject_key, language, language_key,
	title, chapter_count, code, priority`

const chapterColumns = `book_id, number, title, derived_title, default_title, storage_url,
	storage_path, original_pdf_url, text_url, text_path, text_preview, text_length,
	word_count, pdf_sha256, size_bytes, page_count`

// GetBook retrieves one book by id. Returns nil, nil when it does not exist.
func (db *DB) GetBook(ctx context.Context, id string) (*models.BookRecord, error) {
	var b models.BookRecord
	err := db.GetContext(ctx, &b, `SELECT `+bookColumns+` FROM ncert_books WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book: %w", err)
	}
	b.Source = models.SourceLive
	return &b, nil
}

// FindBooks returns the books of a class matching the filter's non-empty
// fields, best candidates (lowest priority) first.
func (db *DB) FindBooks(ctx context.Context, f catalog.BookFilter) ([]models.BookRecord, error) {
	// Build WHERE clause dynamically; column names are fixed, values are bound.
	conditions := []string{"class = $1"}
	args := []interface{}{f.Class}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("subject_key", f.SubjectKey)
	add("subject_group", f.SubjectGroup)
	add("subject", f.Subject)
	add("language_key", f.LanguageKey)
	add("language", f.Language)

	query := fmt.Sprintf(
		`SELECT %s FROM ncert_books WHERE %s ORDER BY COALESCE(priority, 0) ASC, title ASC`,
		bookColumns, strings.Join(conditions, " AND "))

	var books []models.BookRecord
	if err := db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	for i := range books {
		books[i].Source = models.SourceLive
	}
	return books, nil
}

// ListBooks returns every book in the live catalog.
func (db *DB) ListBooks(ctx context.Context) ([]models.BookRecord, error) {
	var books []models.BookRecord
	err := db.SelectContext(ctx, &books,
		`SELECT `+bookColumns+` FROM ncert_books ORDER BY class, COALESCE(priority, 0), title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	for i := range books {
		books[i].Source = models.SourceLive
	}
	return books, nil
}

// ListChapters returns a book's chapter rows in reading order.
func (db *DB) ListChapters(ctx context.Context, bookID string) ([]models.ChapterRow, error) {
	var rows []models.ChapterRow
	err := db.SelectContext(ctx, &rows,
		`SELECT `+chapterColumns+` FROM ncert_chapters WHERE book_id = $1 ORDER BY number ASC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return rows, nil
}

// UpsertBook inserts or refreshes a book row. sourceURL records the index
// page the book was scraped from.
func (db *DB) UpsertBook(ctx context.Context, b models.BookRecord, sourceURL string) error {
	query := `
		INSERT INTO ncert_books (id, class, subject, subject_group, subject_key, language, language_key,
			title, chapter_count, code, priority, source_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			class = EXCLUDED.class,
			subject = EXCLUDED.subject,
			subject_group = EXCLUDED.subject_group,
			subject_key = EXCLUDED.subject_key,
			language = EXCLUDED.language,
			language_key = EXCLUDED.language_key,
			title = EXCLUDED.title,
			chapter_count = EXCLUDED.chapter_count,
			code = EXCLUDED.code,
			priority = EXCLUDED.priority,
			source_url = EXCLUDED.source_url,
			updated_at = NOW()`

	_, err := db.ExecContext(ctx, query,
		b.ID, b.Class, b.Subject, b.SubjectGroup, b.SubjectKey, b.Language, b.LanguageKey,
		b.Title, b.ChapterCount, b.Code, b.Priority, sourceURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert book %s: %w", b.ID, err)
	}
	return nil
}

// UpsertChapter inserts or refreshes one chapter row keyed by (book_id, number).
func (db *DB) UpsertChapter(ctx context.Context, row models.ChapterRow) error {
	query := `
		INSERT INTO ncert_chapters (` + chapterColumns + `)
		VALUES (:book_id, :number, :title, :derived_title, :default_title, :storage_url,
			:storage_path, :original_pdf_url, :text_url, :text_path, :text_preview, :text_length,
			:word_count, :pdf_sha256, :size_bytes, :page_count)
		ON CONFLICT (book_id, number) DO UPDATE SET
			title = EXCLUDED.title,
			derived_title = EXCLUDED.derived_title,
			default_title = EXCLUDED.default_title,
			storage_url = EXCLUDED.storage_url,
			storage_path = EXCLUDED.storage_path,
			original_pdf_url = EXCLUDED.original_pdf_url,
			text_url = EXCLUDED.text_url,
			text_path = EXCLUDED.text_path,
			text_preview = EXCLUDED.text_preview,
			text_length = EXCLUDED.text_length,
			word_count = EXCLUDED.word_count,
			pdf_sha256 = EXCLUDED.pdf_sha256,
			size_bytes = EXCLUDED.size_bytes,
			page_count = EXCLUDED.page_count,
			updated_at = NOW()`

	// NamedExecContext binds :name placeholders from the struct's db tags.
	if _, err := db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert chapter %s/%d: %w", row.BookID, row.Number, err)
	}
	return nil
}

// Compile-time checks that *DB satisfies the catalog contracts.
var (
	_ catalog.BookStore = (*DB)(nil)
	_ catalog.Writer    = (*DB)(nil)
)
