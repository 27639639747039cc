// Package pdf provides PDF text extraction for NCERT chapter documents.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation with no CGO or external dependencies required.
// Textbook chapters can run to 40+ pages, so callers bound how many pages
// are decoded and how many characters are kept.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Options bounds an extraction. Zero values mean "no limit".
type Options struct {
	MaxPages int // Decode at most this many pages
	MaxChars int // Truncate the result to this many characters
}

// ExtractionResult holds the output from a PDF text extraction.
type ExtractionResult struct {
	Text      string // Extracted text content
	PageCount int    // Number of pages in the document
	PagesRead int    // Number of pages actually decoded
	WordCount int    // Word count of Text
}

// ParseError means the bytes could not be decoded as a PDF. Callers treat it
// as "no text available", never as a fatal error.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse PDF: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// spaceBeforeNewline matches whitespace runs that end in a newline.
var spaceBeforeNewline = regexp.MustCompile(`\s+\n`)

// ExtractText decodes data and returns its plain text, honoring opts.
func ExtractText(data []byte, opts Options) (string, error) {
	result, err := Extract(data, opts)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// Extract decodes data and returns its text along with page and word counts.
//
// Pages beyond opts.MaxPages are never decoded. Runs of whitespace before a
// newline are collapsed and the result is trimmed; MaxChars then truncates
// with a plain slice (not word-boundary aware).
func Extract(data []byte, opts Options) (result *ExtractionResult, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ParseError{Err: fmt.Errorf("panic while decoding: %v", r)}
		}
	}()

	if !ValidatePDF(data) {
		return nil, &ParseError{Err: fmt.Errorf("missing %%PDF- header")}
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	pageCount := pdfReader.NumPage()
	limit := pageCount
	if opts.MaxPages > 0 && opts.MaxPages < limit {
		limit = opts.MaxPages
	}

	var allText strings.Builder
	for i := 1; i <= limit; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned pages are images only; skip rather than fail the chapter.
			continue
		}
		if allText.Len() > 0 {
			allText.WriteString("\n")
		}
		allText.WriteString(text)
	}

	extracted := spaceBeforeNewline.ReplaceAllString(allText.String(), "\n")
	extracted = strings.TrimSpace(extracted)
	extracted = truncate(extracted, opts.MaxChars)

	return &ExtractionResult{
		Text:      extracted,
		PageCount: pageCount,
		PagesRead: limit,
		WordCount: CountWords(extracted),
	}, nil
}

// truncate keeps the first max characters of s (runes, so UTF-8 stays valid).
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// CountWords counts the number of words in a text string.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
