package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf/pdftest"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/storage"
)

type recordingWriter struct {
	mu       sync.Mutex
	books    []models.BookRecord
	sources  []string
	chapters []models.ChapterRow
}

func (w *recordingWriter) UpsertBook(ctx context.Context, b models.BookRecord, sourceURL string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.books = append(w.books, b)
	w.sources = append(w.sources, sourceURL)
	return nil
}

func (w *recordingWriter) UpsertChapter(ctx context.Context, row models.ChapterRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chapters = append(w.chapters, row)
	return nil
}

// chapterServer serves generated chapter PDFs and scripted failures, and
// counts requests per URL.
type chapterServer struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string][]int // status codes to return before succeeding
}

func (c *chapterServer) fetch(ctx context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[url]++
	if statuses := c.failures[url]; len(statuses) > 0 {
		c.failures[url] = statuses[1:]
		return nil, &fetch.Error{URL: url, StatusCode: statuses[0]}
	}
	name := url[strings.LastIndex(url, "/")+1:]
	return pdftest.Build([]string{
		"Chapter " + strings.TrimLeft(name[5:7], "0") + " Real Numbers",
		"In Class IX you began your exploration of real numbers",
	}), nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.PDFBaseURL = "https://ncert.example/textbook/pdf/"
	opts.RetryDelay = time.Millisecond
	return opts
}

func mathSpec(chapters int) BookSpec {
	spec, _ := newBookSpec("10", "Mathematics", "Mathematics", fmt.Sprintf("jemh1=0-%d", chapters))
	return spec
}

func TestProcessBook(t *testing.T) {
	ctx := context.Background()
	bucket := storage.NewBucket(t.TempDir(), "http://localhost:8080")
	writer := &recordingWriter{}
	server := &chapterServer{failures: map[string][]int{
		"https://ncert.example/textbook/pdf/jemh102.pdf": {404},
		"https://ncert.example/textbook/pdf/jemh103.pdf": {503},
	}}
	s := New(nil, server.fetch, bucket, writer, testOptions())

	saved, failed, err := s.ProcessBook(ctx, mathSpec(3))
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Equal(t, 1, failed)

	require.Len(t, writer.books, 1)
	book := writer.books[0]
	assert.Equal(t, "class-10_mathematics_english_jemh1", book.ID)
	assert.Equal(t, "Math", book.SubjectGroup)
	assert.Equal(t, 3, book.ChapterCount)
	require.NotNil(t, book.Priority)
	assert.Equal(t, 0, *book.Priority)
	assert.Equal(t, "https://ncert.nic.in/textbook.php?jemh1=0-3", writer.sources[0])

	assert.Equal(t, 1, server.calls["https://ncert.example/textbook/pdf/jemh102.pdf"], "404 must not be retried")
	assert.Equal(t, 2, server.calls["https://ncert.example/textbook/pdf/jemh103.pdf"], "503 must be retried")

	require.Len(t, writer.chapters, 2)
	first := writer.chapters[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "Chapter 1 Real Numbers", first.Title)
	assert.Equal(t, first.Title, first.DerivedTitle)
	assert.Equal(t, "Chapter 1", first.DefaultTitle)
	assert.Equal(t, "https://ncert.example/textbook/pdf/jemh101.pdf", first.OriginalPDFURL)
	assert.Equal(t, "ncert/class-10/mathematics/jemh1/jemh101.pdf", first.StoragePath)
	assert.True(t, strings.HasPrefix(first.StorageURL, "http://localhost:8080/files/ncert/class-10/mathematics/jemh1/jemh101.pdf?token="))
	assert.Equal(t, "ncert/class-10/mathematics/jemh1/jemh101.txt", first.TextPath)
	assert.Equal(t, "Chapter 1 Real Numbers In Class IX you began your exploration of real numbers", first.TextPreview)
	assert.Equal(t, 14, first.WordCount)
	assert.Len(t, first.PDFSHA256, 64)
	require.NotNil(t, first.SizeBytes)
	assert.Greater(t, *first.SizeBytes, int64(0))

	text, err := os.ReadFile(filepath.Join(bucket.Root(), "ncert", "class-10", "mathematics", "jemh1", "jemh101.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1 Real Numbers\nIn Class IX you began your exploration of real numbers", string(text))

	assert.Equal(t, 3, writer.chapters[1].Number)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	index := `<script>
else if((document.test.tclass.value==10) && (document.test.tsubject.options[sind].text=="Mathematics"))
{
document.test.tbook.options[1].text="Mathematics";
document.test.tbook.options[1].value="textbook.php?jemh1=0-2";
}
</script>`

	var indexURL string
	fetchIndex := func(ctx context.Context, url string) ([]byte, error) {
		indexURL = url
		return []byte(index), nil
	}
	writer := &recordingWriter{}
	s := New(fetchIndex, (&chapterServer{}).fetch, storage.NewBucket(t.TempDir(), "http://localhost:8080"), writer, testOptions())

	report, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://ncert.nic.in/textbook.php?ln=en", indexURL)
	assert.Equal(t, &Report{Books: 1, ChaptersSaved: 2}, report)
	assert.Len(t, writer.chapters, 2)

	t.Run("index failure aborts", func(t *testing.T) {
		failing := func(ctx context.Context, url string) ([]byte, error) {
			return nil, &fetch.Error{URL: url, StatusCode: 500}
		}
		_, err := New(failing, nil, nil, writer, testOptions()).Run(ctx)
		assert.Error(t, err)
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", preview("  a\n\n b\t c  "))
	assert.Equal(t, previewChars, len([]rune(preview(strings.Repeat("अ", 600)))))
}
