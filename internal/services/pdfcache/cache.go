// Package pdfcache is a content-addressed on-disk store for textbook PDFs.
//
// Each source URL maps to one file named "<12 hex chars of sha256(url)>-<basename>",
// so repeated requests for the same document never re-download it. Entries
// never expire; if the publisher changes a PDF, the cached copy silently goes
// stale. Writes are whole-file renames, so concurrent readers see either no
// file or a complete one.
package pdfcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"golang.org/x/sync/singleflight"

	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
)

// ErrNotFound is returned by Get when no blob is cached for the URL.
var ErrNotFound = errors.New("pdf not cached")

// StorageError wraps a disk I/O failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("pdf cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// defaultFileName is used when a URL has no usable trailing path segment.
const defaultFileName = "ncert.pdf"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Cache owns a single directory of cached PDFs.
type Cache struct {
	dir string

	// inflight collapses concurrent first-time downloads of the same URL.
	inflight singleflight.Group
}

// New creates a cache rooted at dir. The directory is created lazily on first write.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache's backing directory.
func (c *Cache) Dir() string {
	return c.dir
}

// FileName returns the cache file name for a source URL.
func FileName(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(sum[:])[:12] + "-" + baseName(sourceURL)
}

// Path returns the full on-disk path a URL is cached at.
func (c *Cache) Path(sourceURL string) string {
	return filepath.Join(c.dir, FileName(sourceURL))
}

// Has reports whether a blob is cached for sourceURL.
func (c *Cache) Has(sourceURL string) bool {
	info, err := os.Stat(c.Path(sourceURL))
	return err == nil && info.Mode().IsRegular()
}

// Get returns the cached bytes, or ErrNotFound.
func (c *Cache) Get(sourceURL string) ([]byte, error) {
	p := c.Path(sourceURL)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "read", Path: p, Err: err}
	}
	return data, nil
}

// Put stores (or overwrites) the blob for sourceURL, creating the directory if needed.
func (c *Cache) Put(sourceURL string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: c.dir, Err: err}
	}

	p := c.Path(sourceURL)
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return &StorageError{Op: "create", Path: p, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "write", Path: p, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "write", Path: p, Err: err}
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: p, Err: err}
	}
	return nil
}

// GetOrFetch returns the cached blob, or downloads it with fetcher, stores it
// and returns it. Fetch errors propagate unmodified; there are no retries here.
//
// The shared download ignores the first caller's cancellation and is bounded
// by the fetcher's own timeout. Each caller stops waiting on its own ctx.
func (c *Cache) GetOrFetch(ctx context.Context, sourceURL string, fetcher fetch.Func) ([]byte, error) {
	data, err := c.Get(sourceURL)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(sourceURL, func() (interface{}, error) {
		// Another request may have finished the download while we waited.
		if data, err := c.Get(sourceURL); err == nil {
			return data, nil
		}

		body, err := fetcher(fetchCtx, sourceURL)
		if err != nil {
			return nil, err
		}
		if err := c.Put(sourceURL, body); err != nil {
			return nil, err
		}
		log.Printf("📥 Cached %s (%d bytes)", sourceURL, len(body))
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// baseName returns a filesystem-safe trailing path segment of sourceURL.
func baseName(sourceURL string) string {
	// url.Parse decodes escaped object paths ("o/ncert%2Fjemh101.pdf") and drops the query.
	p := sourceURL
	if u, err := url.Parse(sourceURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return defaultFileName
	}
	name = unsafeFileChars.ReplaceAllString(name, "_")
	if name == "" || name == "_" {
		return defaultFileName
	}
	return name
}
