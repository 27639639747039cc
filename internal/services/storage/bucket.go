// Package storage is a small local object store for scraped chapter PDFs and
// their extracted text.
//
// Objects live under a root directory. Each object gets a random download
// token (a UUID) stored next to it, and its public URL carries that token, so
// download links can't be guessed from the object path alone.
package storage

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an object does not exist or the token is wrong.
var ErrNotFound = errors.New("object not found")

// tokenSuffix names the sidecar file holding an object's download token.
const tokenSuffix = ".token"

// Object describes a stored file.
type Object struct {
	Path        string // slash-separated path inside the bucket
	URL         string // public download URL including the token
	Token       string
	Size        int64
	ContentType string
}

// Bucket stores objects under root and builds URLs from publicBaseURL.
type Bucket struct {
	root          string
	publicBaseURL string
}

// NewBucket creates a bucket. Objects are served at <publicBaseURL>/files/<path>.
func NewBucket(root, publicBaseURL string) *Bucket {
	return &Bucket{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Root returns the bucket's directory.
func (b *Bucket) Root() string {
	return b.root
}

// Save writes data at objectPath, replacing any previous object and token.
func (b *Bucket) Save(ctx context.Context, objectPath string, data []byte, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(b.root, filepath.FromSlash(clean))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", clean, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", clean, err)
	}

	token := uuid.New().String()
	if err := os.WriteFile(full+tokenSuffix, []byte(token), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write token for %s: %w", clean, err)
	}

	return &Object{
		Path:        clean,
		URL:         b.URL(clean, token),
		Token:       token,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// URL returns the public download URL of an object.
func (b *Bucket) URL(objectPath, token string) string {
	return fmt.Sprintf("%s/files/%s?token=%s", b.publicBaseURL, objectPath, url.QueryEscape(token))
}

// Open returns the on-disk path of an object after checking its token.
func (b *Bucket) Open(objectPath, token string) (string, error) {
	clean, err := cleanPath(objectPath)
	if err != nil {
		return "", ErrNotFound
	}
	full := filepath.Join(b.root, filepath.FromSlash(clean))

	want, err := os.ReadFile(full + tokenSuffix)
	if err != nil {
		return "", ErrNotFound
	}
	if subtle.ConstantTimeCompare(want, []byte(token)) != 1 {
		return "", ErrNotFound
	}
	if _, err := os.Stat(full); err != nil {
		return "", ErrNotFound
	}
	return full, nil
}

// cleanPath rejects absolute paths and any attempt to climb out of the bucket.
func cleanPath(objectPath string) (string, error) {
	p := strings.TrimPrefix(objectPath, "/")
	if p == "" {
		return "", fmt.Errorf("empty object path")
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasSuffix(clean, tokenSuffix) {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return clean, nil
}
