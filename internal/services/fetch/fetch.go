// Package fetch performs the outbound HTTP GETs the NCERT features rely on:
// chapter PDFs, pre-extracted chapter text, and the textbook index page.
//
// Every request carries an explicit timeout. A timeout surfaces as an error
// matching ErrTimeout so handlers can answer "please retry" (504) instead of
// hanging; any other upstream failure is an *Error carrying the HTTP status.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser; ncert.nic.in rejects bare Go clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)"

// maxBodySize caps how much of a response we'll buffer (textbook chapters are a few MB).
const maxBodySize = 64 << 20

var (
	// ErrTimeout marks a request that ran past its deadline.
	ErrTimeout = errors.New("upstream request timed out")
	// ErrTooLarge marks a response body over the client's size cap.
	ErrTooLarge = errors.New("upstream response too large")
)

// Error describes a failed upstream fetch. StatusCode is 0 for network errors.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: upstream returned %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is (or wraps) a fetch timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// StatusCode extracts the upstream HTTP status from err, or 0 if there is none.
func StatusCode(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// Func fetches a URL and returns its body. The PDF cache takes one of these
// as its injected network call.
type Func func(ctx context.Context, url string) ([]byte, error)

// Client wraps an http.Client with a user agent and per-call timeouts.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBody    int64
}

// New creates a fetch client. Timeouts are applied per call, so the
// underlying http.Client deliberately has none of its own.
func New(userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		maxBody:    maxBodySize,
	}
}

// NewWithHTTPClient is used by tests to point the client at an httptest server.
func NewWithHTTPClient(hc *http.Client, userAgent string) *Client {
	c := New(userAgent)
	c.httpClient = hc
	return c
}

// Get downloads url, giving up after timeout.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: classify(ctx, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	// One byte past the cap tells a full-size body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &Error{URL: url, Err: classify(ctx, err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &Error{URL: url, Err: fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBody)}
	}
	return body, nil
}

// WithTimeout binds a timeout into a Func, e.g. for the PDF cache.
func (c *Client) WithTimeout(timeout time.Duration) Func {
	return func(ctx context.Context, url string) ([]byte, error) {
		return c.Get(ctx, url, timeout)
	}
}

// classify turns deadline-related failures into ErrTimeout.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(ErrTimeout, err)
	}
	return err
}
