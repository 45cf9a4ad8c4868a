// Package http provides the HTTP side of immodiag: a Fetcher for listing
// pages and the JSON API server.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/immodiag"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// MaxPageSize caps the number of decoded bytes read from a listing page.
// Longer pages are truncated.
const MaxPageSize = 5 << 20

// DefaultUserAgent identifies the fetcher to listing sites.
const DefaultUserAgent = "Mozilla/5.0 (compatible; immodiag/1.0)"

// Ensure Fetcher implements immodiag.Fetcher at compile time.
var _ immodiag.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves listing pages with a single HTTP GET. It does not
// execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and decodes it to UTF-8 using the
// declared or sniffed charset. Non-200 responses are errors. At most
// MaxPageSize bytes are returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", immodiag.Errorf(immodiag.EINVALID, "invalid url %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", immodiag.Errorf(immodiag.EINTERNAL, "decode %s: %v", url, err)
	}
	data, err := io.ReadAll(io.LimitReader(body, MaxPageSize))
	if err != nil {
		return "", immodiag.Errorf(immodiag.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(data), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
