package opengraph

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxBytes = 5 << 20 // 5 MB
	maxRedirects    = 5
)

// Scraper fetches Open Graph metadata for a URL.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*Result, error)
}

// HTTPScraper implements Scraper over HTTP.
type HTTPScraper struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// ScraperOption configures an HTTPScraper.
type ScraperOption func(*HTTPScraper)

// WithTimeout bounds the whole request, redirects included.
func WithTimeout(d time.Duration) ScraperOption {
	return func(s *HTTPScraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ScraperOption {
	return func(s *HTTPScraper) {
		s.userAgent = ua
	}
}

// WithMaxBytes caps how much of the page body is read.
func WithMaxBytes(n int64) ScraperOption {
	return func(s *HTTPScraper) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// NewHTTPScraper creates a scraper with a bounded timeout.
func NewHTTPScraper(opts ...ScraperOption) *HTTPScraper {
	s := &HTTPScraper{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape downloads rawURL and parses its metadata. Non-2xx responses and
// non-HTML content are errors.
func (s *HTTPScraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("opengraph: invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("opengraph: unsupported scheme: %q (only http/https)", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("opengraph: build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opengraph: fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("opengraph: fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, _ := mime.ParseMediaType(ct)
		if mt != "text/html" && mt != "application/xhtml+xml" {
			return nil, fmt.Errorf("opengraph: %s is not an HTML page (%s)", rawURL, mt)
		}
	}

	// Resolve relative URLs against the final location after redirects.
	base := resp.Request.URL
	res, err := Parse(io.LimitReader(resp.Body, s.maxBytes), base)
	if err != nil {
		return nil, fmt.Errorf("opengraph: parse %s: %w", rawURL, err)
	}
	return res, nil
}
