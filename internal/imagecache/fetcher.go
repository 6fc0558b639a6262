package imagecache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxBytes = 10 << 20 // 10 MB
	maxRedirects    = 5
)

// ErrTooLarge is returned when an image exceeds the fetcher's size cap.
var ErrTooLarge = errors.New("imagecache: image too large")

// Fetcher downloads the bytes behind an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher implements Fetcher for http, https and base64 data URIs.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBytes     int64
	blockPrivate bool
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithTimeout bounds each download, redirects included.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithMaxBytes caps the size of a downloaded image.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithBlockPrivate rejects loopback and cloud metadata hosts.
func WithBlockPrivate(block bool) FetcherOption {
	return func(f *HTTPFetcher) {
		f.blockPrivate = block
	}
}

// NewHTTPFetcher creates a fetcher with a bounded timeout and size.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: defaultMaxBytes,
	}
	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("too many redirects (max %d)", maxRedirects)
		}
		return f.checkHost(req.URL.Hostname())
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes at rawURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return f.decodeDataURI(rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("imagecache: invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("imagecache: unsupported scheme %q (only http/https)", parsed.Scheme)
	}
	if err := f.checkHost(parsed.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("imagecache: build request: %w", err)
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagecache: download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagecache: download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imagecache: read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// decodeDataURI parses a data:[<mediatype>];base64,<data> URI.
func (f *HTTPFetcher) decodeDataURI(uri string) ([]byte, error) {
	meta, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("imagecache: invalid data URI: missing comma separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("imagecache: only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("imagecache: invalid base64 data: %w", err)
		}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// checkHost rejects loopback and cloud metadata addresses when enabled.
func (f *HTTPFetcher) checkHost(host string) error {
	if !f.blockPrivate {
		return nil
	}
	if host == "metadata.google.internal" {
		return fmt.Errorf("imagecache: blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("imagecache: blocked host: loopback address %s", host)
	}
	// AWS/GCP/Azure metadata endpoint.
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("imagecache: blocked host: cloud metadata address %s", host)
	}
	return nil
}
