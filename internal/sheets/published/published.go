// Package published reads the CSV export of a spreadsheet that was shared
// with "publish to the web".
package published

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"painel/internal/core"
	"painel/internal/ingest"
	ports "painel/internal/sheets"
)

// Source fetches one published CSV link.
type Source struct {
	url     string
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
}

var _ ports.TableReader = (*Source)(nil)

// Option customizes a Source.
type Option func(*Source)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.client = c }
}

// WithTimeout bounds every fetch. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) { s.timeout = d }
}

// WithClock sets the clock used for the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a Source for rawURL. The URL is checked on each fetch so that
// an unset page still reports a configuration error when refreshed.
func New(rawURL string, opts ...Option) *Source {
	s := &Source{
		url:    strings.TrimSpace(rawURL),
		client: ports.NewHTTPClient(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads and validates the export. It never retries.
func (s *Source) Fetch(ctx context.Context) (ingest.Table, error) {
	if s.url == "" || ports.IsPlaceholderURL(s.url) {
		return ingest.Table{}, &core.ConfigurationError{Msg: "published CSV URL is not set"}
	}
	target, err := s.bustedURL()
	if err != nil {
		return ingest.Table{}, &core.ConfigurationError{Msg: fmt.Sprintf("invalid published CSV URL: %v", err)}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ingest.Table{}, &core.ConfigurationError{Msg: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return ingest.Table{}, &core.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ingest.Table{}, &core.NetworkError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ingest.Table{}, &core.NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}
	return ingest.ParseBody(string(body))
}

// bustedURL appends t=<unix millis> so intermediaries never serve a stale
// export.
func (s *Source) bustedURL() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
