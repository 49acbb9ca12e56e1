package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements Fetcher with one-shot colly collectors cloned from
// a shared base, so every fetch reuses one pooled transport.
type CollyFetcher struct {
	base   *colly.Collector
	logger *zap.Logger
}

// NewCollyFetcher builds a CollyFetcher. Robots.txt is ignored and URL
// revisits are allowed; the frontier is the only dedup authority. The
// transport, timeout, and user agent live on the base collector, whose HTTP
// backend every clone shares.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	c.WithTransport(newHTTPTransport())
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c.SetRequestTimeout(timeout)

	return &CollyFetcher{
		base:   c,
		logger: logger.Named("fetcher"),
	}
}

// Fetch issues a GET against https://{domain}/ and classifies the outcome.
// A network-class failure is retried once over plain http; TLS handshake
// errors land in that class, and connection-level failures are not reliably
// distinguishable from them, so the fallback covers both. Timeouts and
// HTTP-status failures never trigger the fallback.
func (f *CollyFetcher) Fetch(ctx context.Context, d Domain) (*Page, error) {
	page, ferr := f.attempt(ctx, d, "https")
	if ferr == nil {
		return f.gateContent(page)
	}
	if ferr.Kind != FetchNetwork {
		return nil, ferr
	}

	f.logger.Debug("https failed, retrying over http",
		zap.String("domain", string(d)), zap.Error(ferr))
	page, httpErr := f.attempt(ctx, d, "http")
	if httpErr == nil {
		return f.gateContent(page)
	}
	if httpErr.Kind != FetchNetwork {
		// The http attempt reached a server (or its deadline); that
		// outcome is more informative than the https failure.
		return nil, httpErr
	}
	return nil, ferr
}

// attempt runs a single scheme-specific GET on a cloned collector. Clones
// carry their own handlers but share the base backend, so nothing here may
// mutate client state.
func (f *CollyFetcher) attempt(ctx context.Context, d Domain, scheme string) (*Page, *FetchError) {
	collector := f.base.Clone()

	var (
		page    *Page
		status  int
		hookErr error
	)
	start := time.Now()
	collector.OnResponse(func(r *colly.Response) {
		page = &Page{
			Domain:      d,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        append([]byte(nil), r.Body...),
			FetchedAt:   start,
			Duration:    time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		hookErr = err
	})

	visitErr := f.runCollector(ctx, collector, fmt.Sprintf("%s://%s/", scheme, d))

	switch {
	case page != nil:
		return page, nil
	case status > 0:
		return nil, &FetchError{Kind: FetchHTTPStatus, Domain: d, Code: status, Err: hookErr}
	default:
		cause := hookErr
		if cause == nil {
			cause = visitErr
		}
		if cause == nil {
			cause = errors.New("no response")
		}
		if isTimeout(cause) {
			return nil, &FetchError{Kind: FetchTimeout, Domain: d, Err: cause}
		}
		return nil, &FetchError{Kind: FetchNetwork, Domain: d, Err: cause}
	}
}

// gateContent rejects 2xx responses that are not HTML; only HTML reaches
// the extractor.
func (f *CollyFetcher) gateContent(page *Page) (*Page, error) {
	if !htmlContent(page.ContentType) {
		return nil, &FetchError{Kind: FetchContent, Domain: page.Domain}
	}
	return page, nil
}

func (f *CollyFetcher) runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

func htmlContent(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
