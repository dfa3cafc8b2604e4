// Package fetch retrieves job posting pages over HTTP and reduces them to
// readable text. Pages that render client-side fall back to a headless
// browser pass.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page retrieval.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the tracker to job boards.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ApplicationTracker/1.0)"

// Page holds the raw and extracted content of a fetched posting.
type Page struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
	Rendered    bool // true when the headless browser produced the HTML
}

// Error wraps a failure while retrieving a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fetcher retrieves posting pages. The zero value is not usable; construct
// with NewFetcher.
type Fetcher struct {
	client    *http.Client
	userAgent string
	browser   bool
	verbose   bool
}

// Option adjusts Fetcher construction.
type Option func(*Fetcher)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithUserAgent overrides the request user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithBrowserFallback enables headless browser rendering for pages whose
// plain HTTP fetch yields too little text. Requires Chrome on the host.
func WithBrowserFallback(enabled bool) Option {
	return func(f *Fetcher) { f.browser = enabled }
}

// WithVerbose enables progress logging during browser fallback.
func WithVerbose(v bool) Option {
	return func(f *Fetcher) { f.verbose = v }
}

// NewFetcher creates a Fetcher with a shared HTTP client.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get retrieves the page at urlStr without any content extraction.
func (f *Fetcher) Get(ctx context.Context, urlStr string) (*Page, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// Posting retrieves a job posting and extracts its readable text using
// selectors for the detected platform. When plain HTTP yields too little
// text the page is re-rendered in a headless browser.
func (f *Fetcher) Posting(ctx context.Context, urlStr string) (*Page, error) {
	platform := DetectPlatform(urlStr)

	page, err := f.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(page.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if f.browser && NeedsBrowser(text) {
		html, berr := RenderPage(ctx, urlStr, f.client.Timeout, f.verbose)
		if berr == nil {
			if rendered, rerr := ExtractText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); rerr == nil && len(rendered) > len(text) {
				page.HTML = html
				page.Rendered = true
				text = rendered
			}
		}
		// Browser failures are non-fatal; the HTTP text is kept as-is.
	}

	page.Text = text
	return page, nil
}

// ExtractText parses HTML and returns the main readable text. Noise elements
// are removed first, then the first matching content selector wins, falling
// back to the body element.
func ExtractText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var content *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return collapseWhitespace(content.Text()), nil
}

// collapseWhitespace trims each line and drops blanks.
func collapseWhitespace(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
