package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"summary-lab/internal/resilience/circuitbreaker"
	"summary-lab/internal/usecase/summarize"
)

// HTTPFetcher implements the summarize.ContentFetcher interface. It downloads
// the URL once, sniffs the payload, and extracts text worth summarizing:
// RSS/Atom feeds are flattened into their item texts, HTML pages go through
// the Readability algorithm with a plain DOM text walk as fallback, and
// anything else is treated as plain text.
//
// Thread safety: HTTPFetcher is safe for concurrent use.
type HTTPFetcher struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	config  Config
}

// NewHTTPFetcher creates a new HTTPFetcher with the given configuration.
// Every redirect target is re-validated against the SSRF rules before it is
// followed.
func NewHTTPFetcher(config Config) *HTTPFetcher {
	f := &HTTPFetcher{
		breaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:  config,
	}

	f.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", summarize.ErrTooManyRedirects, len(via))
			}

			// リダイレクト先も同じSSRFチェックを通す
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return err
			}

			return nil
		},
	}

	return f
}

// FetchContent fetches and extracts text content from the given URL.
// The URL is validated for security before any request goes out, and the
// fetch itself runs through a circuit breaker. Failures are terminal; no
// request is ever retried.
func (f *HTTPFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// doFetch performs the actual HTTP request and content extraction.
func (f *HTTPFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", summarize.ErrInvalidURL, err)
	}

	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// CheckRedirect errors come back wrapped in *url.Error
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d for %s", summarize.ErrHTTPStatus, resp.StatusCode, urlStr)
	}

	// Content-Lengthは信用せず、読みながら上限を強制する
	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size exceeds limit %d bytes",
			summarize.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Redirects may have moved the page; Readability wants the final URL.
	pageURL, err := url.Parse(urlStr)
	if err != nil {
		pageURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	return f.extractContent(urlStr, pageURL, resp.Header.Get("Content-Type"), body)
}

// extractContent picks the extraction strategy based on what the server
// actually returned.
func (f *HTTPFetcher) extractContent(urlStr string, pageURL *url.URL, contentType string, body []byte) (string, error) {
	if looksLikeFeed(contentType, body) {
		if content, err := flattenFeed(body); err == nil && content != "" {
			return content, nil
		}
		slog.Debug("feed parse yielded no content, falling back to page extraction",
			slog.String("url", urlStr))
	}

	if looksLikeHTML(contentType, body) {
		return f.extractArticle(urlStr, pageURL, body)
	}

	// text/plainやMarkdownはそのまま使う
	return string(body), nil
}

// extractArticle runs Readability over an HTML page and falls back to the
// raw DOM text when no article structure is recognized.
func (f *HTTPFetcher) extractArticle(urlStr string, pageURL *url.URL, body []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && article.TextContent != "" {
		return article.TextContent, nil
	}
	if err != nil {
		slog.Debug("readability extraction failed, falling back to DOM text",
			slog.String("url", urlStr),
			slog.String("error", err.Error()))
	}

	text, err := domText(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", summarize.ErrNoReadableContent, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: page has no extractable text", summarize.ErrNoReadableContent)
	}

	return text, nil
}

// domText returns the visible text of an HTML document with scripts and
// styles removed and whitespace collapsed.
func domText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	return normalizeWhitespace(doc.Find("body").Text()), nil
}

// looksLikeHTML reports whether the response is an HTML page.
func looksLikeHTML(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}

	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
