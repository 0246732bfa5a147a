package summarize

import (
	"context"
	"errors"
)

// ContentFetcher is an interface for fetching readable text from a URL.
// Implementations fetch the page over HTTP/HTTPS and extract clean article
// text (or flatten a feed into text) so the summarizer never sees raw markup.
//
// Security considerations:
//   - Implementations MUST prevent Server-Side Request Forgery (SSRF)
//   - Implementations MUST enforce size limits on response bodies
//   - Implementations MUST enforce timeouts
//   - Implementations MUST validate redirect targets
type ContentFetcher interface {
	// FetchContent performs a single GET against the URL and returns the
	// extracted plain text. One attempt only; failures are terminal.
	//
	// Errors:
	//   - ErrInvalidURL: URL format is invalid or uses an unsupported scheme
	//   - ErrPrivateIP: URL resolves to a private IP address
	//   - ErrTooManyRedirects: redirect chain exceeds the configured maximum
	//   - ErrBodyTooLarge: response body exceeds the hard read limit
	//   - ErrHTTPStatus: response status was not 2xx
	//   - ErrNoReadableContent: the response contained no extractable text
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching. The pipeline reports all of them as
// the fetch_failure kind; the distinct sentinels keep tests and logs precise.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an
	// unsupported scheme. Only http:// and https:// are accepted.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL or a redirect hop resolves to a private
	// IP address (SSRF prevention).
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates the redirect chain exceeded the
	// configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the hard read
	// limit before truncation could apply.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrHTTPStatus indicates the server answered with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNoReadableContent indicates extraction produced no text; the page
	// has nothing to summarize.
	ErrNoReadableContent = errors.New("no readable content found")
)
