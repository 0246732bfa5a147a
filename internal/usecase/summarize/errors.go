// Package summarize implements the text summarization pipeline: resolving an
// input to text, fetching remote or local content, validating it, calling the
// configured AI provider, and assembling the result with its metrics.
package summarize

import "errors"

// Sentinel errors for pipeline operations. Every failure the pipeline can
// surface maps to exactly one of these kinds; the CLI and the web API report
// the kind-specific remediation hint and stop. Nothing is retried.
var (
	// ErrMissingCredential indicates that the provider API key environment
	// variable is not set. Checked before any network call.
	ErrMissingCredential = errors.New("api key is not set")

	// ErrInvalidCredential indicates that the provider rejected the API key.
	ErrInvalidCredential = errors.New("api key was rejected")

	// ErrRateLimited indicates that the provider rejected the request with a
	// rate limit response, or that the local request gate denied it.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrFetchFailure indicates that fetching URL content failed: bad URL,
	// non-2xx status, or a network error. Single attempt, no retry.
	ErrFetchFailure = errors.New("failed to fetch url content")

	// ErrFileNotFound indicates that the --file path does not exist.
	ErrFileNotFound = errors.New("input file not found")

	// ErrEmptyFile indicates that the input file exists but holds no text.
	ErrEmptyFile = errors.New("input file is empty")

	// ErrNoInput indicates that no input source produced any text
	// (typically an empty standard input).
	ErrNoInput = errors.New("no input provided")

	// ErrTextTooShort indicates that the resolved text is below the minimum
	// length and was rejected before any provider call.
	ErrTextTooShort = errors.New("text is too short to summarize")

	// ErrServiceFailure indicates any other error from the summarization
	// provider.
	ErrServiceFailure = errors.New("summarization service failed")
)

// kindNames maps sentinel errors to the stable names used in analytics and
// API responses.
var kindNames = []struct {
	err  error
	name string
}{
	{ErrMissingCredential, "missing_credential"},
	{ErrInvalidCredential, "invalid_credential"},
	{ErrRateLimited, "rate_limited"},
	{ErrFetchFailure, "fetch_failure"},
	{ErrFileNotFound, "file_not_found"},
	{ErrEmptyFile, "empty_file"},
	{ErrNoInput, "no_input"},
	{ErrTextTooShort, "text_too_short"},
	{ErrServiceFailure, "service_failure"},
}

// Kind returns the stable name for the pipeline error kind wrapped in err,
// or "unknown" when err does not wrap a pipeline sentinel.
func Kind(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

// remediations holds the fixed hint printed with each error kind.
var remediations = map[string]string{
	"missing_credential": "Set the ANTHROPIC_API_KEY environment variable.\n" +
		"Get an API key at https://console.anthropic.com/ and run:\n" +
		"  export ANTHROPIC_API_KEY='your-api-key-here'",
	"invalid_credential": "Check that ANTHROPIC_API_KEY holds a valid key (Anthropic keys start with sk-ant-).",
	"rate_limited":       "Too many requests. Wait a moment and try again.",
	"fetch_failure":      "Check that the URL is correct, reachable, and returns a readable page.",
	"file_not_found":     "Check that the file path exists and is readable.",
	"empty_file":         "The file exists but contains no text to summarize.",
	"no_input":           "Provide text as an argument, or use --file, --url, or pipe text on standard input.",
	"text_too_short":     "Provide at least 10 characters of text.",
	"service_failure":    "The summarization service returned an error. Try again later.",
	"unknown":            "An unexpected error occurred. Run with LOG_LEVEL=debug for details.",
}

// Remediation returns the human-readable hint for the pipeline error kind
// wrapped in err.
func Remediation(err error) string {
	return RemediationFor(Kind(err))
}

// RemediationFor returns the hint for a stable kind name, as recorded in
// analytics. Unknown names get the generic hint.
func RemediationFor(kind string) string {
	if hint, ok := remediations[kind]; ok {
		return hint
	}
	return remediations["unknown"]
}
