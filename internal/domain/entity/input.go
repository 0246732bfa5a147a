// Package entity defines the core domain entities and validation logic for the
// summarization pipeline: the input request variants, the resolved text that
// flows through the pipeline, and the summary result with its derived metrics.
package entity

// InputSource identifies which input variant produced a text.
type InputSource string

// Input source kinds, in resolution priority order.
const (
	SourceInline InputSource = "inline"
	SourceFile   InputSource = "file"
	SourceURL    InputSource = "url"
	SourceStdin  InputSource = "stdin"
)

// InputRequest is one of four input variants: inline text, a file path, a URL,
// or standard input. It carries the raw locator or value and is immutable once
// constructed from process arguments.
type InputRequest struct {
	Source InputSource
	// Value holds the inline text, the file path, or the URL. Empty for stdin.
	Value string
}

// NewInlineInput builds a request carrying the text itself.
func NewInlineInput(text string) InputRequest {
	return InputRequest{Source: SourceInline, Value: text}
}

// NewFileInput builds a request pointing at a local file path.
func NewFileInput(path string) InputRequest {
	return InputRequest{Source: SourceFile, Value: path}
}

// NewURLInput builds a request pointing at a remote URL.
func NewURLInput(rawURL string) InputRequest {
	return InputRequest{Source: SourceURL, Value: rawURL}
}

// NewStdinInput builds a request that reads standard input to EOF.
func NewStdinInput() InputRequest {
	return InputRequest{Source: SourceStdin}
}

// SelectInput picks the input source for a request. Inline text wins over a
// file path, a file path wins over a URL, and when nothing is provided the
// request falls through to standard input.
func SelectInput(inline, filePath, rawURL string) InputRequest {
	switch {
	case inline != "":
		return NewInlineInput(inline)
	case filePath != "":
		return NewFileInput(filePath)
	case rawURL != "":
		return NewURLInput(rawURL)
	default:
		return NewStdinInput()
	}
}

// Validate checks the request shape before resolution starts.
func (r InputRequest) Validate() error {
	switch r.Source {
	case SourceInline:
		if r.Value == "" {
			return &ValidationError{Field: "text", Message: "inline text is required"}
		}
	case SourceFile:
		if r.Value == "" {
			return &ValidationError{Field: "file", Message: "file path is required"}
		}
	case SourceURL:
		return ValidateURL(r.Value)
	case SourceStdin:
		// 読み取り時に空入力を検出するため、ここでは検証しない
	default:
		return &ValidationError{Field: "source", Message: "unknown input source"}
	}
	return nil
}
