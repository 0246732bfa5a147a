package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// SummaryHTML converts a summary to an HTML fragment for the web UI.
// Provider output is mostly plain prose but occasionally carries Markdown
// lists or emphasis, which render better than raw asterisks.
func SummaryHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render summary html: %w", err)
	}
	return buf.String(), nil
}
