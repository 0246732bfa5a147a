package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryHTML(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "plain prose becomes a paragraph",
			md:   "The article explains the new scheduler.",
			want: "<p>The article explains the new scheduler.</p>",
		},
		{
			name: "emphasis is rendered",
			md:   "The **key point** is latency.",
			want: "<strong>key point</strong>",
		},
		{
			name: "bullet list is rendered",
			md:   "- first point\n- second point",
			want: "<li>first point</li>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			html, err := SummaryHTML(tt.md)

			// Assert
			require.NoError(t, err)
			assert.Contains(t, html, tt.want)
		})
	}
}

func TestSummaryHTML_EscapesRawHTML(t *testing.T) {
	// Act
	html, err := SummaryHTML("summary with <script>alert(1)</script> inside")

	// Assert
	require.NoError(t, err)
	// goldmarkは既定で素のHTMLをそのまま通さない
	assert.NotContains(t, html, "<script>")
}
