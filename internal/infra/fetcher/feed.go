package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// looksLikeFeed reports whether the response is an RSS or Atom feed, based on
// the Content-Type header and a peek at the document head.
func looksLikeFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "application/rss+xml") || strings.Contains(ct, "application/atom+xml") {
		return true
	}

	head := strings.ToLower(string(body[:min(len(body), 1024)]))
	if !strings.Contains(head, "<?xml") && !strings.Contains(ct, "xml") {
		return false
	}

	return strings.Contains(head, "<rss") || strings.Contains(head, "<feed")
}

// flattenFeed turns a feed document into plain text suitable for
// summarization: the feed title followed by each item's title and content.
func flattenFeed(body []byte) (string, error) {
	fp := gofeed.NewParser()

	feed, err := fp.ParseString(string(body))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if feed.Title != "" {
		b.WriteString(feed.Title)
		b.WriteString("\n\n")
	}

	for _, it := range feed.Items {
		// Content優先、なければDescriptionを使用
		content := it.Content
		if content == "" {
			content = it.Description
		}

		if it.Title != "" {
			b.WriteString(it.Title)
			b.WriteString("\n")
		}
		if content != "" {
			b.WriteString(stripHTML(content))
			b.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// stripHTML drops markup from feed item content, returning plain text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	return normalizeWhitespace(doc.Text())
}
