// Package web serves the embedded single-page UI. The page is a plain HTML
// template with inline styles and scripts; everything it needs beyond the
// JSON API ships in the binary.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed index.html
var files embed.FS

var page = template.Must(template.ParseFS(files, "index.html"))

// Config controls how the page renders.
type Config struct {
	// Title is shown in the browser tab and the page header.
	Title string

	// ShowAnalytics enables the usage dashboard panel.
	ShowAnalytics bool
}

// Index returns a handler that renders the single-page UI.
func Index(cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, cfg); err != nil {
			// ヘッダ送信後なのでログに残すしかない
			slog.Error("failed to render index page", slog.String("error", err.Error()))
		}
	})
}
