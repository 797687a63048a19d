// Package web holds the html templates rendered by the feedbox server.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page. Pages are addressed by file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// FuncMap returns the helpers available inside templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"relativeTime": FormatRelativeTime,
		"count":        FormatCount,
	}
}

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago"
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatCount formats a number with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
