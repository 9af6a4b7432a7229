// Package web holds the server-rendered HTML pages.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// DateLayout is how dates are shown on every page
const DateLayout = "Jan. 2, 2006"

// FuncMap returns the helpers available to every page
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(DateLayout)
		},
	}
}

// Templates parses every embedded page
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
