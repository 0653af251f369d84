// Package web provides the embedded HTML templates of the review page.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	// plural mirrors "N document(s)": the suffix only appears for n > 1
	"plural": func(n int, word string) string {
		if n > 1 {
			return word + "s"
		}
		return word
	},
}

// LoadTemplates parses every embedded template.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFiles, "templates/*.html")
}
