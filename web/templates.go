// Package web holds the server-rendered page templates. Styling and layout
// are intentionally minimal; the pages exist to carry the auth and setup
// flows.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.tmpl"))
}
