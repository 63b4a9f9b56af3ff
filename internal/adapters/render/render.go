// Package render turns embedded HTML templates into pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const fallbackPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error</title></head>
<body><h1>Something went wrong</h1><p>Please try again later.</p></body>
</html>
`

type Renderer struct {
	templates *template.Template
}

// New parses every embedded template. Templates are addressed by file name
// without the .html suffix.
func New() (*Renderer, error) {
	tmpl, err := template.New("pages").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named template with data. Values are HTML-escaped.
func (r *Renderer) Render(name string, data map[string]string) (string, error) {
	tmpl := r.templates.Lookup(strings.TrimSuffix(name, ".html") + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", name, err)
	}
	return buf.String(), nil
}

// Fallback is the page served when a template cannot be rendered.
func (r *Renderer) Fallback() string {
	return fallbackPage
}
