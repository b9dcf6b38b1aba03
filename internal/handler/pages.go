// Package handler contains the HTTP glue: parsing forms and query strings,
// reading the session, calling services, and rendering templates or
// redirects. No business rules live here.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Renderer holds the parsed page templates.
//
// Each page is parsed together with base.html once at startup, so every
// page can define its own "content" block without clashing with the others.
// Re-parsing per request would work but is wasted effort on a hot path.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses base.html plus every other .html file in templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	base := filepath.Join(templateDir, "base.html")

	files, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("handler: globbing templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		name := filepath.Base(file)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.ParseFiles(base, file)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("handler: no page templates found in %s", templateDir)
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes the named page inside the base layout.
func (re *Renderer) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := re.pages[page]
	if !ok {
		re.logger.Error("unknown template requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Headers must be set before the first byte of the body goes out.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		re.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
