// Package web renders the HTML pages. Every page is the shared layout plus
// one content template, and gets the client's pending flash messages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/ayush/sustainawatt/internal/flash"
	"github.com/ayush/sustainawatt/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// View is what every template executes against.
type View struct {
	Flashes []flash.Message
	Data    map[string]any
}

type Renderer struct {
	pages   map[string]*template.Template
	flasher *flash.Flasher
	log     logging.Logger
}

var funcs = template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
}

// NewRenderer parses every embedded page against the layout.
func NewRenderer(flasher *flash.Flasher, log logging.Logger) (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, n := range names {
		name := path.Base(n)
		if name == layoutFile {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutFile, n)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, flasher: flasher, log: log}, nil
}

// Render executes page name into a buffer first so a template error never
// leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	t, ok := rd.pages[name]
	if !ok {
		rd.log.Error(r.Context(), "unknown template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view := View{Flashes: rd.flasher.Take(r), Data: data}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", view); err != nil {
		rd.log.Error(r.Context(), "render failed", "name", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Page returns a handler that renders a template with no data.
func (rd *Renderer) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, http.StatusOK, name, nil)
	}
}
