package core

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

// TemplateRenderer executes a named template against an attribute mapping.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data map[string]interface{}) error
}

// Renderer parses every *.html file of an fs.FS into one template set.
// It is safe for concurrent use; Reload swaps the set in place.
type Renderer struct {
	fsys  fs.FS
	funcs template.FuncMap

	mu   sync.RWMutex
	tmpl *template.Template
}

func NewRenderer(fsys fs.FS, funcs template.FuncMap) (*Renderer, error) {
	r := &Renderer{fsys: fsys, funcs: funcs}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) Reload() error {
	tmpl, err := template.New("").Funcs(r.funcs).ParseFS(r.fsys, "*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// Render executes name into a buffer and only writes to w on success, so a
// failing template never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data map[string]interface{}) error {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	if tmpl.Lookup(name) == nil {
		return fmt.Errorf("%q: %w", name, ErrTemplateNotFound)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

// Templates lists the names of all defined templates.
func (r *Renderer) Templates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, t := range r.tmpl.Templates() {
		if t.Name() == "" || t.Tree == nil {
			continue
		}
		names = append(names, t.Name())
	}
	return names
}
