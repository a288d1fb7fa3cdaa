package view

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ryanbrandenburg/mvcgo/framework/view/assets"
)

// Engine renders html/template files from a directory.
type Engine struct {
	dir     string
	ext     string
	funcs   template.FuncMap
	helpers *HelperRegistry
}

// NewEngine creates an Engine.
// dir is the templates directory (e.g. "./views"), ext the file extension
// (e.g. ".html").
func NewEngine(dir, ext string) *Engine {
	return &Engine{
		dir:     dir,
		ext:     ext,
		funcs:   template.FuncMap{},
		helpers: NewHelperRegistry(),
	}
}

// Funcs merges fns into the FuncMap applied to every parsed template.
func (e *Engine) Funcs(fns template.FuncMap) *Engine {
	for name, fn := range fns {
		e.funcs[name] = fn
	}
	return e
}

// Helpers replaces the engine's tag helper registry.
func (e *Engine) Helpers(r *HelperRegistry) *Engine {
	e.helpers = r
	return e
}

// ProcessTag runs the engine's tag helpers over a parsed tag.
func (e *Engine) ProcessTag(t *Tag) bool {
	return e.helpers.Process(t)
}

// View renders a template file with data.
//
//	engine.View(w, "home", map[string]any{"title": "Home"})
func (e *Engine) View(w http.ResponseWriter, name string, data any) {
	file := filepath.Join(e.dir, name+e.ext)
	tmpl, err := template.New(filepath.Base(file)).Funcs(e.funcs).ParseFiles(file)
	if err != nil {
		http.Error(w, "Template not found: "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Template render error", http.StatusInternalServerError)
	}
}

// ViewWithLayout renders a template wrapped in a base layout.
func (e *Engine) ViewWithLayout(w http.ResponseWriter, layout, name string, data any) {
	layoutPath := filepath.Join(e.dir, layout+e.ext)
	viewPath := filepath.Join(e.dir, name+e.ext)
	tmpl, err := template.New(filepath.Base(layoutPath)).Funcs(e.funcs).ParseFiles(layoutPath, viewPath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, filepath.Base(layoutPath), data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// ── Asset template func ───────────────────────────────────────────────────────

// AssetFunc builds the "asset" template func: it maps an asset-relative
// path to its public URL under urlPrefix and, when enabled, appends the
// content version token.
//
//	{{asset "img/logo.png"}}  →  /static/img/logo.png?v=3q2-7_w...
func AssetFunc(v *assets.VersionProvider, urlPrefix string, appendVersion bool) func(string) string {
	prefix := strings.TrimSuffix(urlPrefix, "/")
	return func(p string) string {
		u := prefix + "/" + strings.TrimPrefix(p, "/")
		if !appendVersion || v == nil {
			return u
		}
		return v.AddFileVersionToPath(prefix, u)
	}
}
