// internal/view/render.go
//
// Template engine: page lookup under the configured template root, shared
// partials, func-map injection, and an LRU of parsed *template.Template*
// sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (fragments, e-mails).
//
// Layout on disk
// --------------
//
//	<template_root>/index.html
//	<template_root>/world_map.html
//	<template_root>/account/register.html
//	<template_root>/partials/**/*.html      (parsed into every set)
//
// A page is parsed together with every other *.html in its directory and
// every partial, so `{{ template "header" . }}` works out of the box.
//
// Hot reload
// ----------
// With `templates.hot_reload = true` nothing is cached and each render
// re-reads the files.  Otherwise a set is parsed on first use and kept.
// A missing template root is not an error until something is rendered.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/template/parse"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vallheru/game-web/internal/cache"
	"github.com/vallheru/game-web/internal/config"
)

// ErrNotFound is returned when no file backs the requested page.
var ErrNotFound = errors.New("view: template not found")

// setCapacity bounds the number of cached page sets.
const setCapacity = 256

// Engine renders pages from one template root.  Safe for concurrent use.
type Engine struct {
	root      string
	hotReload bool
	sets      *cache.LRU[string, *template.Template]
	sfg       singleflight.Group
}

// New builds an Engine from the templates section.  No files are touched.
func New(cfg config.Templates) *Engine {
	return &Engine{
		root:      cfg.TemplateRoot,
		hotReload: cfg.HotReload,
		sets:      cache.New[string, *template.Template](setCapacity),
	}
}

// Root returns the template root the engine reads from.
func (e *Engine) Root() string { return e.root }

//
// public helpers
//

// Render executes page name (e.g. "index" or "account/register") and
// writes it to w.  Output is buffered so a failing template never sends a
// half page.
func (e *Engine) Render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := e.execute(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString mirrors Render but returns the HTML.
func (e *Engine) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.execute(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (e *Engine) execute(buf *bytes.Buffer, name string, data any) error {
	t, err := e.load(name)
	if err != nil {
		return err
	}
	if err := t.ExecuteTemplate(buf, execName(t, name), data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

//
// internal: load
//

// load returns the parsed set for name, from cache unless hot reload is
// on.  Parse failures are not cached.  Concurrent misses for one page
// share a single parse.
func (e *Engine) load(name string) (*template.Template, error) {
	if e.hotReload {
		return e.parse(name)
	}
	if t, ok := e.sets.Get(name); ok {
		return t, nil
	}

	v, err, _ := e.sfg.Do(name, func() (any, error) {
		// Double-check after the singleflight barrier.
		if t, ok := e.sets.Get(name); ok {
			return t, nil
		}
		t, err := e.parse(name)
		if err != nil {
			return nil, err
		}
		e.sets.Add(name, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse reads the page, its siblings, and the partials from disk.
func (e *Engine) parse(name string) (*template.Template, error) {
	page, err := e.pagePath(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(page); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, page, err)
	}

	files, err := filepath.Glob(filepath.Join(filepath.Dir(page), "*.html"))
	if err != nil {
		return nil, err
	}
	partials, _ := CollectHTML(filepath.Join(e.root, "partials"))
	files = append(partials, files...)

	t, err := template.New(name).Funcs(FuncMap()).ParseFiles(files...)
	if err != nil {
		zap.S().Errorw("template parse failed", "page", name, "root", e.root, "err", err)
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	zap.S().Debugw("template set parsed", "page", name, "files", len(files), "hot_reload", e.hotReload)
	return t, nil
}

// pagePath maps a logical name onto <root>/<name>.html, refusing names
// that would climb out of the root.
func (e *Engine) pagePath(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid page name %q", ErrNotFound, name)
	}
	return filepath.Join(e.root, clean+".html"), nil
}

//
// helpers
//

// execName picks the template to execute.  A file "register.html" is run
// by its file name; a set that only defines {{ define "register" }} is run
// by the logical name.  A file holding only {{ define }} blocks parses to
// an empty template, which does not count.  ParseFiles names templates by
// base name, so the directory part of name is dropped first.
func execName(t *template.Template, name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	if f := t.Lookup(base + ".html"); f != nil && f.Tree != nil && !parse.IsEmptyTree(f.Tree.Root) {
		return base + ".html"
	}
	return base
}
