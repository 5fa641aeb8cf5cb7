// internal/view/render.go
//
// Central view engine: template lookup, theme override chain, func-map
// injection, and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Execute        – write rendered HTML to any io.Writer (default cache).
//   - Render         – same, with an explicit CachePolicy.
//   - RenderToString – return template.HTML (nested views, e-mails).
//
// Lookup precedence (last parse wins):
//  1. <theme.dir>/<theme>/templates/**/*.html   (operator overrides)
//  2. embedded component templates               (defaults)
//
// All templates are parsed as one set so sub-templates ({{ template "card" . }})
// work out-of-the-box.  Concurrent misses for the same key are collapsed
// with singleflight, so a cold cache parses each set once.
//
// execName() chooses the template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/anime-catalog/internal/cache"
	"github.com/yanizio/anime-catalog/internal/theme"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // reuse the parsed set
	CacheSkip                       // re-parse on every call (theme development)
)

// Engine renders one component's templates.  Safe for concurrent use.
type Engine struct {
	base  fs.FS
	theme *theme.Theme
	funcs template.FuncMap

	lru *cache.LRU
	sfg singleflight.Group
}

// New builds an Engine over the embedded base templates.  th may be nil.
// extra is merged over the built-in helpers (dict, asset).
func New(base fs.FS, th *theme.Theme, extra template.FuncMap) *Engine {
	fm := template.FuncMap{
		"dict":  dict,
		"asset": func(p string) string { return "/static/" + p },
	}
	if th != nil {
		fm["asset"] = th.AssetFunc
	}
	for k, fn := range extra {
		fm[k] = fn
	}
	return &Engine{
		base:  base,
		theme: th,
		funcs: fm,
		lru:   cache.New(64),
	}
}

//
// public helpers
//

// Execute renders name with the default cache policy.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	return e.Render(w, name, data, CacheDefault)
}

// Render executes the template set and streams it to w.  Output is buffered
// so a failing template never leaves a half-written page behind.
func (e *Engine) Render(w io.Writer, name string, data any, policy CachePolicy) error {
	t, err := e.load(name, policy)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderToString executes and returns HTML.
func (e *Engine) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, name, data, CacheDefault); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

func (e *Engine) load(name string, policy CachePolicy) (*template.Template, error) {
	themeName := ""
	if e.theme != nil {
		themeName = e.theme.Name
	}
	key := themeName + "::" + name

	if policy == CacheSkip {
		return e.parse(name)
	}
	if v, ok := e.lru.Get(key); ok {
		return v.(*template.Template), nil
	}

	v, err, _ := e.sfg.Do(key, func() (any, error) {
		t, err := e.parse(name)
		if err != nil {
			return nil, err
		}
		e.lru.Add(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse builds a fresh set: embedded defaults first, theme overrides last.
func (e *Engine) parse(name string) (*template.Template, error) {
	t := template.New("").Funcs(e.funcs)

	files, err := theme.CollectHTML(e.base)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		if t, err = t.ParseFS(e.base, files...); err != nil {
			return nil, fmt.Errorf("parse embedded templates: %w", err)
		}
	}

	if dir := e.theme.TemplateDir(); dir != "" {
		over := os.DirFS(dir)
		files, err := theme.CollectHTML(over)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			if t, err = t.ParseFS(over, files...); err != nil {
				return nil, fmt.Errorf("parse theme overrides: %w", err)
			}
		}
	}

	if name == "" || (t.Lookup(name+".html") == nil && t.Lookup(name) == nil) {
		return nil, fmt.Errorf("template %q: %w", name, os.ErrNotExist)
	}
	return t, nil
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
