// Package theme holds the data structures that describe one visual theme.
// A Theme combines:
//
//   - Name         – the theme directory name (for example, “default”).
//   - Root         – absolute path to that directory on disk (may not exist).
//   - AssetFunc    – helper injected into templates so they can resolve
//     `{{ asset "css/style.css" }}` to a URL.
//
// Themes are optional.  When `<dir>/<name>` is missing the catalog renders
// with its embedded templates and serves assets from `/static/`.  When the
// directory exists, `templates/*.html` override embedded files one by one
// and `assets/` is served under `/themes/<name>/assets/`.
package theme

import (
	"os"
	"path/filepath"
)

// Theme is resolved once at startup.
type Theme struct {
	Name      string
	Root      string
	AssetFunc func(string) string
}

// New constructs a Theme rooted at dir/name.
func New(dir, name string) *Theme {
	root := filepath.Join(dir, name)
	prefix := "/static/"
	if dir != "" && isDir(filepath.Join(root, "assets")) {
		prefix = filepath.ToSlash("/themes/" + name + "/assets/")
	}
	return &Theme{
		Name: name,
		Root: root,
		AssetFunc: func(p string) string {
			return prefix + p
		},
	}
}

// TemplateDir returns the override directory, or "" when the theme ships
// no templates.
func (t *Theme) TemplateDir() string {
	if t == nil {
		return ""
	}
	d := filepath.Join(t.Root, "templates")
	if !isDir(d) {
		return ""
	}
	return d
}

// AssetDir returns the theme asset directory, or "" when absent.
func (t *Theme) AssetDir() string {
	if t == nil {
		return ""
	}
	d := filepath.Join(t.Root, "assets")
	if !isDir(d) {
		return ""
	}
	return d
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
