package view

import (
	"bytes"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/yanizio/anime-catalog/internal/theme"
)

func baseFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.html":         {Data: []byte(`<p>{{ template "name" . }} {{ asset "css/style.css" }}</p>`)},
		"partials/name.html": {Data: []byte(`{{ define "name" }}Hi {{ .Who }}{{ end }}`)},
		"defined.html":       {Data: []byte(`{{ define "page" }}[{{ shout .Who }}]{{ end }}`)},
	}
}

func TestRender_FileTemplateWithPartial(t *testing.T) {
	e := New(baseFS(), nil, nil)

	var buf bytes.Buffer
	if err := e.Execute(&buf, "hello", map[string]string{"Who": "Ann"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got, want := buf.String(), "<p>Hi Ann /static/css/style.css</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_DefinedTemplateAndExtraFuncs(t *testing.T) {
	e := New(baseFS(), nil, template.FuncMap{"shout": strings.ToUpper})

	html, err := e.RenderToString("page", map[string]string{"Who": "bo"})
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if html != "[BO]" {
		t.Fatalf("got %q", html)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	e := New(baseFS(), nil, nil)
	err := e.Execute(&bytes.Buffer{}, "missing", nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestRender_ThemeOverrideWins(t *testing.T) {
	dir := t.TempDir()
	tplDir := filepath.Join(dir, "ocean", "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tplDir, "name.html"),
		[]byte(`{{ define "name" }}Ahoy {{ .Who }}{{ end }}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e := New(baseFS(), theme.New(dir, "ocean"), nil)
	html, err := e.RenderToString("hello", map[string]string{"Who": "Ann"})
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if !strings.Contains(string(html), "Ahoy Ann") {
		t.Fatalf("override not applied: %q", html)
	}
}

func TestRender_CachesParsedSet(t *testing.T) {
	e := New(baseFS(), nil, nil)
	for i := 0; i < 3; i++ {
		if err := e.Execute(&bytes.Buffer{}, "hello", map[string]string{"Who": "x"}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if e.lru.Len() != 1 {
		t.Fatalf("lru len = %d, want 1", e.lru.Len())
	}
	if err := e.Render(&bytes.Buffer{}, "hello", map[string]string{"Who": "x"}, CacheSkip); err != nil {
		t.Fatalf("Render skip: %v", err)
	}
	if e.lru.Len() != 1 {
		t.Fatalf("CacheSkip must not populate the cache")
	}
}

func TestDict(t *testing.T) {
	m := dict("a", 1, "b", "two", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Fatalf("dict = %#v", m)
	}
}
