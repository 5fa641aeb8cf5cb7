// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render.  The navigator seeds the
// title, charset, and stylesheet; the layout template decides where to emit
// each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Link, Script – arbitrary tags, deduplicated by exact text.
//   - Stylesheet         – shorthand for a rel="stylesheet" link.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent writes; one render owns one Builder.
type Builder struct {
	title string

	metas   []string
	links   []string
	scripts []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Tags passed to Meta, Link, and Script are emitted verbatim; callers own
// the escaping.
func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }

// Stylesheet appends <link rel="stylesheet" href="…"> with href escaped.
func (b *Builder) Stylesheet(href string) {
	b.Link(`<link rel="stylesheet" href="` + template.HTMLEscapeString(href) + `">`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
