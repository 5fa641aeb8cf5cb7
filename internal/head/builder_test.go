package head

import "testing"

func TestBuilder_TitleEscapedAndDedup(t *testing.T) {
	b := New()
	b.SetTitle("first")
	b.SetTitle("Tom & Jerry")
	if got := b.Title(); got != "<title>Tom &amp; Jerry</title>" {
		t.Fatalf("Title = %q", got)
	}

	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta charset="utf-8">`)
	b.Stylesheet("/static/css/style.css")
	b.Stylesheet("/static/css/style.css")

	if got := b.Metas(); got != `<meta charset="utf-8">` {
		t.Fatalf("Metas = %q", got)
	}
	if got := b.Links(); got != `<link rel="stylesheet" href="/static/css/style.css">` {
		t.Fatalf("Links = %q", got)
	}
	if b.Scripts() != "" {
		t.Fatalf("Scripts should be empty")
	}
}

func TestBuilder_EmptyTitle(t *testing.T) {
	if New().Title() != "" {
		t.Fatalf("empty builder must render no title tag")
	}
}
