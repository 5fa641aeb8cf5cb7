package form

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
)

const testYAML = `
id: test/record
title: Record
fields:
  - name: title
    label: Title
    type: text
    maxlength: 32
  - name: notes
    label: Notes
    type: textarea
  - name: count
    label: Count
    type: text
    inputmode: numeric
  - name: image
    label: Image
    type: file
    accept: image/*
`

func registerTestForm(t *testing.T) {
	t.Helper()
	fsys := fstest.MapFS{"forms/record.yaml": {Data: []byte(testYAML)}}
	if err := RegisterFS(fsys, "forms"); err != nil {
		t.Fatalf("RegisterFS: %v", err)
	}
}

func TestCSRF_RoundTrip(t *testing.T) {
	Configure(bytes.Repeat([]byte("k"), 32))

	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatalf("fresh token rejected")
	}
	tampered := []byte(tok)
	if tampered[5] == 'A' {
		tampered[5] = 'B'
	} else {
		tampered[5] = 'A'
	}
	if VerifyToken(string(tampered)) {
		t.Fatalf("tampered token accepted")
	}
	if VerifyToken("") || VerifyToken("not-base64!") {
		t.Fatalf("garbage accepted")
	}

	Configure(bytes.Repeat([]byte("z"), 32))
	if VerifyToken(tok) {
		t.Fatalf("token verified under a different key")
	}
}

func TestParseFormDef_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing id":  "fields: [{name: a, label: A, type: text}]",
		"no fields":   "id: x",
		"bad type":    "id: x\nfields: [{name: a, label: A, type: radio}]",
		"duplicate":   "id: x\nfields: [{name: a, label: A, type: text}, {name: a, label: B, type: text}]",
		"no label":    "id: x\nfields: [{name: a, type: text}]",
		"bad pattern": "id: x\nfields: [{name: a, label: A, type: text, pattern: '('}]",
	}
	for name, src := range cases {
		if _, err := ParseFormDef([]byte(src), name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRenderFields_Prefill(t *testing.T) {
	registerTestForm(t)

	out, err := RenderFields("test/record", map[string]string{
		"title": `Tom & "Jerry"`,
		"notes": "<b>hi</b>",
		"image": "ignored.png",
	})
	if err != nil {
		t.Fatalf("RenderFields: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`value="Tom &amp; &#34;Jerry&#34;"`,
		`maxlength="32"`,
		`&lt;b&gt;hi&lt;/b&gt;</textarea>`,
		`inputmode="numeric"`,
		`type="file" accept="image/*">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "ignored.png") {
		t.Errorf("file input must not be pre-filled")
	}

	lead, err := RenderFields("test/record", map[string]string{"notes": "\nsecond line"})
	if err != nil {
		t.Fatalf("RenderFields: %v", err)
	}
	if !strings.Contains(string(lead), ">\n\nsecond line</textarea>") {
		t.Errorf("leading newline not preserved\n%s", lead)
	}

	if _, err := RenderFields("nope", nil); err == nil {
		t.Fatalf("unknown form should error")
	}
}

func TestParse_Multipart(t *testing.T) {
	Configure(bytes.Repeat([]byte("k"), 32))
	registerTestForm(t)
	tok, _ := GenerateToken()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField(TokenField, tok)
	mw.WriteField("title", "Naruto")
	mw.WriteField("count", "")
	mw.WriteField("action", "save")
	mw.WriteField("unknown", "dropped")
	fw, _ := mw.CreateFormFile("image", "n.png")
	fw.Write([]byte("png"))
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	sub, err := Parse("test/record", r, 1<<20)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sub.Action != "save" {
		t.Errorf("action = %q", sub.Action)
	}
	if sub.Values["title"] != "Naruto" {
		t.Errorf("title = %q", sub.Values["title"])
	}
	if v, ok := sub.Values["count"]; !ok || v != "" {
		t.Errorf("count should be present and empty, got %q %v", v, ok)
	}
	if _, ok := sub.Values["notes"]; ok {
		t.Errorf("notes was not sent")
	}
	if _, ok := sub.Values["unknown"]; ok {
		t.Errorf("undeclared field leaked")
	}
	if f := sub.Files["image"]; f.Name != "n.png" || string(f.Data) != "png" {
		t.Errorf("image = %+v", f)
	}
}

func TestVerifyRequest_BadToken(t *testing.T) {
	Configure(bytes.Repeat([]byte("k"), 32))

	form := url.Values{TokenField: {"bogus"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := VerifyRequest(r, 1<<20); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
