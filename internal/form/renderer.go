// internal/form/renderer.go
//
// HTML renderer for form definitions.
//
// Context
//   Given a registered FormDef this file turns its fields into plain,
//   accessible markup.  The surrounding <form> element, buttons, and error
//   banner belong to the page template; the renderer only writes the field
//   blocks and the CSRF hidden input.
//
// Workflow
//   •  RenderFields looks up the FormDef and writes each field via writeField,
//      pre-filling values from the supplied map.
//   •  CSRFField returns the hidden token input for any POST form.
//   •  Funcs exposes both as template functions (“formFields”, “csrfField”).
//
// Style
//   Each input gets id="fld-{name}" and is wrapped in <div class="form-field">
//   so themes can style by class hook.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// TokenField is the name of the hidden CSRF input.
const TokenField = "csrf_token"

// RenderFields returns the markup for every field of formID in definition
// order.  File inputs are never pre-filled.
func RenderFields(formID string, prefill map[string]string) (template.HTML, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return "", fmt.Errorf("RenderFields: unknown form %q", formID)
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="catalog-form">` + "\n")
	for i := range fd.Fields {
		writeField(&buf, &fd.Fields[i], prefill[fd.Fields[i].Name])
	}
	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// CSRFField returns a hidden input carrying a fresh token.
func CSRFField() (template.HTML, error) {
	tok, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("csrf token: %w", err)
	}
	return template.HTML(`<input type="hidden" name="` + TokenField + `" value="` + tok + `">`), nil
}

// Funcs returns template helpers for view.New.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formFields": RenderFields,
		"csrfField":  CSRFField,
	}
}

func writeField(buf *bytes.Buffer, f *FieldDef, val string) {
	name := html.EscapeString(f.Name)
	id := "fld-" + name

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	switch f.Type {
	case "textarea":
		buf.WriteString(`<textarea id="` + id + `" name="` + name + `"`)
		writeCommonAttrs(buf, f)
		// The parser drops one newline right after the start tag.
		buf.WriteString(">\n" + html.EscapeString(val) + `</textarea>` + "\n")

	case "file":
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="file"`)
		if f.Accept != "" {
			buf.WriteString(` accept="` + html.EscapeString(f.Accept) + `"`)
		}
		buf.WriteString(`>` + "\n")

	default: // text, number
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + f.Type + `"`)
		writeCommonAttrs(buf, f)
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")
	}

	buf.WriteString(`</div>` + "\n")
}

func writeCommonAttrs(buf *bytes.Buffer, f *FieldDef) {
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.InputMode != "" {
		buf.WriteString(` inputmode="` + html.EscapeString(f.InputMode) + `"`)
	}
	if f.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
	}
	if f.Pattern != "" {
		buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
	}
}
