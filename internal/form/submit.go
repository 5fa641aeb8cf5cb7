// internal/form/submit.go
//
// Submission parsing.
//
// Context
//   Handlers want one call that parses a POST body, checks the CSRF token,
//   and returns the values for the fields a form declares.  Parse does that
//   and leaves domain validation to the caller.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yanizio/anime-catalog/internal/upload"
)

// ErrInvalidToken is returned when the CSRF token is missing or bad.
var ErrInvalidToken = errors.New("form: invalid csrf token")

// Submission is the decoded body of a POST.
type Submission struct {
	// Values holds text fields that were present in the body.  Absent fields
	// are omitted so callers can tell “not sent” from “sent empty”.
	Values map[string]string
	// Files holds file fields keyed by field name.  Missing parts are zero.
	Files map[string]upload.File
	// Action is the value of the submit button named “action”.
	Action string
}

// VerifyRequest parses a urlencoded or multipart body and checks the token.
func VerifyRequest(r *http.Request, maxMemory int64) error {
	if err := parseBody(r, maxMemory); err != nil {
		return err
	}
	if !VerifyToken(r.PostFormValue(TokenField)) {
		return ErrInvalidToken
	}
	return nil
}

// Parse verifies r and decodes the fields of formID.
func Parse(formID string, r *http.Request, maxMemory int64) (*Submission, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return nil, fmt.Errorf("Parse: unknown form %q", formID)
	}
	if err := VerifyRequest(r, maxMemory); err != nil {
		return nil, err
	}

	sub := &Submission{
		Values: make(map[string]string, len(fd.Fields)),
		Files:  make(map[string]upload.File),
		Action: r.PostForm.Get("action"),
	}
	for _, f := range fd.Fields {
		if f.IsFile() {
			file, err := upload.FromRequest(r, f.Name)
			if err != nil {
				return nil, err
			}
			sub.Files[f.Name] = file
			continue
		}
		if vs, ok := r.PostForm[f.Name]; ok && len(vs) > 0 {
			sub.Values[f.Name] = vs[0]
		}
	}
	return sub, nil
}

func parseBody(r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}
