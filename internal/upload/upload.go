// internal/upload/upload.go
//
// Cover-image uploads.
//
// Context
// -------
// A File is the (filename, payload) pair a form holds between submit and
// commit.  Dir writes a File under the configured image directory.  The
// destination is derived only from the base name, so the same file name
// always lands on the same path and a re-upload replaces the old image.
//
// Notes
// -----
// • Browsers on Windows may send a full client path ("C:\pics\a.png");
//   SafeName strips it to "a.png".
// • Writes are open / write / close with the close error checked.  There is
//   no partial-write recovery.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// File is a pending upload.  The zero value means “no file chosen”.
type File struct {
	Name string
	Data []byte
}

// Empty reports whether f carries nothing worth writing.
func (f File) Empty() bool { return f.Name == "" || len(f.Data) == 0 }

// SafeName reduces a client-supplied name to its base name.  It returns ""
// for names that do not denote a file.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(name)
	switch base {
	case ".", "/", "..":
		return ""
	}
	return base
}

// FromRequest reads the multipart file under field.  A missing file part is
// not an error; it yields the zero File.  The caller must have called
// ParseMultipartForm.
func FromRequest(r *http.Request, field string) (File, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return File{}, nil
	}
	if err != nil {
		return File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("read upload %q: %w", hdr.Filename, err)
	}
	return File{Name: SafeName(hdr.Filename), Data: data}, nil
}

// Dir writes uploads below Root.
type Dir struct {
	Root string
}

// Path returns the destination for a given base name.
func (d Dir) Path(name string) string {
	return filepath.Join(d.Root, SafeName(name))
}

// Write stores f and returns the stored base name.
func (d Dir) Write(f File) (string, error) {
	name := SafeName(f.Name)
	if name == "" {
		return "", fmt.Errorf("upload: invalid file name %q", f.Name)
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return "", fmt.Errorf("upload: create dir: %w", err)
	}

	dst := filepath.Join(d.Root, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("upload: create %s: %w", dst, err)
	}
	if _, err := out.Write(f.Data); err != nil {
		out.Close()
		return "", fmt.Errorf("upload: write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("upload: close %s: %w", dst, err)
	}
	return name, nil
}
