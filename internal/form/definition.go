// internal/form/definition.go
//
// YAML form definitions.
//
// Context
//   Each HTML form is declared in a YAML file: its identifier, title, and
//   ordered fields.  Components embed their forms/ directory and hand it to
//   RegisterFS at init time.  Renderer and submission code fetch definitions
//   from the registry by ID, so the field list lives in one place.
//
// Workflow
//   •  ParseFormDef decodes one YAML document and validates structural rules.
//   •  LoadFormDef reads a file from disk and delegates to ParseFormDef.
//   •  RegisterFS walks an fs.FS for “*.yaml” and registers every form.
//   •  GetFormDef offers read-only access to a parsed form by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// ID should be namespaced by component, e.g. “anime/record”.
type FormDef struct {
	ID     string     `yaml:"id"`
	Title  string     `yaml:"title"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control.  Length and pattern values are
// emitted as HTML attributes; server-side rules belong to the domain code.
type FieldDef struct {
	Name        string `yaml:"name"`        // Submission key.  Required.
	Label       string `yaml:"label"`       // Human-readable label.  Required.
	Type        string `yaml:"type"`        // text, textarea, number, file.
	Placeholder string `yaml:"placeholder"` // Optional.
	InputMode   string `yaml:"inputmode"`   // Virtual keyboard hint, optional.
	MaxLength   int    `yaml:"maxlength"`   // 0 means unset.
	Pattern     string `yaml:"pattern"`     // Regex pattern string.
	Accept      string `yaml:"accept"`      // File types, file inputs only.
}

// IsFile reports whether the field carries an upload.
func (f FieldDef) IsFile() bool { return f.Type == "file" }

var fieldTypes = map[string]bool{
	"text":     true,
	"textarea": true,
	"number":   true,
	"file":     true,
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by ID.  The boolean is false when the
// ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// Register inserts or replaces fd.  The caller must have validated it.
func Register(fd *FormDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[fd.ID] = fd
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes raw YAML.  src names the origin in error messages.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFormDef parses one YAML file from disk.  It never touches the registry.
func LoadFormDef(file string) (*FormDef, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", file, err)
	}
	return ParseFormDef(raw, file)
}

// RegisterFS loads every “*.yaml” below root in fsys.  It fails fast on the
// first bad definition so issues surface at start-up.
func RegisterFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(d.Name()) != ".yaml" {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read form file %s: %w", p, err)
		}
		fd, err := ParseFormDef(raw, p)
		if err != nil {
			return err
		}
		Register(fd)
		return nil
	})
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", src)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}
	f.Type = strings.ToLower(f.Type)
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", src, f.Name, f.Type)
	}
	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", src, f.Name, err)
		}
	}
	if f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' maxlength cannot be negative", src, f.Name)
	}
	return nil
}
