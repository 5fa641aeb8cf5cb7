// fs.go holds a tiny helper for walking a template tree, because
// template.ParseFS patterns do not support “**/*.html”.  CollectHTML works
// on any fs.FS, so the embedded defaults and an on-disk theme override
// (os.DirFS) go through the same code path.
package theme

import (
	"io/fs"
	"sort"
	"strings"
)

// CollectHTML walks fsys recursively and returns every *.html path, sorted
// so parse order (and thus override order) is deterministic.
//
// Callers typically pass the result straight to ParseFS:
//
//	files, _ := theme.CollectHTML(os.DirFS(dir))
//	tpl.ParseFS(os.DirFS(dir), files...)
func CollectHTML(fsys fs.FS) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
