package media

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/webp"
)

// Extensions is an allow-list of lower-cased, dot-prefixed file extensions.
type Extensions []string

// Matches reports whether filename carries an allowed extension. The
// comparison ignores case.
func (e Extensions) Matches(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range e {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ListImages returns the names of regular files directly inside dir whose
// extension is allowed, sorted in byte order. Hidden files are skipped.
func (e Extensions) ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	photos := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !e.Matches(name) {
			continue
		}
		photos = append(photos, name)
	}
	sort.Strings(photos)
	return photos, nil
}

// WalkImages returns the full paths of every allowed image below root,
// in lexical walk order.
func (e Extensions) WalkImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if e.Matches(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}
