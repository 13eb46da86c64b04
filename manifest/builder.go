// Package manifest writes the per-gallery list of photo file names that the
// front end reads to render a gallery.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/camden-git/galleryprep/media"
	"github.com/camden-git/galleryprep/storage"
	"go.uber.org/zap"
)

// Builder lists gallery photos and writes manifests. The byte-order sort
// it produces is the same order used to pick a default cover.
type Builder struct {
	exts         media.Extensions
	manifestName string
	logger       *zap.Logger
}

func NewBuilder(exts media.Extensions, manifestName string, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{exts: exts, manifestName: manifestName, logger: logger.Named("manifest")}
}

// ManifestName is the file name written inside each gallery folder.
func (b *Builder) ManifestName() string {
	return b.manifestName
}

// Photos returns the sorted photo list of folder without writing anything.
func (b *Builder) Photos(folder string) ([]string, error) {
	photos, err := b.exts.ListImages(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos in %s: %w", folder, err)
	}
	return photos, nil
}

// Build lists folder, writes the manifest inside it, and returns the list.
func (b *Builder) Build(folder string) ([]string, error) {
	photos, err := b.Photos(folder)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewLocalStorage(folder, b.logger)
	if err != nil {
		return nil, err
	}
	path, err := store.SaveJSON(b.manifestName, photos)
	if err != nil {
		return nil, fmt.Errorf("failed to write manifest for %s: %w", folder, err)
	}
	b.logger.Info("wrote manifest", zap.String("path", path), zap.Int("images", len(photos)))
	return photos, nil
}

// BuildAll writes a manifest for every gallery folder directly under root.
// The first failure stops the run.
func (b *Builder) BuildAll(root string) (map[string][]string, error) {
	folders, err := GalleryFolders(root)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(folders))
	for _, name := range folders {
		photos, err := b.Build(filepath.Join(root, name))
		if err != nil {
			return out, err
		}
		out[name] = photos
	}
	return out, nil
}

// GalleryFolders returns the visible subdirectories of root in byte order.
// A missing root yields no folders.
func GalleryFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read images root %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
