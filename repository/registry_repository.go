package repository

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RegistryRepository loads and saves the gallery registry document.
type RegistryRepository struct {
	path   string
	logger *zap.Logger
}

// NewRegistryRepository creates a repository for the document at path.
func NewRegistryRepository(path string, logger *zap.Logger) *RegistryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryRepository{path: path, logger: logger.Named("registry")}
}

// Path returns the registry document location.
func (r *RegistryRepository) Path() string {
	return r.path
}

// Load reads the registry. A missing document is an empty registry.
func (r *RegistryRepository) Load() (models.Registry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Info("no registry yet, starting empty", zap.String("path", r.path))
			return models.Registry{Galleries: []models.GalleryEntry{}}, nil
		}
		return models.Registry{}, fmt.Errorf("failed to read registry %s: %w", r.path, err)
	}

	var reg models.Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return models.Registry{}, fmt.Errorf("failed to parse registry %s: %w", r.path, err)
	}
	if reg.Galleries == nil {
		reg.Galleries = []models.GalleryEntry{}
	}
	for name, count := range DuplicateNames(reg.Galleries) {
		r.logger.Warn("registry lists a gallery name more than once; the next save of that gallery keeps one entry",
			zap.String("path", r.path), zap.String("name", name), zap.Int("entries", count))
	}
	r.logger.Debug("loaded registry", zap.String("path", r.path), zap.Int("galleries", len(reg.Galleries)))
	return reg, nil
}

// Save sorts the registry into its canonical order and replaces the
// document atomically. Parent directories are created.
func (r *RegistryRepository) Save(reg models.Registry) error {
	sorted := reg.Clone()
	SortEntries(sorted.Galleries)
	if sorted.Galleries == nil {
		sorted.Galleries = []models.GalleryEntry{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&sorted); err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := storage.WriteAtomic(r.path, &buf); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	r.logger.Info("saved registry", zap.String("path", r.path), zap.Int("galleries", len(sorted.Galleries)))
	return nil
}
