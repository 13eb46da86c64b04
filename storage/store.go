package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store defines saving and deleting files below a base directory. Save
// must never leave a partially written target behind.
type Store interface {
	// Save writes data to relativePath, replacing any existing file
	// atomically. returns the absolute path written.
	Save(relativePath string, data io.Reader) (string, error)
	// Delete removes the file; a missing file is not an error
	Delete(relativePath string) error
	// GetFullPath returns the absolute path for relativePath after the
	// containment check
	GetFullPath(relativePath string) (string, error)
}

var _ Store = (*LocalStorage)(nil)

// ErrOutsideBase is returned for paths that resolve outside the store.
var ErrOutsideBase = errors.New("path outside storage base")

// LocalStorage implements Store on the local filesystem.
type LocalStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalStorage creates a store rooted at basePath. The directory is
// created if needed.
func NewLocalStorage(basePath string, logger *zap.Logger) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStorage{basePath: absBasePath, logger: logger.Named("storage")}, nil
}

// BasePath returns the absolute root of the store.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save stages data in a sibling temp file and renames it over the target.
func (ls *LocalStorage) Save(relativePath string, data io.Reader) (string, error) {
	fullSavePath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return "", err
	}
	if fullSavePath == ls.basePath {
		return "", fmt.Errorf("cannot save over the storage root")
	}
	if err := WriteAtomic(fullSavePath, data); err != nil {
		return "", err
	}
	ls.logger.Debug("saved file", zap.String("path", fullSavePath))
	return fullSavePath, nil
}

// SaveJSON encodes v with two-space indentation and saves it.
func (ls *LocalStorage) SaveJSON(relativePath string, v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", relativePath, err)
	}
	return ls.Save(relativePath, &buf)
}

// Delete removes a file
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete '%s': %w", relativePath, err)
	}
	if err == nil {
		ls.logger.Debug("deleted file", zap.String("path", fullPath))
	}
	return nil
}

// GetFullPath resolves relativePath (or an absolute path inside the base)
// and rejects anything outside the base directory.
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	var fullPath string
	if filepath.IsAbs(relativePath) {
		fullPath = filepath.Clean(relativePath)
	} else {
		fullPath = filepath.Join(ls.basePath, filepath.Clean(relativePath))
	}

	if fullPath != ls.basePath && !strings.HasPrefix(fullPath, ls.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path '%s': %w", relativePath, ErrOutsideBase)
	}
	return fullPath, nil
}

// WriteAtomic writes data to path through a uniquely named staging file in
// the same directory followed by a rename, so readers see either the old
// or the new content. Parent directories are created.
func WriteAtomic(path string, data io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	stageID, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("failed to generate staging name for '%s': %w", path, err)
	}
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+stageID.String()+".tmp")

	tf, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create staging file for '%s': %w", path, err)
	}
	var defuse bool
	defer func() {
		if !defuse {
			tf.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tf, data); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := tf.Sync(); err != nil {
		return fmt.Errorf("failed to sync '%s': %w", path, err)
	}
	if err := tf.Close(); err != nil {
		return fmt.Errorf("failed to close staging file for '%s': %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		defuse = true
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	defuse = true
	return nil
}

// IsStagingFile reports whether name looks like a WriteAtomic leftover.
func IsStagingFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}
