package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateGalleryZip archives the files directly inside galleryPath into a new
// zip under archiveSaveDir, so a full-resolution copy exists before images
// are resized in place. Hidden files and subdirectories are skipped.
// Returns the absolute zip path and its size in bytes.
func CreateGalleryZip(galleryPath, archiveSaveDir string, logger *zap.Logger) (string, int64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("zipper")
	galleryPath = filepath.Clean(galleryPath)

	if _, err := os.Stat(galleryPath); os.IsNotExist(err) {
		return "", 0, fmt.Errorf("gallery folder not found: %s", galleryPath)
	} else if err != nil {
		return "", 0, fmt.Errorf("error stating gallery folder %s: %w", galleryPath, err)
	}

	entries, err := os.ReadDir(galleryPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read gallery directory %s: %w", galleryPath, err)
	}

	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create zip save directory %s: %w", archiveSaveDir, err)
	}

	archiveUUID, err := uuid.NewRandom()
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate archive name: %w", err)
	}
	zipFilename := fmt.Sprintf("%s_%s_%s.zip", filepath.Base(galleryPath), time.Now().Format("20060102-150405"), archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create zip file %s: %w", zipFilePath, err)
	}
	zipWriter := zip.NewWriter(zipFile)

	fail := func(err error) (string, int64, error) {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFilePath)
		return "", 0, err
	}

	logger.Info("archiving gallery", zap.String("folder", galleryPath), zap.String("archive", zipFilePath))
	added := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := addFileToZip(zipWriter, filepath.Join(galleryPath, entry.Name()), entry.Name()); err != nil {
			return fail(err)
		}
		added++
	}

	if added == 0 {
		return fail(fmt.Errorf("no files found in gallery folder %s to zip", galleryPath))
	}

	if err := zipWriter.Close(); err != nil {
		return fail(fmt.Errorf("failed to finalize zip writer for %s: %w", zipFilePath, err))
	}
	if err := zipFile.Close(); err != nil {
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("failed to close zip file %s: %w", zipFilePath, err)
	}

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created zip file %s: %w", zipFilePath, err)
	}

	logger.Info("created gallery zip", zap.String("archive", zipFilePath), zap.Int("files", added), zap.Int64("bytes", zipInfo.Size()))
	return zipFilePath, zipInfo.Size(), nil
}

// addFileToZip copies one file into the archive. A file that cannot be
// read fails the whole archive.
func addFileToZip(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for zipping: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build zip header for %s: %w", path, err)
	}
	header.Name = name
	header.Method = zip.Store

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create zip entry for %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s to zip: %w", name, err)
	}
	return nil
}
