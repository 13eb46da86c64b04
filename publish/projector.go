// Package publish derives the documents the front end reads from the
// gallery registry and the live image folders.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/camden-git/galleryprep/gallery"
	"github.com/camden-git/galleryprep/manifest"
	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/storage"
	"go.uber.org/zap"
)

// Projector builds and writes the public payload.
type Projector struct {
	imagesRoot  string
	listingPath string
	secretsPath string
	photos      *manifest.Builder
	logger      *zap.Logger
}

func NewProjector(imagesRoot, listingPath, secretsPath string, photos *manifest.Builder, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		imagesRoot:  imagesRoot,
		listingPath: listingPath,
		secretsPath: secretsPath,
		photos:      photos,
		logger:      logger.Named("publish"),
	}
}

// Project reads every gallery folder fresh and returns the payload. A
// missing folder yields an entry with no photos and an empty cover; the
// entry is never dropped.
func (p *Projector) Project(reg models.Registry) (models.PublicPayload, error) {
	payload := models.PublicPayload{
		Listing: models.Listing{Galleries: make([]models.PublicGallery, 0, len(reg.Galleries))},
		Secrets: make(map[string]models.Secret, len(reg.Galleries)),
	}

	for _, entry := range reg.Galleries {
		folder := filepath.Join(p.imagesRoot, entry.FolderName())
		photos, err := p.livePhotos(entry, folder)
		if err != nil {
			return models.PublicPayload{}, err
		}

		cover, fellBack := gallery.ResolveCover(entry.Cover, photos)
		if fellBack {
			p.logger.Warn("cover not found in gallery folder, using fallback",
				zap.String("gallery", entry.Name),
				zap.String("stored_cover", entry.Cover),
				zap.String("fallback", cover),
				zap.String("folder", folder))
		}

		payload.Listing.Galleries = append(payload.Listing.Galleries, models.PublicGallery{
			Name:         entry.Name,
			Title:        entry.DisplayTitle(),
			CoverPhoto:   cover,
			Password:     entry.Password,
			DownloadLink: entry.DownloadLink,
			Photos:       photos,
		})
		payload.Secrets[entry.Name] = models.Secret{
			Password:     entry.Password,
			DownloadLink: entry.DownloadLink,
		}
	}
	return payload, nil
}

func (p *Projector) livePhotos(entry models.GalleryEntry, folder string) ([]string, error) {
	if err := gallery.ValidateName(entry.FolderName()); err != nil {
		p.logger.Warn("gallery folder is not a plain folder name, publishing with no photos",
			zap.String("gallery", entry.Name), zap.String("folder", entry.FolderName()), zap.Error(err))
		return []string{}, nil
	}
	info, err := os.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Warn("gallery folder missing, publishing with no photos",
				zap.String("gallery", entry.Name), zap.String("folder", folder))
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to stat gallery folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		p.logger.Warn("gallery folder is not a directory, publishing with no photos",
			zap.String("gallery", entry.Name), zap.String("folder", folder))
		return []string{}, nil
	}
	photos, err := p.photos.Photos(folder)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		p.logger.Warn("gallery has no photos", zap.String("gallery", entry.Name), zap.String("folder", folder))
	}
	return photos, nil
}

// Write saves the listing and the secrets document as two independent
// atomic replacements.
func (p *Projector) Write(payload models.PublicPayload) error {
	if err := writeJSON(p.listingPath, payload.Listing, p.logger); err != nil {
		return fmt.Errorf("failed to write gallery listing: %w", err)
	}
	secrets := payload.Secrets
	if secrets == nil {
		secrets = map[string]models.Secret{}
	}
	if err := writeJSON(p.secretsPath, secrets, p.logger); err != nil {
		return fmt.Errorf("failed to write secrets: %w", err)
	}
	return nil
}

// Publish projects reg and writes both documents.
func (p *Projector) Publish(reg models.Registry) (models.PublicPayload, error) {
	payload, err := p.Project(reg)
	if err != nil {
		return models.PublicPayload{}, err
	}
	if err := p.Write(payload); err != nil {
		return payload, err
	}
	p.logger.Info("published galleries",
		zap.Int("galleries", len(payload.Listing.Galleries)),
		zap.String("listing", p.listingPath),
		zap.String("secrets", p.secretsPath))
	return payload, nil
}

// ListingPath is where the gallery listing is written.
func (p *Projector) ListingPath() string { return p.listingPath }

// SecretsPath is where the secrets document is written.
func (p *Projector) SecretsPath() string { return p.secretsPath }

func writeJSON(path string, v interface{}, logger *zap.Logger) error {
	store, err := storage.NewLocalStorage(filepath.Dir(path), logger)
	if err != nil {
		return err
	}
	_, err = store.SaveJSON(filepath.Base(path), v)
	return err
}
