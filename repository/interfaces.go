package repository

import "github.com/camden-git/galleryprep/models"

// RegistryStore is the durable home of the gallery registry.
type RegistryStore interface {
	Load() (models.Registry, error)
	Save(reg models.Registry) error
	Path() string
}

var _ RegistryStore = (*RegistryRepository)(nil)
