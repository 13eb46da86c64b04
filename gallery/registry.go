package gallery

import (
	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/repository"
)

// Upsert returns a copy of reg with entry replacing every entry of the same
// name, or appended when there is none, then re-sorted into persisted
// order. The result holds exactly one entry named entry.Name. reg is not
// modified.
func Upsert(reg models.Registry, entry models.GalleryEntry) models.Registry {
	out := reg.Clone()
	galleries := make([]models.GalleryEntry, 0, len(out.Galleries)+1)
	for _, g := range out.Galleries {
		if g.Name != entry.Name {
			galleries = append(galleries, g)
		}
	}
	out.Galleries = append(galleries, entry.Clone())
	repository.SortEntries(out.Galleries)
	return out
}
