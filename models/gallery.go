package models

// GalleryEntry is one published gallery in the registry. Name is the unique
// key; Folder is the directory under the images root holding its photos.
type GalleryEntry struct {
	Name         string `yaml:"name" json:"name"`
	Folder       string `yaml:"folder" json:"folder"`
	Title        string `yaml:"title" json:"title"`
	Cover        string `yaml:"cover" json:"cover"`
	Password     string `yaml:"password" json:"password"`
	DownloadLink string `yaml:"download_link" json:"downloadLink"`

	// Extra keeps fields this tool does not know about so they survive a
	// load/save cycle.
	Extra map[string]interface{} `yaml:",inline" json:"-"`
}

// DisplayTitle is the title used for ordering and listings.
func (e GalleryEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Name
}

// FolderName is the gallery directory, defaulting to the name.
func (e GalleryEntry) FolderName() string {
	if e.Folder != "" {
		return e.Folder
	}
	return e.Name
}

// Clone returns a copy that shares no mutable state with e.
func (e GalleryEntry) Clone() GalleryEntry {
	out := e
	if e.Extra != nil {
		out.Extra = make(map[string]interface{}, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Registry is the durable, ordered list of galleries.
type Registry struct {
	Galleries []GalleryEntry `yaml:"galleries"`

	Extra map[string]interface{} `yaml:",inline"`
}

// Find returns the index of the entry named name, or -1.
func (r *Registry) Find(name string) int {
	for i := range r.Galleries {
		if r.Galleries[i].Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep enough copy for independent mutation of entries.
func (r Registry) Clone() Registry {
	out := Registry{Extra: r.Extra}
	if r.Galleries != nil {
		out.Galleries = make([]GalleryEntry, len(r.Galleries))
		for i, g := range r.Galleries {
			out.Galleries[i] = g.Clone()
		}
	}
	return out
}
