package repository

import (
	"sort"

	"github.com/camden-git/galleryprep/models"
)

// SortEntries orders galleries by display title, then by name, comparing
// bytes. This is the only order the registry is ever persisted in.
func SortEntries(entries []models.GalleryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})
}

// IsSorted reports whether entries are already in persisted order.
func IsSorted(entries []models.GalleryEntry) bool {
	return sort.SliceIsSorted(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})
}

func entryLess(a, b models.GalleryEntry) bool {
	ta, tb := a.DisplayTitle(), b.DisplayTitle()
	if ta != tb {
		return ta < tb
	}
	return a.Name < b.Name
}

// DuplicateNames returns every gallery name used by more than one entry,
// with its entry count.
func DuplicateNames(entries []models.GalleryEntry) map[string]int {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Name]++
	}
	dups := make(map[string]int)
	for name, n := range counts {
		if n > 1 {
			dups[name] = n
		}
	}
	return dups
}
