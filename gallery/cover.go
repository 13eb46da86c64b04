package gallery

// ResolveCover picks the cover for a gallery from its live photo list. A
// stored cover still present in photos is kept. Otherwise the
// byte-order-first photo is used, or "" when there are no photos.
// fellBack is true when a non-empty stored cover had to be replaced.
func ResolveCover(stored string, photos []string) (cover string, fellBack bool) {
	if stored != "" {
		for _, p := range photos {
			if p == stored {
				return stored, false
			}
		}
	}
	first := ""
	for i, p := range photos {
		if i == 0 || p < first {
			first = p
		}
	}
	return first, stored != ""
}
