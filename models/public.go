package models

// PublicGallery is one record of the listing document read by the front end.
type PublicGallery struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	CoverPhoto   string   `json:"coverPhoto"`
	Password     string   `json:"password"`
	DownloadLink string   `json:"downloadLink"`
	Photos       []string `json:"photos"`
}

// Listing is the shape of galleries.json.
type Listing struct {
	Galleries []PublicGallery `json:"galleries"`
}

// Secret is the per-gallery value of secrets.json. It is plaintext
// metadata, not a credential store.
type Secret struct {
	Password     string `json:"password"`
	DownloadLink string `json:"downloadLink"`
}

// PublicPayload holds both derived documents. It is regenerated in full on
// every publish.
type PublicPayload struct {
	Listing Listing
	Secrets map[string]Secret
}
