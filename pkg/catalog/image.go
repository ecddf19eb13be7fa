package catalog

import "strings"

// DefaultPlaceholderImage is served whenever a record has no image reference
// or the resolved image fails to load in the consuming UI.
const DefaultPlaceholderImage = "https://via.placeholder.com/400x400?text=No+Image"

// ImageResolver maps an image reference to a full URL by concatenating it
// with a configured base. An empty reference resolves to the placeholder.
type ImageResolver struct {
	// BaseURL is the image storage endpoint, without trailing slash.
	BaseURL string

	// Placeholder is the URL substituted for empty references.
	// Empty means DefaultPlaceholderImage.
	Placeholder string
}

// URL resolves an image reference to a URL.
func (r ImageResolver) URL(imageRef string) string {
	if imageRef == "" {
		return r.placeholder()
	}
	return strings.TrimSuffix(r.BaseURL, "/") + "/" + imageRef
}

func (r ImageResolver) placeholder() string {
	if r.Placeholder != "" {
		return r.Placeholder
	}
	return DefaultPlaceholderImage
}
