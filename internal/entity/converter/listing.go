package converter

import (
	"strings"

	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
)

// ListingToDTO converts a db.Listing, resolving its image against publicBase.
func ListingToDTO(l *db.Listing, publicBase string) dto.Listing {
	if l == nil {
		return dto.Listing{}
	}
	return dto.Listing{
		ID:          l.ID,
		Kind:        l.Kind,
		Name:        l.Name,
		Description: l.Description,
		Location:    l.Location,
		Price:       l.Price,
		ImageURL:    PublicURL(publicBase, l.ImagePath),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ListingsToDTOs converts a slice of db.Listing.
func ListingsToDTOs(listings []db.Listing, publicBase string) []dto.Listing {
	out := make([]dto.Listing, len(listings))
	for i := range listings {
		out[i] = ListingToDTO(&listings[i], publicBase)
	}
	return out
}

// PublicURL joins a storage key onto the public base path or URL.
func PublicURL(publicBase, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return strings.TrimRight(publicBase, "/") + "/" + key
}
