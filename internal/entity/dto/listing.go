package dto

import (
	"time"

	"tourism/internal/entity/common"
)

// Listing is the DTO representation of a catalog entry.
type Listing struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Price       string    `json:"price,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListingQuery filters the public catalog.
type ListingQuery struct {
	common.BaseParams
	Kind    string `json:"kind" form:"kind" query:"kind"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

// ListingCreateRequest is the payload for creating a listing.
type ListingCreateRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Price       string `json:"price"`
}

// ListingUpdateRequest is the payload for updating a listing.
type ListingUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Price       *string `json:"price,omitempty"`
}

// ListingListResponse is the response for listing catalog entries.
type ListingListResponse struct {
	Listings []Listing    `json:"listings"`
	Meta     *common.Meta `json:"meta"`
}
