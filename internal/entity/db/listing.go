package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ListingKindHotel       = "hotel"
	ListingKindSite        = "site"
	ListingKindDestination = "destination"
)

// Listing 表示目录中的酒店、景点或目的地。
type Listing struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Kind        string    `gorm:"column:kind;type:varchar(32);index;not null" json:"kind"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Location    string    `gorm:"column:location;type:varchar(255)" json:"location"`
	Price       string    `gorm:"column:price;type:varchar(64)" json:"price"`
	ImagePath   string    `gorm:"column:image_path;type:varchar(512)" json:"image_path"`
	CreatedBy   string    `gorm:"column:created_by;type:varchar(36);index" json:"created_by"`
}

// TableName 指定表名
func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// IsListingKind reports whether kind is one of the catalog kinds.
func IsListingKind(kind string) bool {
	switch kind {
	case ListingKindHotel, ListingKindSite, ListingKindDestination:
		return true
	default:
		return false
	}
}
