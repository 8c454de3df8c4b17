package sql

import (
	"context"
	"fmt"
	"strings"

	"tourism/internal/entity"
	"tourism/internal/entity/common"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"

	"gorm.io/gorm"
)

// CreateListing inserts a new catalog entry.
func (r *GormRepository) CreateListing(ctx context.Context, listing *db.Listing) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if listing == nil {
		return fmt.Errorf("listing is nil")
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

// UpdateListing updates listing fields.
func (r *GormRepository) UpdateListing(ctx context.Context, id string, updates entity.ListingUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid listing id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Listing{}).Where("id = ?", id).Updates(values).Error
}

// GetListing loads a listing by ID.
func (r *GormRepository) GetListing(ctx context.Context, id string) (*db.Listing, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var listing db.Listing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListings returns a page of catalog entries ordered by name.
func (r *GormRepository) ListListings(ctx context.Context, params *dto.ListingQuery) ([]db.Listing, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&db.Listing{})
	var base common.BaseParams
	if params != nil {
		base = params.BaseParams
		if kind := strings.TrimSpace(params.Kind); kind != "" {
			query = query.Where("kind = ?", kind)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := pageWindow(base)

	var listings []db.Listing
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&listings).Error; err != nil {
		return nil, nil, err
	}
	return listings, r.calculatePagination(total, page, pageSize), nil
}

// DeleteListing removes a listing.
func (r *GormRepository) DeleteListing(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Listing{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
