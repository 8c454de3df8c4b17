package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tourism/internal/apperr"
	"tourism/internal/entity"
	"tourism/internal/entity/converter"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
	"tourism/internal/model"
	"tourism/internal/observability"
	"tourism/internal/storage"

	"github.com/sirupsen/logrus"
)

// MaxImageSize bounds listing image uploads.
const MaxImageSize = 10 << 20

// ErrListingConflict is returned when a listing write violates a unique index.
var ErrListingConflict = apperr.Conflict("listing conflicts with an existing entry")

// ListingService 目录条目服务（酒店、景点、目的地）
type ListingService struct {
	repo       model.Repository
	storage    storage.Storage
	publicBase string
	metrics    *observability.Metrics
}

// NewListingService 创建目录条目服务实例
func NewListingService(repo model.Repository, store storage.Storage, publicBase string, metrics *observability.Metrics) *ListingService {
	return &ListingService{
		repo:       repo,
		storage:    store,
		publicBase: publicBase,
		metrics:    metrics,
	}
}

// ListListings returns a page of the public catalog.
func (s *ListingService) ListListings(ctx context.Context, query dto.ListingQuery) (*dto.ListingListResponse, error) {
	query.Normalize()
	query.Kind = strings.ToLower(strings.TrimSpace(query.Kind))
	if query.Kind != "" && !db.IsListingKind(query.Kind) {
		return nil, apperr.Validation("unknown listing kind")
	}
	query.Keyword = strings.TrimSpace(query.Keyword)

	listings, meta, err := s.repo.ListListings(ctx, &query)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return &dto.ListingListResponse{
		Listings: converter.ListingsToDTOs(listings, s.publicBase),
		Meta:     meta,
	}, nil
}

func (s *ListingService) GetListing(ctx context.Context, id string) (*dto.Listing, error) {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}
	out := converter.ListingToDTO(listing, s.publicBase)
	return &out, nil
}

// CreateListing stores a new catalog entry owned by createdBy.
func (s *ListingService) CreateListing(ctx context.Context, createdBy string, req dto.ListingCreateRequest) (*dto.Listing, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if !db.IsListingKind(kind) {
		return nil, apperr.Validation("kind must be hotel, site or destination")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	listing := &db.Listing{
		Kind:        kind,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Price:       strings.TrimSpace(req.Price),
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, translateStoreError(err, "listing not found", ErrListingConflict)
	}

	logrus.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"kind":       listing.Kind,
		"created_by": createdBy,
	}).Info("listing created")

	out := converter.ListingToDTO(listing, s.publicBase)
	return &out, nil
}

// UpdateListing applies a partial update.
func (s *ListingService) UpdateListing(ctx context.Context, id string, req dto.ListingUpdateRequest) (*dto.Listing, error) {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := entity.ListingUpdates{
		Description: trimmedPtr(req.Description),
		Location:    trimmedPtr(req.Location),
		Price:       trimmedPtr(req.Price),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		updates.Name = &name
	}
	if updates.IsEmpty() {
		out := converter.ListingToDTO(listing, s.publicBase)
		return &out, nil
	}

	if err := s.repo.UpdateListing(ctx, listing.ID, updates); err != nil {
		return nil, translateStoreError(err, "listing not found", ErrListingConflict)
	}
	return s.GetListing(ctx, listing.ID)
}

// DeleteListing removes the entry and, best effort, its stored image.
func (s *ListingService) DeleteListing(ctx context.Context, id string) error {
	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteListing(ctx, listing.ID); err != nil {
		return translateStoreError(err, "listing not found", ErrListingConflict)
	}
	s.removeImage(ctx, listing.ID, listing.ImagePath)
	return nil
}

// UploadImage stores data as the listing's image, replacing any previous one.
func (s *ListingService) UploadImage(ctx context.Context, id string, data []byte, contentType string) (*dto.Listing, error) {
	if s.storage == nil {
		return nil, apperr.Unavailable(fmt.Errorf("storage is not configured"))
	}
	if len(data) == 0 {
		return nil, apperr.Validation("image file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, apperr.Validation("image file is too large")
	}
	ext, ok := storage.ExtensionFromContentType(contentType)
	if !ok {
		ext, ok = storage.ExtensionFromContentType(http.DetectContentType(data))
	}
	if !ok {
		return nil, apperr.Validation("unsupported image type")
	}

	listing, err := s.loadListing(ctx, id)
	if err != nil {
		return nil, err
	}

	saveCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	key, err := s.storage.Save(saveCtx, data, storage.SaveOptions{
		Category:     storage.CategoryListings,
		Extension:    ext,
		BaseName:     imageBaseName(listing.ID, data),
		SkipIfExists: true,
		CacheControl: storage.ImmutableCacheControl,
	})
	s.metrics.ObserveStorage("save", err)
	if err != nil {
		logrus.WithError(err).WithField("listing_id", listing.ID).Error("failed to store listing image")
		return nil, apperr.Unavailable(err)
	}

	if err := s.repo.UpdateListing(ctx, listing.ID, entity.ListingUpdates{ImagePath: &key}); err != nil {
		return nil, translateStoreError(err, "listing not found", ErrListingConflict)
	}
	if listing.ImagePath != "" && listing.ImagePath != key {
		s.removeImage(ctx, listing.ID, listing.ImagePath)
	}
	return s.GetListing(ctx, listing.ID)
}

func (s *ListingService) removeImage(ctx context.Context, listingID, key string) {
	if s.storage == nil || strings.TrimSpace(key) == "" {
		return
	}
	err := s.storage.Delete(ctx, key)
	s.metrics.ObserveStorage("delete", err)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"listing_id": listingID,
			"key":        key,
		}).Warn("failed to delete listing image")
	}
}

func (s *ListingService) loadListing(ctx context.Context, id string) (*db.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("listing id is required")
	}
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "listing not found", ErrListingConflict)
	}
	return listing, nil
}

// imageBaseName derives a stable object name, so re-uploading the same bytes
// for the same listing resolves to the existing object.
func imageBaseName(listingID string, data []byte) string {
	sum := md5.Sum(data)
	return storage.ObjectBaseName(listingID, hex.EncodeToString(sum[:8]))
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
