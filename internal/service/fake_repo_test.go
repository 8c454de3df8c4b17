package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tourism/internal/entity"
	"tourism/internal/entity/common"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
	"tourism/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryRepository is an in-memory model.Repository with the same error
// contract as the gorm implementation.
type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]db.Account
	listings map[string]db.Listing
	failWith error
}

var _ model.Repository = (*memoryRepository)(nil)

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		accounts: make(map[string]db.Account),
		listings: make(map[string]db.Listing),
	}
}

func (r *memoryRepository) CreateAccount(_ context.Context, account *db.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	for _, existing := range r.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt, account.UpdatedAt = now, now
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryRepository) UpdateAccount(_ context.Context, id string, updates entity.AccountUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	account, ok := r.accounts[id]
	if !ok {
		return nil
	}
	if updates.Username != nil {
		account.Username = *updates.Username
	}
	if updates.Email != nil {
		account.Email = strings.ToLower(strings.TrimSpace(*updates.Email))
	}
	for otherID, other := range r.accounts {
		if otherID != id && (other.Email == account.Email || other.Username == account.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	if updates.PasswordHash != nil {
		account.PasswordHash = *updates.PasswordHash
	}
	if updates.Role != nil {
		account.Role = *updates.Role
	}
	if updates.IsActive != nil {
		account.IsActive = *updates.IsActive
	}
	if updates.EmailVerified != nil {
		account.EmailVerified = *updates.EmailVerified
	}
	account.UpdatedAt = time.Now()
	r.accounts[id] = account
	return nil
}

func (r *memoryRepository) GetAccountByEmail(_ context.Context, email string) (*db.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.findAccount(func(a db.Account) bool { return a.Email == email })
}

func (r *memoryRepository) GetAccountByUsername(_ context.Context, username string) (*db.Account, error) {
	username = strings.TrimSpace(username)
	return r.findAccount(func(a db.Account) bool { return a.Username == username })
}

func (r *memoryRepository) GetAccountByID(_ context.Context, id string) (*db.Account, error) {
	return r.findAccount(func(a db.Account) bool { return a.ID == id })
}

func (r *memoryRepository) findAccount(match func(db.Account) bool) (*db.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, account := range r.accounts {
		if match(account) {
			found := account
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) ListAccounts(_ context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, nil, r.failWith
	}
	params.Normalize()
	keyword := strings.ToLower(params.Keyword)
	var matched []db.Account
	for _, account := range r.accounts {
		if params.Role != "" && account.Role != params.Role {
			continue
		}
		if keyword != "" && !strings.Contains(account.Email, keyword) && !strings.Contains(strings.ToLower(account.Username), keyword) {
			continue
		}
		matched = append(matched, account)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	meta := &common.Meta{Page: params.Page, PageSize: params.PageSize, Total: int64(len(matched))}
	start := (params.Page - 1) * params.PageSize
	if start >= int64(len(matched)) {
		return []db.Account{}, meta, nil
	}
	end := start + params.PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end], meta, nil
}

func (r *memoryRepository) DeleteAccount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memoryRepository) CountAccountsByRole(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	counts := make(map[string]int64)
	for _, account := range r.accounts {
		counts[account.Role]++
	}
	return counts, nil
}

func (r *memoryRepository) CreateListing(_ context.Context, listing *db.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	r.listings[listing.ID] = *listing
	return nil
}

func (r *memoryRepository) UpdateListing(_ context.Context, id string, updates entity.ListingUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	listing, ok := r.listings[id]
	if !ok {
		return nil
	}
	if updates.Name != nil {
		listing.Name = *updates.Name
	}
	if updates.Description != nil {
		listing.Description = *updates.Description
	}
	if updates.Location != nil {
		listing.Location = *updates.Location
	}
	if updates.Price != nil {
		listing.Price = *updates.Price
	}
	if updates.ImagePath != nil {
		listing.ImagePath = *updates.ImagePath
	}
	r.listings[id] = listing
	return nil
}

func (r *memoryRepository) GetListing(_ context.Context, id string) (*db.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	listing, ok := r.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &listing, nil
}

func (r *memoryRepository) ListListings(_ context.Context, params *dto.ListingQuery) ([]db.Listing, *common.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, nil, r.failWith
	}
	var matched []db.Listing
	for _, listing := range r.listings {
		if params.Kind != "" && listing.Kind != params.Kind {
			continue
		}
		matched = append(matched, listing)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, &common.Meta{Page: params.Page, PageSize: params.PageSize, Total: int64(len(matched))}, nil
}

func (r *memoryRepository) DeleteListing(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.listings[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.listings, id)
	return nil
}
