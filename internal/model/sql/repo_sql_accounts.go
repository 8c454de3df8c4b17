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

// CreateAccount persists a new account record.
func (r *GormRepository) CreateAccount(ctx context.Context, account *db.Account) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if account == nil {
		return fmt.Errorf("account is nil")
	}
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateAccount updates an existing account entry.
func (r *GormRepository) UpdateAccount(ctx context.Context, id string, updates entity.AccountUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid account id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	if email, ok := values["email"].(string); ok {
		values["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return r.db.WithContext(ctx).Model(&db.Account{}).Where("id = ?", id).Updates(values).Error
}

// GetAccountByEmail loads an account by its normalised email.
func (r *GormRepository) GetAccountByEmail(ctx context.Context, email string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var account db.Account
	if err := r.db.WithContext(ctx).Where("email = ?", trimmed).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUsername loads an account by username.
func (r *GormRepository) GetAccountByUsername(ctx context.Context, username string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var account db.Account
	if err := r.db.WithContext(ctx).Where("username = ?", trimmed).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByID loads an account by ID.
func (r *GormRepository) GetAccountByID(ctx context.Context, id string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var account db.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns paginated accounts, newest first.
func (r *GormRepository) ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&db.Account{})
	var base common.BaseParams
	if params != nil {
		base = params.BaseParams
		if trimmed := strings.TrimSpace(params.Role); trimmed != "" {
			query = query.Where("role = ?", trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(email) LIKE ? OR LOWER(username) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := pageWindow(base)

	var accounts []db.Account
	if err := query.Order("created_at DESC").Order("id").Offset(offset).Limit(pageSize).Find(&accounts).Error; err != nil {
		return nil, nil, err
	}

	return accounts, r.calculatePagination(total, page, pageSize), nil
}

// DeleteAccount removes an account by ID.
func (r *GormRepository) DeleteAccount(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type roleCount struct {
	Role  string
	Count int64
}

// CountAccountsByRole returns the number of accounts per role.
func (r *GormRepository) CountAccountsByRole(ctx context.Context) (map[string]int64, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rows []roleCount
	if err := r.db.WithContext(ctx).
		Model(&db.Account{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
