package model

import (
	"context"

	"tourism/internal/entity"
	"tourism/internal/entity/common"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
)

// Repository 定义数据库操作接口
//
// Implementations return gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey when a unique index rejects a write.
type Repository interface {
	// 账户管理
	CreateAccount(ctx context.Context, account *db.Account) error
	UpdateAccount(ctx context.Context, id string, updates entity.AccountUpdates) error
	GetAccountByEmail(ctx context.Context, email string) (*db.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*db.Account, error)
	GetAccountByID(ctx context.Context, id string) (*db.Account, error)
	ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error)
	DeleteAccount(ctx context.Context, id string) error
	CountAccountsByRole(ctx context.Context) (map[string]int64, error)

	// 目录条目
	CreateListing(ctx context.Context, listing *db.Listing) error
	UpdateListing(ctx context.Context, id string, updates entity.ListingUpdates) error
	GetListing(ctx context.Context, id string) (*db.Listing, error)
	ListListings(ctx context.Context, params *dto.ListingQuery) ([]db.Listing, *common.Meta, error)
	DeleteListing(ctx context.Context, id string) error
}
