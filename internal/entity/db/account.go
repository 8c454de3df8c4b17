package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account 表示持久化的用户账户。
type Account struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role          string    `gorm:"column:role;type:varchar(32);index;not null" json:"role"`
	IsActive      bool      `gorm:"column:is_active;not null;default:false" json:"is_active"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
}

// TableName 指定表名。
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
