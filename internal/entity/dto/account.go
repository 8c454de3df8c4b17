package dto

import (
	"time"

	"tourism/internal/entity/common"
)

// AccountSummary is the public projection of an account. It never carries the
// password hash.
type AccountSummary struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountQuery supports listing accounts with pagination.
type AccountQuery struct {
	common.BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

// ProfileUpdateRequest is the payload for updating the caller's own account.
type ProfileUpdateRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// AccountUpdateRequest is the administrative update payload.
type AccountUpdateRequest struct {
	Username      *string `json:"username,omitempty"`
	Email         *string `json:"email,omitempty"`
	Password      *string `json:"password,omitempty"`
	Role          *string `json:"role,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
}

// AccountListResponse is the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountSummary `json:"accounts"`
	Meta     *common.Meta     `json:"meta"`
}

// AccountStats counts accounts per role.
type AccountStats struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"by_role"`
}
