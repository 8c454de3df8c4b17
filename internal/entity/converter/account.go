package converter

import (
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
)

// AccountToSummary converts a db.Account to its public projection.
func AccountToSummary(a *db.Account) dto.AccountSummary {
	if a == nil {
		return dto.AccountSummary{}
	}
	return dto.AccountSummary{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		Role:          a.Role,
		IsActive:      a.IsActive,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsToSummaries converts a slice of db.Account.
func AccountsToSummaries(accounts []db.Account) []dto.AccountSummary {
	summaries := make([]dto.AccountSummary, len(accounts))
	for i := range accounts {
		summaries[i] = AccountToSummary(&accounts[i])
	}
	return summaries
}
