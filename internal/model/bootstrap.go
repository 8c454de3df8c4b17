package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourism/internal/auth"
	"tourism/internal/entity/db"
)

// BootstrapConfig 描述启动时要确保存在的超级管理员
type BootstrapConfig struct {
	Username string
	Email    string
	Password string
}

// PasswordHasher is the subset of auth.Hasher the bootstrap step needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// EnsureSuperAdmin creates the initial superadmin when no account holds that
// role. It reports whether an account was created. Running it again once a
// superadmin exists is a no-op.
func EnsureSuperAdmin(ctx context.Context, repo Repository, hasher PasswordHasher, cfg BootstrapConfig) (bool, error) {
	if repo == nil || hasher == nil {
		return false, errors.New("bootstrap requires a repository and a hasher")
	}

	counts, err := repo.CountAccountsByRole(ctx)
	if err != nil {
		return false, fmt.Errorf("count accounts by role: %w", err)
	}
	if counts[string(auth.RoleSuperAdmin)] > 0 {
		return false, nil
	}

	username := strings.TrimSpace(cfg.Username)
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if username == "" || email == "" {
		return false, errors.New("superadmin username and email must be configured")
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return false, errors.New("superadmin password is not configured")
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("hash superadmin password: %w", err)
	}

	account := &db.Account{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Role:          string(auth.RoleSuperAdmin),
		IsActive:      true,
		EmailVerified: true,
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		return false, fmt.Errorf("create superadmin: %w", err)
	}
	return true, nil
}
