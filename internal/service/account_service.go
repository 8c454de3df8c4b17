package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourism/internal/apperr"
	"tourism/internal/auth"
	"tourism/internal/entity"
	"tourism/internal/entity/converter"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
	"tourism/internal/model"
	"tourism/internal/observability"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Conflict errors the HTTP layer tells apart.
var (
	ErrEmailTaken    = &apperr.Error{Kind: apperr.KindConflict, Message: "email already registered"}
	ErrUsernameTaken = &apperr.Error{Kind: apperr.KindConflict, Message: "username already taken"}
	ErrAccountTaken  = &apperr.Error{Kind: apperr.KindConflict, Message: "email or username already in use"}
)

// ErrAccountDisabled is returned by Login when the password is correct but the
// account has been deactivated.
var ErrAccountDisabled = &apperr.Error{Kind: apperr.KindForbidden, Message: "account is disabled"}

// ErrSuperAdminActive rejects patches that would deactivate a superadmin.
var ErrSuperAdminActive = apperr.Validation("superadmin account cannot be disabled")

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(accountID string, role auth.Role, ttl time.Duration) (string, time.Time, error)
}

// AccountService 账户服务，负责注册、登录以及账户管理
//
// It never checks the caller's role. Callers are expected to have passed the
// authorization guard before reaching the administrative methods.
type AccountService struct {
	repo     model.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewAccountService 创建账户服务实例
func NewAccountService(repo model.Repository, hasher PasswordHasher, tokens TokenIssuer, metrics *observability.Metrics) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(),
		metrics:  metrics,
	}
}

// Register creates a new account with the user role.
func (s *AccountService) Register(ctx context.Context, req dto.AuthRegisterRequest) (*dto.AccountSummary, error) {
	summary, err := s.register(ctx, req)
	s.metrics.ObserveAuthAttempt("register", resultLabel(err))
	return summary, err
}

func (s *AccountService) register(ctx context.Context, req dto.AuthRegisterRequest) (*dto.AccountSummary, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}

	account := &db.Account{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Role:          string(auth.RoleUser),
		IsActive:      true,
		EmailVerified: false,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, translateStoreError(err, "account not found", ErrAccountTaken)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"username":   account.Username,
	}).Info("account registered")

	summary := converter.AccountToSummary(account)
	return &summary, nil
}

// Login checks credentials and issues a token bound to the account id and role.
// An unknown email and a wrong password produce the same error.
func (s *AccountService) Login(ctx context.Context, req dto.AuthLoginRequest) (*dto.AuthResponse, error) {
	resp, err := s.login(ctx, req)
	s.metrics.ObserveAuthAttempt("login", resultLabel(err))
	return resp, err
}

func (s *AccountService) login(ctx context.Context, req dto.AuthLoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("email", email).Warn("login failed: unknown email")
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Unavailable(err)
	}

	ok, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Error("stored password hash cannot be verified")
		return nil, apperr.Unavailable(err)
	}
	if !ok {
		logrus.WithField("account_id", account.ID).Warn("login failed: wrong password")
		return nil, apperr.ErrInvalidCredentials
	}
	if !account.IsActive {
		logrus.WithField("account_id", account.ID).Warn("login refused: account disabled")
		return nil, ErrAccountDisabled
	}

	role, valid := auth.ParseRole(account.Role)
	if !valid {
		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"role":       account.Role,
		}).Error("account has an unknown role")
		return nil, apperr.Unavailable(errors.New("account has an unknown role"))
	}

	token, expiresAt, err := s.tokens.Issue(account.ID, role, 0)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   converter.AccountToSummary(account),
	}, nil
}

// GetProfile returns the public projection of the given account.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*dto.AccountSummary, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	summary := converter.AccountToSummary(account)
	return &summary, nil
}

// UpdateProfile applies a self-service patch. Omitted fields are left alone.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, req dto.ProfileUpdateRequest) (*dto.AccountSummary, error) {
	return s.applyPatch(ctx, accountID, accountPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
}

// ListAccounts returns a page of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, query dto.AccountQuery) (*dto.AccountListResponse, error) {
	query.Normalize()
	if strings.TrimSpace(query.Role) != "" {
		role, ok := auth.ParseRole(query.Role)
		if !ok {
			return nil, apperr.Validation("unknown role filter")
		}
		query.Role = string(role)
	}
	query.Keyword = strings.TrimSpace(query.Keyword)

	accounts, meta, err := s.repo.ListAccounts(ctx, &query)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return &dto.AccountListResponse{
		Accounts: converter.AccountsToSummaries(accounts),
		Meta:     meta,
	}, nil
}

// UpdateAccountByID applies an administrative patch to any account.
func (s *AccountService) UpdateAccountByID(ctx context.Context, accountID string, req dto.AccountUpdateRequest) (*dto.AccountSummary, error) {
	patch := accountPatch{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		IsActive:      req.IsActive,
		EmailVerified: req.EmailVerified,
	}
	if req.Role != nil {
		role, ok := auth.ParseRole(*req.Role)
		if !ok {
			return nil, apperr.Validation("unknown role")
		}
		patch.Role = &role
	}
	return s.applyPatch(ctx, accountID, patch)
}

// AccountRole reports the role an account currently holds, so callers can
// decide who may administer it.
func (s *AccountService) AccountRole(ctx context.Context, accountID string) (auth.Role, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	role, ok := auth.ParseRole(account.Role)
	if !ok {
		return "", apperr.Unavailable(fmt.Errorf("account %s has unknown role %q", account.ID, account.Role))
	}
	return role, nil
}

// DeleteAccountByID removes an account. Tokens already issued to it stay valid
// until they expire.
func (s *AccountService) DeleteAccountByID(ctx context.Context, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return apperr.Validation("account id is required")
	}
	if err := s.repo.DeleteAccount(ctx, accountID); err != nil {
		return translateStoreError(err, "account not found", ErrAccountTaken)
	}
	logrus.WithField("account_id", accountID).Info("account deleted")
	return nil
}

// GetStats counts accounts per role.
func (s *AccountService) GetStats(ctx context.Context) (*dto.AccountStats, error) {
	counts, err := s.repo.CountAccountsByRole(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	stats := &dto.AccountStats{ByRole: make(map[string]int64, len(auth.Roles()))}
	for _, role := range auth.Roles() {
		stats.ByRole[string(role)] = 0
	}
	for role, count := range counts {
		stats.ByRole[role] = count
		stats.Total += count
	}
	return stats, nil
}

// accountPatch is the union of the self-service and administrative patches.
type accountPatch struct {
	Username      *string
	Email         *string
	Password      *string
	Role          *auth.Role
	IsActive      *bool
	EmailVerified *bool
}

func (s *AccountService) applyPatch(ctx context.Context, accountID string, patch accountPatch) (*dto.AccountSummary, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var updates entity.AccountUpdates
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, apperr.Validation("username must not be empty")
		}
		if username != account.Username {
			if err := s.ensureUsernameFree(ctx, username, account.ID); err != nil {
				return nil, err
			}
			updates.Username = &username
		}
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, apperr.Validation("email must not be empty")
		}
		if err := s.checkEmail(email); err != nil {
			return nil, err
		}
		if email != account.Email {
			if err := s.ensureEmailFree(ctx, email, account.ID); err != nil {
				return nil, err
			}
			updates.Email = &email
		}
	}
	if patch.Password != nil {
		if strings.TrimSpace(*patch.Password) == "" {
			return nil, apperr.Validation("password must not be empty")
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, apperr.Unavailable(err)
		}
		updates.PasswordHash = &hash
	}
	if patch.Role != nil {
		role := string(*patch.Role)
		updates.Role = &role
	}
	if patch.IsActive != nil && !*patch.IsActive && account.Role == string(auth.RoleSuperAdmin) {
		return nil, ErrSuperAdminActive
	}
	updates.IsActive = patch.IsActive
	updates.EmailVerified = patch.EmailVerified

	if updates.IsEmpty() {
		summary := converter.AccountToSummary(account)
		return &summary, nil
	}
	if err := s.repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		return nil, translateStoreError(err, "account not found", ErrAccountTaken)
	}

	updated, err := s.loadAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	summary := converter.AccountToSummary(updated)
	return &summary, nil
}

func (s *AccountService) loadAccount(ctx context.Context, accountID string) (*db.Account, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, apperr.Validation("account id is required")
	}
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, translateStoreError(err, "account not found", ErrAccountTaken)
	}
	return account, nil
}

func (s *AccountService) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperr.Validation("email is malformed")
	}
	return nil
}

// ensureEmailFree reports a conflict when email belongs to an account other
// than ownerID.
func (s *AccountService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.repo.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != ownerID {
			return ErrEmailTaken
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return apperr.Unavailable(err)
	}
}

func (s *AccountService) ensureUsernameFree(ctx context.Context, username, ownerID string) error {
	existing, err := s.repo.GetAccountByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.ID != ownerID {
			return ErrUsernameTaken
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return apperr.Unavailable(err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translateStoreError maps repository errors onto the apperr taxonomy. A
// unique index violation becomes conflict.
func translateStoreError(err error, notFoundMessage string, conflict error) error {
	switch {
	case err == nil:
		return nil
	case apperr.KindOf(err) != "":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFoundMessage)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict
	default:
		return apperr.Unavailable(err)
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if kind := apperr.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
