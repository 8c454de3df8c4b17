package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourism/internal/apperr"
	"tourism/internal/auth"
	"tourism/internal/entity/db"
	"tourism/internal/entity/dto"
	"tourism/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accountFixture struct {
	svc     *AccountService
	repo    *memoryRepository
	hasher  *auth.Hasher
	tokens  *auth.Manager
	metrics *observability.Metrics
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	hasher, err := auth.NewHasher(auth.MinHashCost)
	require.NoError(t, err)
	tokens, err := auth.NewManager("service-test-secret", "tourism", time.Hour)
	require.NoError(t, err)
	repo := newMemoryRepository()
	metrics := observability.NewMetrics(nil)
	return &accountFixture{
		svc:     NewAccountService(repo, hasher, tokens, metrics),
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
	}
}

func (f *accountFixture) register(t *testing.T, username, email, password string) *dto.AccountSummary {
	t.Helper()
	summary, err := f.svc.Register(context.Background(), dto.AuthRegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return summary
}

func (f *accountFixture) seed(t *testing.T, username, email, password string, role auth.Role) *db.Account {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	account := &db.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
		IsActive:     true,
	}
	require.NoError(t, f.repo.CreateAccount(context.Background(), account))
	return account
}

func TestRegisterLoginVerifyRoundTrip(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	summary := f.register(t, "alice", " Alice@Example.com ", "pw1")
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "alice@example.com", summary.Email)
	assert.Equal(t, string(auth.RoleUser), summary.Role)
	assert.True(t, summary.IsActive)
	assert.False(t, summary.EmailVerified)

	stored, err := f.repo.GetAccountByID(ctx, summary.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)

	resp, err := f.svc.Login(ctx, dto.AuthLoginRequest{Email: "ALICE@example.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, summary.ID, resp.Account.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	identity, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, identity.AccountID)
	assert.Equal(t, auth.RoleUser, identity.Role)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttemptsTotal.WithLabelValues("register", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttemptsTotal.WithLabelValues("login", "success")))
}

func TestRegisterValidation(t *testing.T) {
	f := newAccountFixture(t)

	tests := []struct {
		name string
		req  dto.AuthRegisterRequest
	}{
		{name: "empty username", req: dto.AuthRegisterRequest{Username: "  ", Email: "a@b.co", Password: "pw"}},
		{name: "empty email", req: dto.AuthRegisterRequest{Username: "a", Email: "", Password: "pw"}},
		{name: "empty password", req: dto.AuthRegisterRequest{Username: "a", Email: "a@b.co"}},
		{name: "whitespace password", req: dto.AuthRegisterRequest{Username: "a", Email: "a@b.co", Password: "   "}},
		{name: "malformed email", req: dto.AuthRegisterRequest{Username: "a", Email: "not-an-email", Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := f.svc.Register(context.Background(), tt.req)
			assert.Nil(t, summary)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com", "pw1")

	_, err := f.svc.Register(context.Background(), dto.AuthRegisterRequest{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "pw2",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.svc.Register(context.Background(), dto.AuthRegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "pw2",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	counts, err := f.repo.CountAccountsByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["user"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com", "pw1")
	ctx := context.Background()

	_, wrongPassword := f.svc.Login(ctx, dto.AuthLoginRequest{Email: "alice@example.com", Password: "nope"})
	_, unknownEmail := f.svc.Login(ctx, dto.AuthLoginRequest{Email: "bob@example.com", Password: "pw1"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, apperr.KindOf(wrongPassword), apperr.KindOf(unknownEmail))

	_, err := f.svc.Login(ctx, dto.AuthLoginRequest{Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.AuthAttemptsTotal.WithLabelValues("login", "auth")))
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAccountFixture(t)
	summary := f.register(t, "carol", "carol@example.com", "pw1")
	ctx := context.Background()

	disabled := false
	_, err := f.svc.UpdateAccountByID(ctx, summary.ID, dto.AccountUpdateRequest{IsActive: &disabled})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, dto.AuthLoginRequest{Email: "carol@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials, "a wrong password must not reveal the account state")

	_, err = f.svc.Login(ctx, dto.AuthLoginRequest{Email: "carol@example.com", Password: "pw1"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestLoginWithCorruptHashIsUnavailable(t *testing.T) {
	f := newAccountFixture(t)
	account := &db.Account{Username: "x", Email: "x@example.com", PasswordHash: "garbage", Role: "user", IsActive: true}
	require.NoError(t, f.repo.CreateAccount(context.Background(), account))

	_, err := f.svc.Login(context.Background(), dto.AuthLoginRequest{Email: "x@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestUpdateProfile(t *testing.T) {
	f := newAccountFixture(t)
	alice := f.register(t, "alice", "alice@example.com", "pw1")
	f.register(t, "bob", "bob@example.com", "pw2")
	ctx := context.Background()

	newEmail := "  Alice@New.Example "
	updated, err := f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example", updated.Email)
	assert.Equal(t, "alice", updated.Username, "omitted fields stay untouched")

	newPassword := "pw-rotated"
	_, err = f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Password: &newPassword})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, dto.AuthLoginRequest{Email: "alice@new.example", Password: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, dto.AuthLoginRequest{Email: "alice@new.example", Password: newPassword})
	assert.NoError(t, err)

	taken := "BOB@example.com"
	_, err = f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	takenName := "bob"
	_, err = f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Username: &takenName})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	blank := " "
	_, err = f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Username: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{Password: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	unchanged, err := f.svc.UpdateProfile(ctx, alice.ID, dto.ProfileUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, unchanged.ID)

	_, err = f.svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdministrativeOperations(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	root := f.seed(t, "root", "root@example.com", "rootpw", auth.RoleSuperAdmin)
	alice := f.register(t, "alice", "alice@example.com", "pw1")
	f.register(t, "bob", "bob@example.com", "pw2")

	list, err := f.svc.ListAccounts(ctx, dto.AccountQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Accounts, 3)
	assert.Equal(t, int64(3), list.Meta.Total)
	assert.Equal(t, int64(20), list.Meta.PageSize)

	users, err := f.svc.ListAccounts(ctx, dto.AccountQuery{Role: "USER"})
	require.NoError(t, err)
	assert.Len(t, users.Accounts, 2)

	_, err = f.svc.ListAccounts(ctx, dto.AccountQuery{Role: "guest"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	promote := "admin"
	verified := true
	updated, err := f.svc.UpdateAccountByID(ctx, alice.ID, dto.AccountUpdateRequest{Role: &promote, EmailVerified: &verified})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.True(t, updated.EmailVerified)

	bogus := "emperor"
	_, err = f.svc.UpdateAccountByID(ctx, alice.ID, dto.AccountUpdateRequest{Role: &bogus})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateAccountByID(ctx, "missing", dto.AccountUpdateRequest{Role: &promote})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	role, err := f.svc.AccountRole(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, role)
	_, err = f.svc.AccountRole(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	disabled := false
	_, err = f.svc.UpdateAccountByID(ctx, root.ID, dto.AccountUpdateRequest{IsActive: &disabled})
	assert.ErrorIs(t, err, ErrSuperAdminActive)

	stats, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, map[string]int64{"user": 1, "admin": 1, "superadmin": 1}, stats.ByRole)

	require.NoError(t, f.svc.DeleteAccountByID(ctx, alice.ID))
	assert.ErrorIs(t, f.svc.DeleteAccountByID(ctx, alice.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteAccountByID(ctx, ""), apperr.ErrValidation)
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	f := newAccountFixture(t)
	f.repo.failWith = errors.New("connection reset")
	ctx := context.Background()

	_, err := f.svc.Register(ctx, dto.AuthRegisterRequest{Username: "a", Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
	assert.NotContains(t, err.Error(), "connection reset")

	_, err = f.svc.Login(ctx, dto.AuthLoginRequest{Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	_, err = f.svc.GetStats(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	_, err = f.svc.ListAccounts(ctx, dto.AccountQuery{})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestTranslateStoreError(t *testing.T) {
	assert.NoError(t, translateStoreError(nil, "", ErrAccountTaken))
	assert.Same(t, ErrEmailTaken, translateStoreError(ErrEmailTaken, "", ErrAccountTaken))
	assert.Same(t, ErrAccountTaken, translateStoreError(gorm.ErrDuplicatedKey, "account not found", ErrAccountTaken))
	assert.Same(t, ErrListingConflict, translateStoreError(gorm.ErrDuplicatedKey, "listing not found", ErrListingConflict))
	assert.ErrorIs(t, translateStoreError(gorm.ErrRecordNotFound, "listing not found", ErrListingConflict), apperr.ErrNotFound)
	assert.Equal(t, "success", resultLabel(nil))
	assert.Equal(t, "error", resultLabel(errors.New("x")))
	assert.Equal(t, "conflict", resultLabel(ErrAccountTaken))
}
