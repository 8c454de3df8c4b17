package model

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tourism/internal/auth"
	"tourism/internal/config"
	"tourism/internal/entity/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	repo, err := InitRepository(&config.Config{
		DBType: DBTypeSQLite,
		DBPath: filepath.Join(t.TempDir(), "data", "tourism.db"),
	})
	require.NoError(t, err)
	return repo
}

func TestInitRepositoryRequiresType(t *testing.T) {
	_, err := InitRepository(&config.Config{})
	assert.Error(t, err)

	_, err = InitRepository(&config.Config{DBType: "mongo"})
	assert.Error(t, err)
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	repo := newSQLiteRepository(t)
	hasher, err := auth.NewHasher(0)
	require.NoError(t, err)
	ctx := context.Background()
	cfg := BootstrapConfig{Username: "root", Email: "Root@Tourism.Local", Password: "s3cret-pass"}

	created, err := EnsureSuperAdmin(ctx, repo, hasher, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureSuperAdmin(ctx, repo, hasher, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	counts, err := repo.CountAccountsByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[string(auth.RoleSuperAdmin)])

	accounts, _, err := repo.ListAccounts(ctx, &dto.AccountQuery{Role: string(auth.RoleSuperAdmin)})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	root := accounts[0]
	assert.Equal(t, "root@tourism.local", root.Email)
	assert.True(t, root.IsActive)
	assert.True(t, root.EmailVerified)

	ok, err := hasher.Verify("s3cret-pass", root.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureSuperAdminRequiresPassword(t *testing.T) {
	repo := newSQLiteRepository(t)
	hasher, err := auth.NewHasher(0)
	require.NoError(t, err)

	created, err := EnsureSuperAdmin(context.Background(), repo, hasher, BootstrapConfig{
		Username: "root",
		Email:    "root@tourism.local",
	})
	assert.Error(t, err)
	assert.False(t, created)

	counts, err := repo.CountAccountsByRole(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts[string(auth.RoleSuperAdmin)])
}

type failingRepository struct {
	Repository
}

func (failingRepository) CountAccountsByRole(context.Context) (map[string]int64, error) {
	return nil, errors.New("connection refused")
}

func TestEnsureSuperAdminStoreFailure(t *testing.T) {
	hasher, err := auth.NewHasher(0)
	require.NoError(t, err)

	created, err := EnsureSuperAdmin(context.Background(), failingRepository{}, hasher, BootstrapConfig{
		Username: "root",
		Email:    "root@tourism.local",
		Password: "pw",
	})
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, created)
}
