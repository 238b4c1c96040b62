package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

func newTestAccount(id, email string) *domain.Account {
	a := &domain.Account{
		ID:    id,
		Email: email,
		Name:  "Test Reader",
		Role:  domain.RoleUser,
	}
	a.Normalize()
	a.InitTimestamps()
	return a
}

func TestCreateAndGetAccount(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	account := newTestAccount("acc_1", "reader@example.com")
	require.NoError(t, store.Accounts.Create(ctx, account.ID, account))

	got, err := store.Accounts.Get(ctx, "acc_1")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", got.Email)
}

func TestGetAccountByEmailCaseInsensitive(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	account := newTestAccount("acc_1", "Reader@Example.COM")
	require.NoError(t, store.Accounts.Create(ctx, account.ID, account))

	got, err := store.GetAccountByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acc_1", got.ID)

	got, err = store.GetAccountByEmail(ctx, "  READER@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "acc_1", got.ID)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first := newTestAccount("acc_1", "reader@example.com")
	require.NoError(t, store.Accounts.Create(ctx, first.ID, first))

	// Same address with different casing still collides
	second := newTestAccount("acc_2", "READER@example.com")
	err := store.Accounts.Create(ctx, second.ID, second)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestListAccountsNormalizesLegacyRecords(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// A legacy record with nil collections, written directly
	legacy := &domain.Account{ID: "acc_old", Email: "old@example.com", Role: domain.RoleUser}
	require.NoError(t, store.Accounts.Create(ctx, legacy.ID, legacy))

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.NotNil(t, accounts[0].Bookmarks)
	assert.NotNil(t, accounts[0].FavoriteIDs)
}

func TestReplaceAccounts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	local := newTestAccount("acc_local", "local@example.com")
	require.NoError(t, store.Accounts.Create(ctx, local.ID, local))

	incoming := map[string]domain.Account{
		"remote@example.com": {ID: "acc_remote", Email: "remote@example.com", Role: domain.RoleUser},
	}
	require.NoError(t, store.ReplaceAccounts(ctx, incoming))

	// The local account is gone, table fully replaced
	_, err := store.Accounts.Get(ctx, "acc_local")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetAccountByEmail(ctx, "local@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.GetAccountByEmail(ctx, "remote@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acc_remote", got.ID)
}

func TestSnapshotAccountsKeyedByEmail(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	account := newTestAccount("acc_1", "Reader@Example.com")
	require.NoError(t, store.Accounts.Create(ctx, account.ID, account))

	table, err := store.SnapshotAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, table, 1)
	_, ok := table["reader@example.com"]
	assert.True(t, ok)
}
