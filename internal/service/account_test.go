package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/store"
)

func TestLoginCreatesAccountOnFirstUse(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	resp, err := env.accounts.Login(ctx, LoginRequest{
		Email:    "reader@example.com",
		Name:     "Reader",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Account)
	assert.NotEmpty(t, resp.AccessToken)

	assert.Equal(t, domain.RoleUser, resp.Account.Role)
	assert.False(t, resp.Account.IsPremium)
	assert.Empty(t, resp.Account.Bookmarks)
	assert.Empty(t, resp.Account.FavoriteIDs)
	assert.Empty(t, resp.Account.PasswordHash)
	assert.Contains(t, resp.Account.Avatar, "ui-avatars.com")

	// Exactly one account exists, with the hash stored
	accounts, err := env.store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Contains(t, accounts[0].PasswordHash, "$argon2id$")
}

func TestLoginAdminIdentityGetsSuperAdmin(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	// Case differs from the configured identity
	resp, err := env.accounts.Login(ctx, LoginRequest{
		Email:    "Admin@Example.COM",
		Name:     "Boss",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSuperAdmin, resp.Account.Role)
	assert.True(t, resp.Account.IsPremium)
	assert.Equal(t, domain.TierOneYear, resp.Account.Subscription)
	require.NotNil(t, resp.Account.SubEnd)
}

func TestLoginNonAdminNeverSuperAdmin(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	resp, err := env.accounts.Login(ctx, LoginRequest{
		Email:    "notadmin@example.com",
		Password: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, resp.Account.Role)
	assert.False(t, resp.Account.IsPremium)
}

func TestLoginWrongSecretMutatesNothing(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	_, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "right"})
	require.NoError(t, err)
	require.NoError(t, env.accounts.Logout(ctx))

	before, err := env.store.ListAccounts(ctx)
	require.NoError(t, err)

	_, err = env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Accounts table untouched, no session established
	after, err := env.store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = env.store.GetCurrentSession(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoginEmptySecretMatchesOnlyEmpty(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	_, err := env.accounts.Login(ctx, LoginRequest{Email: "open@example.com"})
	require.NoError(t, err)

	_, err = env.accounts.Login(ctx, LoginRequest{Email: "open@example.com", Password: "anything"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = env.accounts.Login(ctx, LoginRequest{Email: "open@example.com"})
	assert.NoError(t, err)
}

func TestLoginDeviceMismatchRejectedEvenWithCorrectSecret(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	resp, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "right"})
	require.NoError(t, err)

	// Rebind the stored account to some other install
	stored, err := env.store.Accounts.Get(ctx, resp.Account.ID)
	require.NoError(t, err)
	stored.DeviceID = "some-other-device"
	require.NoError(t, env.store.Accounts.Update(ctx, stored.ID, stored))

	_, err = env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "right"})
	assert.ErrorIs(t, err, domainerrors.ErrDeviceMismatch)

	// Wrong secret on the wrong device reports the secret problem first
	_, err = env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLoginRepromotesLapsedAdmin(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	resp, err := env.accounts.Login(ctx, LoginRequest{Email: testAdminEmail, Password: "pw"})
	require.NoError(t, err)

	// A synced snapshot demoted the admin
	stored, err := env.store.Accounts.Get(ctx, resp.Account.ID)
	require.NoError(t, err)
	stored.Role = domain.RoleUser
	stored.IsPremium = false
	require.NoError(t, env.store.Accounts.Update(ctx, stored.ID, stored))

	resp, err = env.accounts.Login(ctx, LoginRequest{Email: testAdminEmail, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, resp.Account.Role)
	assert.True(t, resp.Account.IsPremium)
}

func TestRestoreSessionDeviceEquality(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	// No session at all
	resp, err := env.accounts.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp)

	login, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)

	// Matching device restores
	resp, err = env.accounts.RestoreSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, login.Account.ID, resp.Account.ID)
	assert.NotEmpty(t, resp.AccessToken)

	// A session written by another install restores nothing, silently,
	// and the stale record stays put
	session, err := env.store.GetCurrentSession(ctx)
	require.NoError(t, err)
	session.DeviceID = "foreign-device"
	require.NoError(t, env.store.SetCurrentSession(ctx, session))

	resp, err = env.accounts.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp)

	still, err := env.store.GetCurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "foreign-device", still.DeviceID)
}

func TestLogoutClearsOnlySession(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	_, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.accounts.Logout(ctx))

	_, err = env.store.GetCurrentSession(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Account survives
	accounts, err := env.store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestToggleFavoriteIsIdempotentPaired(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))

	login, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)

	comics := env.catalog.List("")
	require.NotEmpty(t, comics)
	comicID := comics[0].ID
	originalCount := comics[0].Favorites

	account, err := env.accounts.ToggleFavorite(ctx, login.Account.ID, comicID)
	require.NoError(t, err)
	assert.True(t, account.HasFavorite(comicID))

	comic, err := env.catalog.Peek(comicID)
	require.NoError(t, err)
	assert.Equal(t, originalCount+1, comic.Favorites)

	account, err = env.accounts.ToggleFavorite(ctx, login.Account.ID, comicID)
	require.NoError(t, err)
	assert.False(t, account.HasFavorite(comicID))

	comic, err = env.catalog.Peek(comicID)
	require.NoError(t, err)
	assert.Equal(t, originalCount, comic.Favorites)
}

func TestFavoriteCounterClampedAtZero(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))

	login, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)

	comicID := env.catalog.List("")[0].ID

	// Make the stored favorite set inconsistent with the counter
	stored, err := env.store.Accounts.Get(ctx, login.Account.ID)
	require.NoError(t, err)
	stored.FavoriteIDs = []string{comicID}
	require.NoError(t, env.store.Accounts.Update(ctx, stored.ID, stored))

	// Removing drives the counter below zero; it clamps instead
	_, err = env.accounts.ToggleFavorite(ctx, login.Account.ID, comicID)
	require.NoError(t, err)

	comic, err := env.catalog.Peek(comicID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), comic.Favorites)
}

func TestToggleBookmarkExactTupleRoundTrip(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	login, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)

	first := BookmarkRequest{ComicID: "c1", ChapterID: "ch1", PageIndex: 3, ComicTitle: "A", ChapterTitle: "One"}
	second := BookmarkRequest{ComicID: "c1", ChapterID: "ch2", PageIndex: 0, ComicTitle: "A", ChapterTitle: "Two"}

	account, err := env.accounts.ToggleBookmark(ctx, login.Account.ID, first)
	require.NoError(t, err)
	require.Len(t, account.Bookmarks, 1)

	// Newest first
	account, err = env.accounts.ToggleBookmark(ctx, login.Account.ID, second)
	require.NoError(t, err)
	require.Len(t, account.Bookmarks, 2)
	assert.Equal(t, "ch2", account.Bookmarks[0].ChapterID)
	assert.Equal(t, "ch1", account.Bookmarks[1].ChapterID)

	// Same tuple removes, restoring original content and order
	account, err = env.accounts.ToggleBookmark(ctx, login.Account.ID, second)
	require.NoError(t, err)
	require.Len(t, account.Bookmarks, 1)
	assert.Equal(t, "ch1", account.Bookmarks[0].ChapterID)

	// A different page on the same chapter is a distinct tuple
	third := first
	third.PageIndex = 4
	account, err = env.accounts.ToggleBookmark(ctx, login.Account.ID, third)
	require.NoError(t, err)
	assert.Len(t, account.Bookmarks, 2)
}

func TestUpdateSubscriptionGrantsPremiumUnconditionally(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	login, err := env.accounts.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, login.Account.IsPremium)

	account, err := env.accounts.UpdateSubscription(ctx, login.Account.ID, SubscriptionRequest{Tier: domain.TierTwoMonths})
	require.NoError(t, err)
	assert.True(t, account.IsPremium)
	assert.Equal(t, domain.TierTwoMonths, account.Subscription)
	require.NotNil(t, account.SubEnd)

	// Session mirror refreshed
	restored, err := env.accounts.RestoreSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.True(t, restored.Account.IsPremium)

	_, err = env.accounts.UpdateSubscription(ctx, login.Account.ID, SubscriptionRequest{Tier: "LIFETIME"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
