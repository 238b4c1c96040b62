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

func testRemoteSeed() domain.RemoteConfig {
	return domain.RemoteConfig{Token: "test-token", Repo: "owner/library"}
}

func TestLaunchFreshInstallSeedsStarterCatalog(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))
	assert.Equal(t, StateReady, env.sync.State())

	comics := env.catalog.List("")
	require.Len(t, comics, 3)
	for _, c := range comics {
		assert.Zero(t, c.Views)
		assert.Zero(t, c.Favorites)
	}

	contacts := env.contacts.List()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Support", contacts[0].Name)

	// Seed was written through, so a second launch reloads it rather
	// than reseeding
	stored, err := env.store.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestLaunchPrefersPersistedCatalogOverStarter(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	custom := []domain.Comic{{ID: "x1", Title: "Persisted Title"}}
	require.NoError(t, env.store.SaveCatalog(ctx, custom))

	require.NoError(t, env.sync.Launch(ctx))

	comics := env.catalog.List("")
	require.Len(t, comics, 1)
	assert.Equal(t, "Persisted Title", comics[0].Title)
}

func TestLaunchAdoptsRemoteSnapshot(t *testing.T) {
	fake := newFakeRemote(t)

	// One device seeds the remote
	seeder := newTestEnv(t, fake.URL(), testRemoteSeed())
	ctx := context.Background()
	require.NoError(t, seeder.sync.Launch(ctx))
	_, err := seeder.accounts.Login(ctx, LoginRequest{Email: "seeder@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, seeder.sync.Push(ctx, "seeder@example.com"))

	// A second fresh device launches against the same remote
	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, env.sync.Launch(ctx))
	assert.Equal(t, StateReady, env.sync.State())

	// It adopted the pushed catalog instead of seeding its own
	comics := env.catalog.List("")
	assert.Len(t, comics, 3)

	// And the pushed accounts table, including the seeder's account
	account, err := env.store.GetAccountByEmail(ctx, "seeder@example.com")
	require.NoError(t, err)
	assert.Equal(t, "seeder@example.com", account.Email)
}

func TestLaunchFallsBackLocallyWhenRemoteUnreachable(t *testing.T) {
	fake := newFakeRemote(t)
	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	ctx := context.Background()

	// Empty remote answers 404, which reads as absent
	require.NoError(t, env.sync.Launch(ctx))
	assert.Equal(t, StateReady, env.sync.State())
	assert.Len(t, env.catalog.List(""), 3)
}

func TestLaunchPersistsSeedRemoteConfig(t *testing.T) {
	env := newTestEnv(t, "", testRemoteSeed())
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))

	cfg, err := env.store.GetRemoteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner/library", cfg.Repo)
	assert.Equal(t, "test-token", cfg.Token)
	assert.False(t, cfg.UpdatedAt.IsZero())
}

func TestStoredRemoteConfigWinsOverSeed(t *testing.T) {
	env := newTestEnv(t, "", testRemoteSeed())
	ctx := context.Background()

	_, err := env.sync.SaveRemoteConfig(ctx, RemoteConfigRequest{Token: "stored-token", Repo: "stored/repo"})
	require.NoError(t, err)

	require.NoError(t, env.sync.Launch(ctx))

	cfg, err := env.store.GetRemoteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stored/repo", cfg.Repo)
}

func TestPushAssemblesFullState(t *testing.T) {
	fake := newFakeRemote(t)
	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))
	_, err := env.accounts.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.sync.Push(ctx, "admin@example.com"))

	snap := fake.snapshot(t)
	assert.Len(t, snap.Comics, 3)
	assert.Len(t, snap.Contacts, 1)
	assert.Contains(t, snap.Accounts, "admin@example.com")
	assert.Equal(t, "admin@example.com", snap.PushedBy)
	assert.False(t, snap.PushedAt.IsZero())
}

func TestPushWithoutConfigFails(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	err := env.sync.Push(ctx, "admin@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.sync.Pull(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPullAdoptsAndOverwritesAccounts(t *testing.T) {
	fake := newFakeRemote(t)
	ctx := context.Background()

	seeder := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, seeder.sync.Launch(ctx))
	_, err := seeder.accounts.Login(ctx, LoginRequest{Email: "remote@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, seeder.sync.Push(ctx, "remote@example.com"))

	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, env.sync.Launch(ctx))

	// An account created locally after the remote push
	_, err = env.accounts.Login(ctx, LoginRequest{Email: "local-only@example.com", Password: "pw"})
	require.NoError(t, err)

	adopted, err := env.sync.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, adopted)

	// The adopted table replaced the local one outright
	_, err = env.store.GetAccountByEmail(ctx, "remote@example.com")
	assert.NoError(t, err)
	_, err = env.store.GetAccountByEmail(ctx, "local-only@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPullReportsAbsentSnapshot(t *testing.T) {
	fake := newFakeRemote(t)
	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))

	adopted, err := env.sync.Pull(ctx)
	require.NoError(t, err)
	assert.False(t, adopted)
}

func TestConcurrentDevicesLastPushWins(t *testing.T) {
	fake := newFakeRemote(t)
	ctx := context.Background()

	deviceA := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, deviceA.sync.Launch(ctx))
	deviceB := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, deviceB.sync.Launch(ctx))

	// Each device adds its own title without pulling first
	_, err := deviceA.catalog.CreateComic(ctx, CreateComicRequest{Title: "Only On A"})
	require.NoError(t, err)
	_, err = deviceB.catalog.CreateComic(ctx, CreateComicRequest{Title: "Only On B"})
	require.NoError(t, err)

	require.NoError(t, deviceA.sync.Push(ctx, "a@example.com"))
	require.NoError(t, deviceB.sync.Push(ctx, "b@example.com"))

	// B pushed last and never saw A's edit, so A's title is gone
	snap := fake.snapshot(t)
	titles := make([]string, 0, len(snap.Comics))
	for _, c := range snap.Comics {
		titles = append(titles, c.Title)
	}
	assert.Contains(t, titles, "Only On B")
	assert.NotContains(t, titles, "Only On A")
	assert.Equal(t, "b@example.com", snap.PushedBy)

	// A third device launching now reads B's version
	deviceC := newTestEnv(t, fake.URL(), testRemoteSeed())
	require.NoError(t, deviceC.sync.Launch(ctx))
	seen := deviceC.catalog.List("")
	found := false
	for _, c := range seen {
		if c.Title == "Only On B" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStatusReportsConnectivity(t *testing.T) {
	fake := newFakeRemote(t)
	env := newTestEnv(t, fake.URL(), testRemoteSeed())
	ctx := context.Background()

	require.NoError(t, env.sync.Launch(ctx))
	require.NoError(t, env.sync.Push(ctx, "admin@example.com"))

	status, err := env.sync.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "owner/library", status.Repo)
	assert.Equal(t, StateReady, status.State)
}

func TestStatusUnconfigured(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	status, err := env.sync.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, StateUnloaded, status.State)
}

func TestSaveRemoteConfigValidatesRepo(t *testing.T) {
	env := newTestEnv(t, "", domain.RemoteConfig{})
	ctx := context.Background()

	_, err := env.sync.SaveRemoteConfig(ctx, RemoteConfigRequest{Token: "t", Repo: "no-slash"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.sync.SaveRemoteConfig(ctx, RemoteConfigRequest{Repo: "owner/repo"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
