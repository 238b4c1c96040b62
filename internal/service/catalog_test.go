package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/search"
)

func launchedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t, "", domain.RemoteConfig{})
	require.NoError(t, env.sync.Launch(context.Background()))
	return env
}

func TestGetCountsView(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	comicID := env.catalog.List("")[0].ID

	comic, err := env.catalog.Get(ctx, comicID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comic.Views)

	comic, err = env.catalog.Get(ctx, comicID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), comic.Views)

	// The counter survives a reload from the store
	stored, err := env.store.GetCatalog(ctx)
	require.NoError(t, err)
	for _, c := range stored {
		if c.ID == comicID {
			assert.Equal(t, int64(2), c.Views)
		}
	}

	// Peek does not count
	comic, err = env.catalog.Peek(comicID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), comic.Views)
}

func TestGetUnknownComic(t *testing.T) {
	env := launchedEnv(t)

	_, err := env.catalog.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListFiltersByTitleAndCategory(t *testing.T) {
	env := launchedEnv(t)

	all := env.catalog.List("")
	assert.Len(t, all, 3)

	byTitle := env.catalog.List("heavenly")
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Heavenly Throne", byTitle[0].Title)

	byCategory := env.catalog.List("fantasy")
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Divine System", byCategory[0].Title)

	none := env.catalog.List("nonexistent")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListResolvesCategoryAliases(t *testing.T) {
	env := launchedEnv(t)

	// "leveling" is an alias for the system category, which only matches
	// "Fantasy / System" through the canon, not by substring.
	byAlias := env.catalog.List("leveling")
	require.Len(t, byAlias, 1)
	assert.Equal(t, "Divine System", byAlias[0].Title)

	byAlias = env.catalog.List("historic")
	require.Len(t, byAlias, 1)
	assert.Equal(t, "Alchemy of Clouds", byAlias[0].Title)
}

func TestCategoriesMergesCanonWithCatalog(t *testing.T) {
	env := launchedEnv(t)

	_, err := env.catalog.CreateComic(context.Background(), CreateComicRequest{
		Title:    "Star Forge",
		Category: "Space Pirates",
	})
	require.NoError(t, err)

	categories := env.catalog.Categories()

	slugs := make(map[string]string, len(categories))
	for _, c := range categories {
		slugs[c.Slug] = c.Name
	}
	assert.Equal(t, "Martial Arts", slugs["martial-arts"])
	assert.Equal(t, "Fantasy", slugs["fantasy"])
	// Catalog-only categories are appended with a title-cased name.
	assert.Equal(t, "Space Pirates", slugs["space-pirates"])
}

func TestPremiumChapterGate(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	// Heavenly Throne chapter c2 is premium
	before, err := env.catalog.Peek("1")
	require.NoError(t, err)

	// Anonymous reader
	_, err = env.catalog.GetChapter(ctx, nil, "1", "c2")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Free account
	login, err := env.accounts.Login(ctx, LoginRequest{Email: "free@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = env.catalog.GetChapter(ctx, login.Account, "1", "c2")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Refusal mutated nothing
	after, err := env.catalog.Peek("1")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Free chapter is open to everyone
	chapter, err := env.catalog.GetChapter(ctx, nil, "1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "The Journey Begins", chapter.Title)

	// Premium account passes the gate
	account, err := env.accounts.UpdateSubscription(ctx, login.Account.ID, SubscriptionRequest{Tier: domain.TierOneMonth})
	require.NoError(t, err)
	chapter, err = env.catalog.GetChapter(ctx, account, "1", "c2")
	require.NoError(t, err)
	assert.True(t, chapter.IsPremium)
}

func TestTrendingOrdersByViews(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	// Drive comic 3 to the top, comic 2 second
	for range 3 {
		_, err := env.catalog.Get(ctx, "3")
		require.NoError(t, err)
	}
	_, err := env.catalog.Get(ctx, "2")
	require.NoError(t, err)

	top := env.catalog.Trending(2)
	require.Len(t, top, 2)
	assert.Equal(t, "3", top[0].ID)
	assert.Equal(t, "2", top[1].ID)
}

func TestSliderListsFlaggedComics(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	assert.Empty(t, env.catalog.Slider())

	flag := true
	_, err := env.catalog.UpdateComic(ctx, "2", UpdateComicRequest{ShowInSlider: &flag})
	require.NoError(t, err)

	slider := env.catalog.Slider()
	require.Len(t, slider, 1)
	assert.Equal(t, "2", slider[0].ID)
}

func TestCreateComicValidatesAndPersists(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateComic(ctx, CreateComicRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	comic, err := env.catalog.CreateComic(ctx, CreateComicRequest{
		Title:    "Sword Saint Returns",
		Category: "Action",
		Rating:   4.1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, comic.ID)
	assert.NotNil(t, comic.Chapters)

	assert.Len(t, env.catalog.List(""), 4)

	// Written through and searchable
	stored, err := env.store.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	result, err := env.catalog.Search(ctx, search.Params{Query: "sword saint", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, comic.ID, result.Hits[0].ID)
}

func TestUpdateComicPartialFields(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	newTitle := "Heavenly Throne: Rebirth"
	updated, err := env.catalog.UpdateComic(ctx, "1", UpdateComicRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	// Untouched fields survive
	assert.Equal(t, "Action / Adventure", updated.Category)
	assert.Len(t, updated.Chapters, 2)

	_, err = env.catalog.UpdateComic(ctx, "missing", UpdateComicRequest{Title: &newTitle})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAppendChapter(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	chapter, err := env.catalog.AppendChapter(ctx, "3", AppendChapterRequest{
		Number: 2,
		Title:  "Into the Furnace",
		Pages:  []string{"https://picsum.photos/seed/new/800/1200"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, chapter.ID)

	comic, err := env.catalog.Peek("3")
	require.NoError(t, err)
	require.Len(t, comic.Chapters, 2)
	assert.Equal(t, "Into the Furnace", comic.Chapters[1].Title)

	_, err = env.catalog.AppendChapter(ctx, "3", AppendChapterRequest{Number: 3})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestReplaceChaptersGeneratesMissingIDs(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	comic, err := env.catalog.ReplaceChapters(ctx, "2", []domain.Chapter{
		{Number: 1, Title: "Rewritten"},
		{ID: "keep-me", Number: 2, Title: "Kept"},
	})
	require.NoError(t, err)
	require.Len(t, comic.Chapters, 2)
	assert.NotEmpty(t, comic.Chapters[0].ID)
	assert.NotNil(t, comic.Chapters[0].Pages)
	assert.Equal(t, "keep-me", comic.Chapters[1].ID)
}

func TestExportReturnsCopy(t *testing.T) {
	env := launchedEnv(t)

	exported := env.catalog.Export()
	require.Len(t, exported, 3)

	exported[0].Title = "mutated"
	assert.Equal(t, "Heavenly Throne", env.catalog.List("")[0].Title)
}
