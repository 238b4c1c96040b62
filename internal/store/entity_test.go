package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func newWidgetEntity(s *Store) *Entity[widget] {
	return NewEntity[widget](s, "widget:").
		WithIndex("label", func(w *widget) []string {
			return []string{w.Label}
		})
}

func TestEntityCreateGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))

	got, err := widgets.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Label)

	_, err = widgets.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityCreateDuplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))

	err := widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "beta"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Distinct ID but colliding index value
	err = widgets.Create(ctx, "w2", &widget{ID: "w2", Label: "alpha"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntityGetByIndex(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))

	got, err := widgets.GetByIndex(ctx, "label", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)

	_, err = widgets.GetByIndex(ctx, "label", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityUpdateMovesIndex(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))
	require.NoError(t, widgets.Update(ctx, "w1", &widget{ID: "w1", Label: "beta"}))

	_, err := widgets.GetByIndex(ctx, "label", "alpha")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := widgets.GetByIndex(ctx, "label", "beta")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)

	// Old index slot is free for reuse
	require.NoError(t, widgets.Create(ctx, "w2", &widget{ID: "w2", Label: "alpha"}))
}

func TestEntityUpdateMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	err := widgets.Update(ctx, "nope", &widget{ID: "nope", Label: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityDeleteIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))
	require.NoError(t, widgets.Delete(ctx, "w1"))
	require.NoError(t, widgets.Delete(ctx, "w1"))

	_, err := widgets.Get(ctx, "w1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index entry cleaned up too
	_, err = widgets.GetByIndex(ctx, "label", "alpha")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityListSkipsIndexEntries(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	widgets := newWidgetEntity(store)

	require.NoError(t, widgets.Create(ctx, "w1", &widget{ID: "w1", Label: "alpha"}))
	require.NoError(t, widgets.Create(ctx, "w2", &widget{ID: "w2", Label: "beta"}))

	var labels []string
	for w, err := range widgets.List(ctx) {
		require.NoError(t, err)
		labels = append(labels, w.Label)
	}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, labels)
}
