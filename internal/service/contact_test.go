package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
)

func TestContactsDefaultSeed(t *testing.T) {
	env := launchedEnv(t)

	contacts := env.contacts.List()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Support", contacts[0].Name)
	assert.Equal(t, "support", contacts[0].Handles["telegram"])
}

func TestReplaceContacts(t *testing.T) {
	env := launchedEnv(t)
	ctx := context.Background()

	replaced, err := env.contacts.Replace(ctx, []ContactInput{
		{Name: "Sales", Handles: map[string]string{"whatsapp": "07501111111"}},
		{ID: "kept-id", Name: "Support"},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.NotEmpty(t, replaced[0].ID)
	assert.Equal(t, "kept-id", replaced[1].ID)

	// Written through
	stored, err := env.store.GetContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	// And live
	assert.Len(t, env.contacts.List(), 2)
}

func TestReplaceContactsValidates(t *testing.T) {
	env := launchedEnv(t)

	_, err := env.contacts.Replace(context.Background(), []ContactInput{{Handles: map[string]string{}}})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// The failed replace left the list alone
	assert.Len(t, env.contacts.List(), 1)
}

func TestReplaceContactsEmptyListAllowed(t *testing.T) {
	env := launchedEnv(t)

	replaced, err := env.contacts.Replace(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.Empty(t, env.contacts.List())
}
