package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

const (
	keyCatalog  = "catalog:comics"
	keyContacts = "catalog:contacts"
)

// GetCatalog retrieves the stored catalog, or ErrNotFound if this install
// has never persisted one.
func (s *Store) GetCatalog(ctx context.Context) ([]domain.Comic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comics []domain.Comic
	if err := s.get([]byte(keyCatalog), &comics); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	for i := range comics {
		comics[i].Normalize()
	}
	return comics, nil
}

// SaveCatalog persists the whole catalog as a single document. The catalog
// is small enough (hundreds of titles, not millions) that whole-document
// writes keep it trivially consistent.
func (s *Store) SaveCatalog(ctx context.Context, comics []domain.Comic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if comics == nil {
		comics = []domain.Comic{}
	}
	if err := s.set([]byte(keyCatalog), comics); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// GetContacts retrieves the stored support contacts, or ErrNotFound.
func (s *Store) GetContacts(ctx context.Context) ([]domain.SupportContact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var contacts []domain.SupportContact
	if err := s.get([]byte(keyContacts), &contacts); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contacts: %w", err)
	}
	return contacts, nil
}

// SaveContacts persists the support contact list.
func (s *Store) SaveContacts(ctx context.Context, contacts []domain.SupportContact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if contacts == nil {
		contacts = []domain.SupportContact{}
	}
	if err := s.set([]byte(keyContacts), contacts); err != nil {
		return fmt.Errorf("save contacts: %w", err)
	}
	return nil
}
