package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

const keyCurrentSession = "session:current"

// GetCurrentSession retrieves the persisted session record, or ErrNotFound
// if nobody is signed in on this device.
func (s *Store) GetCurrentSession(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session domain.Session
	if err := s.get([]byte(keyCurrentSession), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get current session: %w", err)
	}
	session.Account.Normalize()
	return &session, nil
}

// SetCurrentSession persists the session record, replacing any previous one.
func (s *Store) SetCurrentSession(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set([]byte(keyCurrentSession), session); err != nil {
		return fmt.Errorf("set current session: %w", err)
	}
	return nil
}

// ClearCurrentSession removes the session record. Idempotent.
func (s *Store) ClearCurrentSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.delete([]byte(keyCurrentSession)); err != nil {
		return fmt.Errorf("clear current session: %w", err)
	}
	return nil
}
