package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const keyDeviceID = "device:id"

// GetDeviceID returns the persisted device identifier, or ErrNotFound if
// this install has never been assigned one.
func (s *Store) GetDeviceID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyDeviceID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetDeviceID persists the device identifier. Only written once, at first
// boot.
func (s *Store) SetDeviceID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyDeviceID), []byte(id))
	})
	if err != nil {
		return fmt.Errorf("set device id: %w", err)
	}
	return nil
}
