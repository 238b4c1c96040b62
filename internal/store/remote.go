package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

const keyRemoteConfig = "remote:config"

// GetRemoteConfig retrieves the stored remote sync configuration, or
// ErrNotFound when sync has never been set up.
func (s *Store) GetRemoteConfig(ctx context.Context) (*domain.RemoteConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cfg domain.RemoteConfig
	if err := s.get([]byte(keyRemoteConfig), &cfg); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get remote config: %w", err)
	}
	return &cfg, nil
}

// SaveRemoteConfig persists the remote sync configuration.
func (s *Store) SaveRemoteConfig(ctx context.Context, cfg *domain.RemoteConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set([]byte(keyRemoteConfig), cfg); err != nil {
		return fmt.Errorf("save remote config: %w", err)
	}
	return nil
}
