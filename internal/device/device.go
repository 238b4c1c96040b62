// Package device assigns this install its opaque identifier. The identifier
// is a usage-limiting heuristic for binding accounts to one install, not a
// security credential.
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/store"
)

// Provider hands out the stable device identifier, generating and persisting
// one on first use.
type Provider struct {
	store *store.Store

	mu     sync.Mutex
	cached string
}

// NewProvider creates a provider backed by the given store.
func NewProvider(s *store.Store) *Provider {
	return &Provider{store: s}
}

// DeviceID returns the install's identifier. The first call ever generates a
// UUID and persists it; every later call, across restarts, returns the same
// value for the lifetime of the data directory.
func (p *Provider) DeviceID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	id, err := p.store.GetDeviceID(ctx)
	if err == nil {
		p.cached = id
		return id, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("load device id: %w", err)
	}

	id = uuid.NewString()
	if err := p.store.SetDeviceID(ctx, id); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}

	p.cached = id
	return id, nil
}
