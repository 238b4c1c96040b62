package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/id"
	"github.com/manhuaapp/manhua-server/internal/remote"
	"github.com/manhuaapp/manhua-server/internal/store"
)

// LaunchState names the phases of the startup pass, in order.
type LaunchState string

const (
	StateUnloaded      LaunchState = "unloaded"
	StateRemoteAttempt LaunchState = "remote_attempted"
	StateLocalFallback LaunchState = "local_fallback"
	StateNormalized    LaunchState = "normalized"
	StateReady         LaunchState = "ready"
)

// SyncService runs the launch-time synchronization pass and the
// admin-triggered push/pull operations.
//
// The pass is strictly sequential and runs at most once at a time. Remote
// wins over local, local wins over the starter seed, and nothing is
// published until the chosen source is normalized, so no reader ever
// observes a partial catalog.
type SyncService struct {
	store    *store.Store
	remote   *remote.Client
	catalog  *CatalogService
	contacts *ContactService
	seed     domain.RemoteConfig
	logger   *slog.Logger

	mu    sync.Mutex
	state LaunchState
}

// NewSyncService creates the coordinator. seed is the environment-provided
// remote configuration, persisted on first launch when the store has none.
func NewSyncService(
	s *store.Store,
	remoteClient *remote.Client,
	catalog *CatalogService,
	contacts *ContactService,
	seed domain.RemoteConfig,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		store:    s,
		remote:   remoteClient,
		catalog:  catalog,
		contacts: contacts,
		seed:     seed,
		logger:   logger,
		state:    StateUnloaded,
	}
}

// State returns the current launch state.
func (s *SyncService) State() LaunchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Launch runs the startup pass: try remote, fall back to local, fall back
// to the starter seed, normalize, publish.
func (s *SyncService) Launch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateUnloaded

	var comics []domain.Comic
	var contacts []domain.SupportContact
	adopted := false

	cfg, err := s.resolveRemoteConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.IsConfigured() {
		s.state = StateRemoteAttempt
		if snapshot := s.remote.Fetch(ctx, cfg); snapshot != nil {
			if err := s.adoptLocked(ctx, snapshot); err != nil {
				return err
			}
			comics = snapshot.Comics
			contacts = snapshot.Contacts
			adopted = true
			s.logger.Info("adopted remote snapshot",
				"comics", len(comics),
				"pushed_at", snapshot.PushedAt,
				"pushed_by", snapshot.PushedBy,
			)
		}
	}

	if !adopted {
		s.state = StateLocalFallback
		comics, contacts, err = s.loadLocalLocked(ctx)
		if err != nil {
			return err
		}
	}

	s.state = StateNormalized
	for i := range comics {
		comics[i].Normalize()
	}

	if err := s.catalog.Publish(ctx, comics); err != nil {
		return err
	}
	s.contacts.Publish(contacts)

	s.state = StateReady
	s.logger.Info("launch pass complete", "comics", len(comics), "contacts", len(contacts))
	return nil
}

// loadLocalLocked reads catalog and contacts from the local store, seeding
// the built-in starter data on a fresh install.
func (s *SyncService) loadLocalLocked(ctx context.Context) ([]domain.Comic, []domain.SupportContact, error) {
	comics, err := s.store.GetCatalog(ctx)
	if err != nil {
		if !domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		comics = domain.DefaultCatalog()
		if err := s.store.SaveCatalog(ctx, comics); err != nil {
			return nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
		s.logger.Info("seeded starter catalog", "comics", len(comics))
	}

	contacts, err := s.store.GetContacts(ctx)
	if err != nil {
		if !domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("load contacts: %w", err)
		}
		contacts = domain.DefaultContacts()
		if err := s.store.SaveContacts(ctx, contacts); err != nil {
			return nil, nil, fmt.Errorf("seed contacts: %w", err)
		}
	}

	return comics, contacts, nil
}

// adoptLocked writes an authoritative remote snapshot into the local store.
// A snapshot carrying an accounts table overwrites the local one outright;
// last fetched wins, and a local account created since the other device's
// push is gone. Known limitation of the single-file model, surfaced to
// admins through pushed_at rather than papered over.
func (s *SyncService) adoptLocked(ctx context.Context, snapshot *domain.Snapshot) error {
	snapshot.Normalize()

	if err := s.store.SaveCatalog(ctx, snapshot.Comics); err != nil {
		return fmt.Errorf("adopt catalog: %w", err)
	}
	if err := s.store.SaveContacts(ctx, snapshot.Contacts); err != nil {
		return fmt.Errorf("adopt contacts: %w", err)
	}

	if len(snapshot.Accounts) > 0 {
		accounts := make(map[string]domain.Account, len(snapshot.Accounts))
		for email, account := range snapshot.Accounts {
			if account.Email == "" {
				account.Email = email
			}
			if account.ID == "" {
				accountID, err := id.Generate("account")
				if err != nil {
					return fmt.Errorf("generate account ID: %w", err)
				}
				account.ID = accountID
			}
			accounts[email] = account
		}
		if err := s.store.ReplaceAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("adopt accounts: %w", err)
		}
		s.logger.Info("accounts table overwritten from snapshot", "accounts", len(accounts))
	}

	return nil
}

// Pull fetches the remote snapshot and adopts it, with the same semantics
// as the launch-time attempt. Returns false when the snapshot is absent.
func (s *SyncService) Pull(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.requireRemoteConfig(ctx)
	if err != nil {
		return false, err
	}

	snapshot := s.remote.Fetch(ctx, cfg)
	if snapshot == nil {
		return false, nil
	}

	if err := s.adoptLocked(ctx, snapshot); err != nil {
		return false, err
	}
	if err := s.catalog.Publish(ctx, snapshot.Comics); err != nil {
		return false, err
	}
	s.contacts.Publish(snapshot.Contacts)

	s.logger.Info("pulled remote snapshot", "comics", len(snapshot.Comics))
	return true, nil
}

// Push assembles the full local state and writes it to the remote. pushedBy
// records the identity of the admin who triggered it.
func (s *SyncService) Push(ctx context.Context, pushedBy string) error {
	cfg, err := s.requireRemoteConfig(ctx)
	if err != nil {
		return err
	}

	accounts, err := s.store.SnapshotAccounts(ctx)
	if err != nil {
		return fmt.Errorf("assemble accounts: %w", err)
	}

	snapshot := &domain.Snapshot{
		Comics:   s.catalog.Export(),
		Accounts: accounts,
		Contacts: s.contacts.List(),
		PushedAt: time.Now().UTC(),
		PushedBy: pushedBy,
	}

	return s.remote.Push(ctx, cfg, snapshot)
}

// RemoteStatus describes the remote sync setup for admins.
type RemoteStatus struct {
	Configured bool        `json:"configured"`
	Connected  bool        `json:"connected"`
	Repo       string      `json:"repo,omitempty"`
	State      LaunchState `json:"state"`
}

// Status probes the remote and reports connectivity.
func (s *SyncService) Status(ctx context.Context) (*RemoteStatus, error) {
	status := &RemoteStatus{State: s.State()}

	cfg, err := s.store.GetRemoteConfig(ctx)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return status, nil
		}
		return nil, fmt.Errorf("load remote config: %w", err)
	}

	status.Configured = cfg.IsConfigured()
	status.Repo = cfg.Repo
	if status.Configured {
		status.Connected = s.remote.Probe(ctx, cfg)
	}
	return status, nil
}

// RemoteConfigRequest carries a new remote sync configuration.
type RemoteConfigRequest struct {
	Token string `json:"token" validate:"required"`
	Repo  string `json:"repo" validate:"required,contains=/"`
}

// SaveRemoteConfig persists a new remote configuration.
func (s *SyncService) SaveRemoteConfig(ctx context.Context, req RemoteConfigRequest) (*domain.RemoteConfig, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	cfg := &domain.RemoteConfig{
		Token:     req.Token,
		Repo:      req.Repo,
		UpdatedAt: time.Now(),
	}
	if err := s.store.SaveRemoteConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("remote config saved", "repo", cfg.Repo)
	return cfg, nil
}

// resolveRemoteConfig loads the stored configuration, falling back to the
// environment seed on a fresh install (and persisting it).
func (s *SyncService) resolveRemoteConfig(ctx context.Context) (*domain.RemoteConfig, error) {
	cfg, err := s.store.GetRemoteConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load remote config: %w", err)
	}

	if s.seed.IsConfigured() {
		seeded := s.seed
		seeded.UpdatedAt = time.Now()
		if err := s.store.SaveRemoteConfig(ctx, &seeded); err != nil {
			return nil, fmt.Errorf("persist seed remote config: %w", err)
		}
		return &seeded, nil
	}

	return &domain.RemoteConfig{}, nil
}

// requireRemoteConfig loads the stored configuration and fails when sync
// has not been set up.
func (s *SyncService) requireRemoteConfig(ctx context.Context) (*domain.RemoteConfig, error) {
	cfg, err := s.store.GetRemoteConfig(ctx)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Validation("remote sync is not configured")
		}
		return nil, fmt.Errorf("load remote config: %w", err)
	}
	if !cfg.IsConfigured() {
		return nil, domainerrors.Validation("remote sync is not configured")
	}
	return cfg, nil
}
