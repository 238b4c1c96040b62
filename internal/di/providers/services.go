package providers

import (
	"github.com/samber/do/v2"

	"github.com/manhuaapp/manhua-server/internal/auth"
	"github.com/manhuaapp/manhua-server/internal/config"
	"github.com/manhuaapp/manhua-server/internal/device"
	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/logger"
	"github.com/manhuaapp/manhua-server/internal/remote"
	"github.com/manhuaapp/manhua-server/internal/service"
)

// ProvideRemoteClient provides the remote snapshot client.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return remote.NewClient(cfg.Remote.BaseURL, log.Logger), nil
}

// ProvideCatalogService provides the in-memory catalog.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideContactService provides the support contact list.
func ProvideContactService(i do.Injector) (*service.ContactService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContactService(storeHandle.Store, log.Logger), nil
}

// ProvideAccountService provides login, sessions, and per-account state.
func ProvideAccountService(i do.Injector) (*service.AccountService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	devices := do.MustInvoke[*device.Provider](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	catalog := do.MustInvoke[*service.CatalogService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccountService(storeHandle.Store, devices, tokens, catalog, cfg.Admin.Email, log.Logger), nil
}

// ProvideSyncService provides the launch-time synchronization coordinator.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteClient := do.MustInvoke[*remote.Client](i)
	catalog := do.MustInvoke[*service.CatalogService](i)
	contacts := do.MustInvoke[*service.ContactService](i)
	log := do.MustInvoke[*logger.Logger](i)

	seed := domain.RemoteConfig{
		Token: cfg.Remote.Token,
		Repo:  cfg.Remote.Repo,
	}

	return service.NewSyncService(storeHandle.Store, remoteClient, catalog, contacts, seed, log.Logger), nil
}

// ProvideRecommendationService provides the reading suggestion helper.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(cfg.Recommend, log.Logger), nil
}
