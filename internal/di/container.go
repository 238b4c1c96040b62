// Package di provides dependency injection configuration for the Manhua server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/manhuaapp/manhua-server/internal/auth"
	"github.com/manhuaapp/manhua-server/internal/config"
	"github.com/manhuaapp/manhua-server/internal/device"
	"github.com/manhuaapp/manhua-server/internal/di/providers"
	"github.com/manhuaapp/manhua-server/internal/logger"
	"github.com/manhuaapp/manhua-server/internal/remote"
	"github.com/manhuaapp/manhua-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideDeviceProvider)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Remote transport
	do.Provide(injector, providers.ProvideRemoteClient)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideContactService)
	do.Provide(injector, providers.ProvideAccountService)
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services, runs the catalog
// launch pass, then starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*device.Provider](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*remote.Client](injector)

	// Business services
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.ContactService](injector)
	_ = do.MustInvoke[*service.AccountService](injector)
	syncSvc := do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// The launch pass must publish a catalog before the server takes traffic.
	if err := syncSvc.Launch(context.Background()); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
