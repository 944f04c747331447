// Package di provides dependency injection configuration for pagetrail.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/catalog"
	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/di/providers"
	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is read from the process arguments.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	registerProviders(injector)

	return injector
}

// NewContainerWithConfig creates a container around an already loaded
// configuration and logger. The CLI uses this so it can parse its own flags.
func NewContainerWithConfig(cfg *config.Config, log *logger.Logger) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)

	registerProviders(injector)

	return injector
}

func registerProviders(injector do.Injector) {
	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideCatalogSearcher)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services including the HTTP server.
// This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	if err := BootstrapServices(injector); err != nil {
		return err
	}

	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}

// BootstrapServices initializes storage, search and business services without
// starting the HTTP server.
func BootstrapServices(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*catalog.Searcher](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LibraryService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.CatalogService](injector); err != nil {
		return err
	}
	return nil
}
