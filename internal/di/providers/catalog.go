package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/api"
	"github.com/listenupapp/pagetrail/internal/catalog"
	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/logger"
)

// CatalogClientHandle wraps the catalog client with shutdown capability.
type CatalogClientHandle struct {
	*catalog.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideCatalogClient provides the book catalog HTTP client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := catalog.New(catalog.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		MaxResults:        cfg.Catalog.MaxResults,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		UserAgent:         "pagetrail/" + api.Version,
	}, log.Component("catalog"))

	log.Info("Catalog client configured",
		"base_url", cfg.Catalog.BaseURL,
		"api_key_set", cfg.Catalog.APIKey != "",
		"max_results", cfg.Catalog.MaxResults,
	)

	return &CatalogClientHandle{Client: client}, nil
}

// ProvideCatalogSearcher provides the latest-wins catalog searcher.
func ProvideCatalogSearcher(i do.Injector) (*catalog.Searcher, error) {
	clientHandle := do.MustInvoke[*CatalogClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewSearcher(clientHandle.Client, log.Component("catalog")), nil
}
