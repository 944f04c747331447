package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/catalog"
	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/service"
)

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, indexHandle.Index, log.Component("library")), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	searcher := do.MustInvoke[*catalog.Searcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(searcher, log.Component("catalog")), nil
}
