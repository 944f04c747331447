package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex builds the in-memory library index from the store and
// registers it as the store's indexer.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.New(search.Options{Logger: log.Component("search")})
	if err != nil {
		return nil, err
	}

	if err := index.Rebuild(storeHandle.All()); err != nil {
		_ = index.Close()
		return nil, err
	}
	storeHandle.SetIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}
