package service

import (
	"context"
	"log/slog"

	"github.com/listenupapp/pagetrail/internal/catalog"
)

// CatalogService searches the public book catalog.
type CatalogService struct {
	searcher *catalog.Searcher
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(searcher *catalog.Searcher, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CatalogService{searcher: searcher, logger: logger}
}

// Search runs a catalog query. A newer search started before this one
// finishes supersedes it.
func (s *CatalogService) Search(ctx context.Context, query string) (*catalog.Result, error) {
	res, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, catalogError(err)
	}
	return &res, nil
}

// Last returns the most recent successful search, if any.
func (s *CatalogService) Last() (*catalog.Result, bool) {
	res, ok := s.searcher.Last()
	if !ok {
		return nil, false
	}
	return &res, true
}
