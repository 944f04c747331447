package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pagetrail/internal/catalog"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog",
		Description: "Searches the public book catalog. A newer search supersedes one still in flight",
		Tags:        []string{"Catalog"},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "lastCatalogSearch",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search/last",
		Summary:     "Last catalog search",
		Description: "Returns the most recent successful catalog search",
		Tags:        []string{"Catalog"},
	}, s.handleLastCatalogSearch)
}

// SearchCatalogInput contains the catalog query.
type SearchCatalogInput struct {
	Query string `query:"q" maxLength:"500" doc:"Free-text query"`
}

// CatalogSearchOutput wraps one catalog search result.
type CatalogSearchOutput struct {
	Body *catalog.Result
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*CatalogSearchOutput, error) {
	res, err := s.services.Catalog.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &CatalogSearchOutput{Body: res}, nil
}

func (s *Server) handleLastCatalogSearch(_ context.Context, _ *struct{}) (*CatalogSearchOutput, error) {
	res, ok := s.services.Catalog.Last()
	if !ok {
		return nil, huma.Error404NotFound("no catalog search has completed yet")
	}
	return &CatalogSearchOutput{Body: res}, nil
}
