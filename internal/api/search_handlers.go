package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pagetrail/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Full-text search over titles, authors, descriptions, notes and tags of library entries",
		Tags:        []string{"Search"},
	}, s.handleSearchLibrary)
}

// SearchLibraryInput contains library search parameters.
type SearchLibraryInput struct {
	Query  string `query:"q" maxLength:"500" doc:"Free-text query, empty matches everything"`
	Status string `query:"status" doc:"Only entries with this status"`
	Tag    string `query:"tag" doc:"Only entries carrying this tag"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
	Offset int    `query:"offset" minimum:"0"`
}

// SearchLibraryOutput wraps library search results.
type SearchLibraryOutput struct {
	Body *search.Result
}

func (s *Server) handleSearchLibrary(ctx context.Context, input *SearchLibraryInput) (*SearchLibraryOutput, error) {
	res, err := s.services.Library.SearchLibrary(ctx, search.Params{
		Query:  input.Query,
		Status: input.Status,
		Tag:    input.Tag,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchLibraryOutput{Body: res}, nil
}
