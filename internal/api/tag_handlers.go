package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag used in the library, in first-use order",
		Tags:        []string{"Tags"},
	}, s.handleListTags)
}

// TagsResponse lists the tag registry.
type TagsResponse struct {
	Tags []string `json:"tags" doc:"Registered tags"`
}

// ListTagsOutput wraps the tag registry.
type ListTagsOutput struct {
	Body TagsResponse
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	return &ListTagsOutput{Body: TagsResponse{Tags: s.services.Library.ListTags(ctx)}}, nil
}
