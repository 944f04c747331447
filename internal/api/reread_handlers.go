package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pagetrail/internal/service"
)

func (s *Server) registerReReadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addReRead",
		Method:        http.MethodPost,
		Path:          "/api/v1/library/{id}/rereads",
		Summary:       "Add re-read",
		Description:   "Records a completed re-read and moves the entry to re-read",
		Tags:          []string{"Re-reads"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddReRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "editReRead",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{id}/rereads/{rereadId}",
		Summary:     "Edit re-read",
		Tags:        []string{"Re-reads"},
	}, s.handleEditReRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReRead",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{id}/rereads/{rereadId}",
		Summary:     "Delete re-read",
		Description: "Deleting the last re-read restores the status held before the first one",
		Tags:        []string{"Re-reads"},
	}, s.handleDeleteReRead)
}

// AddReReadBody is a completed re-read.
type AddReReadBody struct {
	DateStarted   *time.Time `json:"dateStarted,omitempty" doc:"When the re-read started"`
	DateCompleted *time.Time `json:"dateCompleted" doc:"When the re-read was completed"`
	Rating        int        `json:"rating,omitempty" minimum:"0" maximum:"5" doc:"1-5, 0 when unrated"`
	Notes         string     `json:"notes,omitempty" maxLength:"10000"`
	Minutes       int        `json:"minutes,omitempty" minimum:"0" doc:"Time spent on the re-read"`
}

// AddReReadInput wraps the add re-read request.
type AddReReadInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body AddReReadBody
}

// EditReReadBody carries the re-read fields to change.
type EditReReadBody struct {
	DateStarted   *time.Time `json:"dateStarted,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`
	Rating        *int       `json:"rating,omitempty" minimum:"0" maximum:"5"`
	Notes         *string    `json:"notes,omitempty" maxLength:"10000"`
	Minutes       *int       `json:"minutes,omitempty" minimum:"0"`
}

// EditReReadInput wraps the edit re-read request.
type EditReReadInput struct {
	ID       string `path:"id" doc:"Book ID"`
	ReReadID string `path:"rereadId" doc:"Re-read entry ID"`
	Body     EditReReadBody
}

// ReReadIDInput identifies a re-read entry.
type ReReadIDInput struct {
	ID       string `path:"id" doc:"Book ID"`
	ReReadID string `path:"rereadId" doc:"Re-read entry ID"`
}

func (s *Server) handleAddReRead(ctx context.Context, input *AddReReadInput) (*EntryOutput, error) {
	entry, err := s.services.Library.AddReRead(ctx, input.ID, service.AddReReadRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleEditReRead(ctx context.Context, input *EditReReadInput) (*EntryOutput, error) {
	entry, err := s.services.Library.EditReRead(ctx, input.ID, input.ReReadID, service.EditReReadRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleDeleteReRead(ctx context.Context, input *ReReadIDInput) (*EntryOutput, error) {
	entry, err := s.services.Library.DeleteReRead(ctx, input.ID, input.ReReadID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}
