package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/query"
	"github.com/listenupapp/pagetrail/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Description: "Returns the entries on a tab, optionally narrowed to one tag, with per-tab counts",
		Tags:        []string{"Library"},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/library",
		Summary:       "Add book",
		Description:   "Adds a catalog book to the library in the reading state",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}",
		Summary:     "Get entry",
		Tags:        []string{"Library"},
	}, s.handleGetEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEntryDetails",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{id}",
		Summary:     "Update entry details",
		Description: "Changes the personal rating, notes or reading goal. Omitted fields are kept",
		Tags:        []string{"Library"},
	}, s.handleUpdateDetails)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeEntry",
		Method:        http.MethodDelete,
		Path:          "/api/v1/library/{id}",
		Summary:       "Remove entry",
		Description:   "Removes a book from the library. Its tags stay registered",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/library/{id}/status",
		Summary:     "Change status",
		Tags:        []string{"Library"},
	}, s.handleChangeStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/library/{id}/progress",
		Summary:     "Update progress",
		Description: "Records the current page. Positive minutes also log a session",
		Tags:        []string{"Library"},
	}, s.handleUpdateProgress)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/library/{id}/sessions",
		Summary:       "Log reading session",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusCreated,
	}, s.handleLogSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "setEntryTags",
		Method:      http.MethodPut,
		Path:        "/api/v1/library/{id}/tags",
		Summary:     "Set entry tags",
		Tags:        []string{"Library", "Tags"},
	}, s.handleSetTags)
}

// === DTOs ===

// EntryIDInput identifies a library entry.
type EntryIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// EntryOutput wraps a single library entry.
type EntryOutput struct {
	Body *domain.LibraryEntry
}

// ListLibraryInput contains parameters for listing the library.
type ListLibraryInput struct {
	Tab string `query:"tab" enum:"all,reading,finished,did-not-finish,re-read" default:"all" doc:"Status tab"`
	Tag string `query:"tag" doc:"Only entries carrying this tag (case-insensitive)"`
}

// ListLibraryOutput wraps the filtered library view.
type ListLibraryOutput struct {
	Body *service.ListResult
}

// AddBookBody is the book to add.
type AddBookBody struct {
	ID            string   `json:"id" minLength:"1" maxLength:"256" doc:"Catalog volume ID"`
	Title         string   `json:"title" minLength:"1" maxLength:"1000" doc:"Book title"`
	Authors       []string `json:"authors,omitempty" doc:"Authors in display order"`
	Description   string   `json:"description,omitempty" doc:"Description, markdown"`
	CoverImage    string   `json:"coverImage,omitempty" doc:"Cover image URL"`
	PublishedDate string   `json:"publishedDate,omitempty" doc:"Publication date, possibly partial (2004 or 2004-05)"`
	AverageRating float64  `json:"averageRating,omitempty" minimum:"0" maximum:"5" doc:"Catalog average rating"`
	PageCount     int      `json:"pageCount,omitempty" minimum:"0" doc:"Number of pages, 0 when unknown"`
	Categories    []string `json:"categories,omitempty" doc:"Catalog categories"`
}

// AddBookInput wraps the add book request.
type AddBookInput struct {
	Body AddBookBody
}

// UpdateDetailsBody carries the detail fields to change.
type UpdateDetailsBody struct {
	PersonalRating *int    `json:"personalRating,omitempty" minimum:"0" maximum:"5" doc:"1-5, 0 clears the rating"`
	Notes          *string `json:"notes,omitempty" maxLength:"10000" doc:"Free-text notes"`
	ReadingGoal    *string `json:"readingGoal,omitempty" maxLength:"500" doc:"Free-text reading goal"`
}

// UpdateDetailsInput wraps the update details request.
type UpdateDetailsInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateDetailsBody
}

// ChangeStatusBody carries the target status.
type ChangeStatusBody struct {
	Status domain.Status `json:"status" enum:"reading,finished,did-not-finish" doc:"Target status. re-read is reached by adding a re-read entry"`
}

// ChangeStatusInput wraps the change status request.
type ChangeStatusInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body ChangeStatusBody
}

// UpdateProgressBody carries the current page.
type UpdateProgressBody struct {
	CurrentPage int `json:"currentPage" doc:"Current page, negative values count as 0"`
	Minutes     int `json:"minutes,omitempty" minimum:"0" maximum:"1440" doc:"Minutes read since the last update"`
}

// UpdateProgressInput wraps the update progress request.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateProgressBody
}

// LogSessionBody is a reading session.
type LogSessionBody struct {
	Date      *time.Time `json:"date,omitempty" doc:"When the session happened, defaults to now"`
	Minutes   int        `json:"minutes" minimum:"0" maximum:"1440" doc:"Minutes read"`
	PagesRead int        `json:"pagesRead,omitempty" doc:"Pages read, negative when moving back"`
}

// LogSessionInput wraps the log session request.
type LogSessionInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body LogSessionBody
}

// SetTagsBody carries the full tag set.
type SetTagsBody struct {
	Tags []string `json:"tags" maxItems:"100" doc:"Tags, de-duplicated case-insensitively"`
}

// SetTagsInput wraps the set tags request.
type SetTagsInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body SetTagsBody
}

// === Handlers ===

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*ListLibraryOutput, error) {
	sel := query.Selection{Tab: query.Tab(input.Tab), Tag: input.Tag}
	res, err := s.services.Library.ListEntries(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &ListLibraryOutput{Body: res}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*EntryOutput, error) {
	entry, err := s.services.Library.AddBook(ctx, service.AddBookRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	entry, err := s.services.Library.GetEntry(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateDetails(ctx context.Context, input *UpdateDetailsInput) (*EntryOutput, error) {
	entry, err := s.services.Library.UpdateDetails(ctx, input.ID, service.UpdateDetailsRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveEntry(ctx context.Context, input *EntryIDInput) (*struct{}, error) {
	if err := s.services.Library.RemoveEntry(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleChangeStatus(ctx context.Context, input *ChangeStatusInput) (*EntryOutput, error) {
	entry, err := s.services.Library.ChangeStatus(ctx, input.ID, service.ChangeStatusRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*EntryOutput, error) {
	entry, err := s.services.Library.UpdateProgress(ctx, input.ID, service.UpdateProgressRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleLogSession(ctx context.Context, input *LogSessionInput) (*EntryOutput, error) {
	entry, err := s.services.Library.LogSession(ctx, input.ID, service.LogSessionRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleSetTags(ctx context.Context, input *SetTagsInput) (*EntryOutput, error) {
	entry, err := s.services.Library.SetTags(ctx, input.ID, service.SetTagsRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}
