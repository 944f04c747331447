// Package service provides the business logic layer of pagetrail: it applies the
// reading rules to library entries, persists the results and serves derived views.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
	domainerrors "github.com/listenupapp/pagetrail/internal/errors"
	"github.com/listenupapp/pagetrail/internal/id"
	"github.com/listenupapp/pagetrail/internal/query"
	"github.com/listenupapp/pagetrail/internal/reading"
	"github.com/listenupapp/pagetrail/internal/search"
	"github.com/listenupapp/pagetrail/internal/stats"
	"github.com/listenupapp/pagetrail/internal/store"
	"github.com/listenupapp/pagetrail/internal/validation"
)

// LibraryService orchestrates library operations.
type LibraryService struct {
	store     *store.Store
	index     *search.Index
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
	reReadIDs id.Generator
}

// Option configures a LibraryService.
type Option func(*LibraryService)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *LibraryService) { s.now = now }
}

// WithReReadIDs sets the re-read entry ID generator.
func WithReReadIDs(gen id.Generator) Option {
	return func(s *LibraryService) { s.reReadIDs = gen }
}

// NewLibraryService creates a new library service. index may be nil, in which
// case SearchLibrary reports the search as unavailable.
func NewLibraryService(st *store.Store, index *search.Index, logger *slog.Logger, opts ...Option) *LibraryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &LibraryService{
		store:     st,
		index:     index,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
		reReadIDs: id.ReReadIDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListResult is one filtered view of the library.
type ListResult struct {
	Selection query.Selection       `json:"selection"`
	Entries   []domain.LibraryEntry `json:"entries"`
	Counts    map[query.Tab]int     `json:"counts"`
	Tags      []string              `json:"tags"`
}

// HeatmapResult is the activity calendar with streaks.
type HeatmapResult struct {
	Days          []stats.Day `json:"days"`
	CurrentStreak int         `json:"currentStreak"`
	LongestStreak int         `json:"longestStreak"`
}

// Snapshot is the exported form of the whole library.
type Snapshot struct {
	Library map[string]domain.LibraryEntry `json:"library"`
	Tags    []string                       `json:"tags"`
}

// AddBook adds a book in the reading state. A book already in the library is
// a conflict.
func (s *LibraryService) AddBook(ctx context.Context, req AddBookRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	book := req.book()

	status, err := reading.ChangeStatus(nil, domain.StatusReading, s.now())
	if err != nil {
		return nil, ruleError(err)
	}

	inserted, err := s.store.Insert(ctx, book.ID, book, *status)
	if !inserted {
		return nil, domainerrors.Conflictf("book %s is already in the library", book.ID)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save library")
	}

	s.logger.Info("book added", "id", book.ID, "title", book.Title)
	return s.GetEntry(ctx, book.ID)
}

// GetEntry returns the entry for id.
func (s *LibraryService) GetEntry(_ context.Context, bookID string) (*domain.LibraryEntry, error) {
	e, ok := s.store.Get(bookID)
	if !ok {
		return nil, notInLibrary(bookID)
	}
	return &e, nil
}

// ListEntries returns the entries matching sel with per-tab counts.
func (s *LibraryService) ListEntries(_ context.Context, sel query.Selection) (*ListResult, error) {
	if sel.Tab == "" {
		sel.Tab = query.TabAll
	}
	if _, err := query.ParseTab(string(sel.Tab)); err != nil {
		return nil, domainerrors.Validationf("unknown tab %q", sel.Tab)
	}

	all := s.store.All()
	return &ListResult{
		Selection: sel,
		Entries:   query.Filter(all, sel),
		Counts:    query.Counts(all),
		Tags:      s.store.Tags(),
	}, nil
}

// RemoveEntry deletes the entry for id. Its tags stay registered.
func (s *LibraryService) RemoveEntry(ctx context.Context, bookID string) error {
	ok, err := s.store.Remove(ctx, bookID)
	if !ok {
		return notInLibrary(bookID)
	}
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "save library")
	}
	s.logger.Info("book removed", "id", bookID)
	return nil
}

// ChangeStatus moves the entry to another lifecycle status.
func (s *LibraryService) ChangeStatus(ctx context.Context, bookID string, req ChangeStatusRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, bookID, "change status", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.ChangeStatus(&e.Status, req.Status, now)
	})
}

// UpdateProgress records the current page. Positive minutes also log a session.
func (s *LibraryService) UpdateProgress(ctx context.Context, bookID string, req UpdateProgressRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, bookID, "update progress", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.UpdateProgress(&e.Status, e.Book, req.CurrentPage, req.Minutes, now)
	})
}

// LogSession appends a reading session.
func (s *LibraryService) LogSession(ctx context.Context, bookID string, req LogSessionRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	session := domain.ReadingSession{Minutes: req.Minutes, PagesRead: req.PagesRead}
	if req.Date != nil {
		session.Date = *req.Date
	}
	return s.apply(ctx, bookID, "log session", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.LogSession(&e.Status, session, now)
	})
}

// AddReRead records a completed re-read and returns the updated entry.
func (s *LibraryService) AddReRead(ctx context.Context, bookID string, req AddReReadRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	rereadID, err := s.reReadIDs()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate re-read id")
	}
	entry := domain.ReReadEntry{
		ID:            rereadID,
		DateStarted:   req.DateStarted,
		DateCompleted: req.DateCompleted,
		Rating:        req.Rating,
		Notes:         strings.TrimSpace(req.Notes),
		Minutes:       req.Minutes,
	}
	return s.apply(ctx, bookID, "add re-read", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.AddReRead(&e.Status, entry, now)
	})
}

// EditReRead changes a re-read entry.
func (s *LibraryService) EditReRead(ctx context.Context, bookID, rereadID string, req EditReReadRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	patch := domain.ReReadPatch{
		DateStarted:   req.DateStarted,
		DateCompleted: req.DateCompleted,
		Rating:        req.Rating,
		Notes:         req.Notes,
		Minutes:       req.Minutes,
	}
	return s.apply(ctx, bookID, "edit re-read", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.EditReRead(&e.Status, rereadID, patch, now)
	})
}

// DeleteReRead removes a re-read entry. Removing the last one restores the
// status held before the first re-read.
func (s *LibraryService) DeleteReRead(ctx context.Context, bookID, rereadID string) (*domain.LibraryEntry, error) {
	return s.apply(ctx, bookID, "delete re-read", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.DeleteReRead(&e.Status, rereadID, now)
	})
}

// UpdateDetails changes the personal rating, notes and reading goal.
func (s *LibraryService) UpdateDetails(ctx context.Context, bookID string, req UpdateDetailsRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, bookID, "update details", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		next := &e.Status
		var err error
		if req.PersonalRating != nil {
			if next, err = reading.SetRating(next, *req.PersonalRating, now); err != nil {
				return nil, err
			}
		}
		if req.Notes != nil {
			if next, err = reading.SetNotes(next, *req.Notes, now); err != nil {
				return nil, err
			}
		}
		if req.ReadingGoal != nil {
			if next, err = reading.SetReadingGoal(next, strings.TrimSpace(*req.ReadingGoal), now); err != nil {
				return nil, err
			}
		}
		return next.Clone(), nil
	})
}

// SetTags replaces the tags of an entry. New tags join the registry.
func (s *LibraryService) SetTags(ctx context.Context, bookID string, req SetTagsRequest) (*domain.LibraryEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, bookID, "set tags", func(e *domain.LibraryEntry, now time.Time) (*domain.ReadingStatus, error) {
		return reading.SetTags(&e.Status, req.Tags, now)
	})
}

// ListTags returns every tag used in the library, in first-use order.
func (s *LibraryService) ListTags(_ context.Context) []string {
	return s.store.Tags()
}

// Stats computes the dashboard summary.
func (s *LibraryService) Stats(_ context.Context) stats.Summary {
	return stats.Summarize(s.store.All(), s.now())
}

// Heatmap returns the last days of activity, oldest first.
func (s *LibraryService) Heatmap(_ context.Context, days int) HeatmapResult {
	now := s.now()
	h := stats.Heatmap(s.store.All(), now.Location())
	return HeatmapResult{
		Days:          stats.Calendar(h, now, days),
		CurrentStreak: stats.CurrentStreak(h, now),
		LongestStreak: stats.LongestStreak(h),
	}
}

// SearchLibrary runs a full-text search over the library.
func (s *LibraryService) SearchLibrary(ctx context.Context, params search.Params) (*search.Result, error) {
	if s.index == nil {
		return nil, domainerrors.Unavailable("library search is not enabled")
	}
	if params.Status != "" && !domain.Status(params.Status).Valid() {
		return nil, domainerrors.Validationf("unknown status %q", params.Status)
	}
	res, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search library")
	}
	return res, nil
}

// Export returns a copy of the whole library.
func (s *LibraryService) Export(_ context.Context) Snapshot {
	entries := s.store.All()
	snap := Snapshot{
		Library: make(map[string]domain.LibraryEntry, len(entries)),
		Tags:    s.store.Tags(),
	}
	for _, e := range entries {
		snap.Library[e.Book.ID] = e
	}
	return snap
}

// Import replaces the library with snap. Keys win over the embedded book ids.
func (s *LibraryService) Import(ctx context.Context, snap Snapshot) (int, error) {
	entries := make([]domain.LibraryEntry, 0, len(snap.Library))
	for key, e := range snap.Library {
		if strings.TrimSpace(key) == "" {
			return 0, domainerrors.Validation("library key must not be empty")
		}
		e.Book.ID = key
		entries = append(entries, e)
	}

	if err := s.store.ReplaceAll(ctx, entries, snap.Tags); err != nil {
		if errors.Is(err, store.ErrInvalidEntry) {
			return 0, domainerrors.Wrap(err, domainerrors.CodeValidation, "import library")
		}
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "save imported library")
	}
	s.logger.Info("library imported", "entries", len(entries), "tags", len(snap.Tags))
	return len(entries), nil
}

// apply runs rule against the current entry and stores the result. The store
// holds its write lock for the whole step. Nothing is written if the entry is
// absent or the rule fails.
func (s *LibraryService) apply(ctx context.Context, bookID, op string, rule func(*domain.LibraryEntry, time.Time) (*domain.ReadingStatus, error)) (*domain.LibraryEntry, error) {
	var ruleErr error
	e, ok, err := s.store.Modify(ctx, bookID, func(current domain.LibraryEntry) (*domain.ReadingStatus, error) {
		next, err := rule(&current, s.now())
		ruleErr = err
		return next, err
	})
	if !ok {
		return nil, notInLibrary(bookID)
	}
	if ruleErr != nil {
		return nil, ruleError(ruleErr)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save library")
	}

	s.logger.Debug("entry updated", "id", bookID, "op", op, "status", e.Status.Status)
	return &e, nil
}

func notInLibrary(bookID string) error {
	return domainerrors.NotFoundf("book %s is not in the library", bookID)
}
