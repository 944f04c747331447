package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listenupapp/pagetrail/internal/domain"
)

// Source is anything that can run a catalog search.
type Source interface {
	Search(ctx context.Context, query string) ([]domain.Book, error)
}

// Result is one completed search.
type Result struct {
	RequestID string        `json:"requestId"`
	Query     string        `json:"query"`
	Books     []domain.Book `json:"books"`
	At        time.Time     `json:"at"`
}

// Searcher runs searches with latest-request-wins semantics. Starting a search
// cancels the one in flight; a response that arrives after a newer search
// started is discarded with ErrSuperseded. A failed search leaves the last
// good result in place.
type Searcher struct {
	source Source
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	last   *Result
}

// NewSearcher creates a Searcher over source.
func NewSearcher(source Source, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Searcher{source: source, logger: logger, now: time.Now}
}

// Search runs query. Empty queries are rejected before anything is cancelled
// or sent.
func (s *Searcher) Search(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, wrapError("search", query, "", ErrEmptyQuery)
	}

	requestID := uuid.NewString()
	reqCtx, cancel := context.WithCancel(WithRequestID(ctx, requestID))
	defer cancel()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	books, err := s.source.Search(reqCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("discarding superseded catalog response", "request_id", requestID, "query", query)
		return Result{}, wrapError("search", query, requestID, ErrSuperseded)
	}
	s.cancel = nil

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("catalog search failed", "request_id", requestID, "query", query, "error", err)
		}
		return Result{}, err
	}

	if books == nil {
		books = []domain.Book{}
	}
	res := Result{RequestID: requestID, Query: query, Books: books, At: s.now()}
	s.last = &res
	return res, nil
}

// Last returns the most recent successful result.
func (s *Searcher) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}
