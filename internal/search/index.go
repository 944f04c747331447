package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/pagetrail/internal/domain"
)

// Index wraps an in-memory Bleve index of library entries.
// The store is the source of truth, so the index is rebuilt at start-up
// instead of being persisted.
//
// All public methods are safe for concurrent use.
type Index struct {
	mu     sync.RWMutex // Protects index swaps during rebuild
	index  bleve.Index
	logger *slog.Logger
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // Uses discard if nil
}

// New creates an empty in-memory index.
func New(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: index, logger: logger}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexEntry indexes or re-indexes a single entry.
func (s *Index) IndexEntry(_ context.Context, e *domain.LibraryEntry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := DocumentFromEntry(e)
	return s.index.Index(doc.ID, doc.ToMap())
}

// DeleteEntry removes an entry from the index.
func (s *Index) DeleteEntry(_ context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index contents with entries.
func (s *Index) Rebuild(entries []domain.LibraryEntry) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	const batchSize = 500

	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))

		batch := fresh.NewBatch()
		for j := i; j < end; j++ {
			doc := DocumentFromEntry(&entries[j])
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				_ = fresh.Close()
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := fresh.Batch(batch); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Info("rebuilt search index", "documents", len(entries))
	return nil
}
