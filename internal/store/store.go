// Package store holds the reading library in memory and mirrors it to a Backend.
//
// Every mutation writes a full snapshot: the entry map under KeyLibrary and the
// tag registry under KeyTags. Loading never fails; missing or malformed data is
// logged and the store starts empty.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/util"
)

// Indexer is notified after entries change so derived indexes stay in sync.
type Indexer interface {
	IndexEntry(ctx context.Context, entry *domain.LibraryEntry) error
	DeleteEntry(ctx context.Context, id string) error
}

// NoopIndexer is an Indexer that does nothing.
type NoopIndexer struct{}

// IndexEntry is a no-op.
func (NoopIndexer) IndexEntry(context.Context, *domain.LibraryEntry) error { return nil }

// DeleteEntry is a no-op.
func (NoopIndexer) DeleteEntry(context.Context, string) error { return nil }

// Store is the library: book id → entry, plus the global tag registry.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]domain.LibraryEntry
	tags    []string

	// Set via SetIndexer once the search index exists.
	indexer Indexer
}

// New loads the library from backend.
func New(ctx context.Context, backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		entries: make(map[string]domain.LibraryEntry),
		indexer: NoopIndexer{},
	}
	s.load(ctx)
	return s
}

// SetIndexer sets the indexer notified after puts and removals.
func (s *Store) SetIndexer(indexer Indexer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	s.indexer = indexer
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Get returns a copy of the entry for id.
func (s *Store) Get(id string) (domain.LibraryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return domain.LibraryEntry{}, false
	}
	return e.Clone(), true
}

// Has reports whether id is in the library.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns copies of every entry ordered by id.
func (s *Store) All() []domain.LibraryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LibraryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Book.ID < out[j].Book.ID })
	return out
}

// Put inserts or replaces the entry for id.
//
// The in-memory change is kept even if the snapshot write fails; the error is
// returned so the caller can report it.
func (s *Store) Put(ctx context.Context, id string, book domain.Book, status domain.ReadingStatus) error {
	book.ID = id
	entry := domain.LibraryEntry{Book: book.Clone(), Status: *status.Clone()}

	s.mu.Lock()
	s.entries[id] = entry
	s.registerLocked(entry.Status.Tags)
	err := s.persistLocked(ctx)
	indexer := s.indexer
	s.mu.Unlock()

	s.index(ctx, indexer, entry)
	return err
}

// Insert adds the entry for id unless it already exists. It reports false
// and does nothing when id is taken.
func (s *Store) Insert(ctx context.Context, id string, book domain.Book, status domain.ReadingStatus) (bool, error) {
	book.ID = id
	entry := domain.LibraryEntry{Book: book.Clone(), Status: *status.Clone()}

	s.mu.Lock()
	if _, exists := s.entries[id]; exists {
		s.mu.Unlock()
		return false, nil
	}
	s.entries[id] = entry
	s.registerLocked(entry.Status.Tags)
	err := s.persistLocked(ctx)
	indexer := s.indexer
	s.mu.Unlock()

	s.index(ctx, indexer, entry)
	return true, err
}

// Modify runs fn on a copy of the entry for id and stores the status it
// returns. The write lock is held from read to write, so concurrent callers
// never start from the same state.
//
// It reports false when id is absent. An error from fn is returned as is and
// nothing is written.
func (s *Store) Modify(ctx context.Context, id string, fn func(domain.LibraryEntry) (*domain.ReadingStatus, error)) (domain.LibraryEntry, bool, error) {
	s.mu.Lock()
	current, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return domain.LibraryEntry{}, false, nil
	}

	next, err := fn(current.Clone())
	if err != nil {
		s.mu.Unlock()
		return domain.LibraryEntry{}, true, err
	}

	entry := domain.LibraryEntry{Book: current.Book, Status: *next.Clone()}
	s.entries[id] = entry
	s.registerLocked(entry.Status.Tags)
	err = s.persistLocked(ctx)
	indexer := s.indexer
	s.mu.Unlock()

	s.index(ctx, indexer, entry)
	return entry.Clone(), true, err
}

// Update replaces the tracking state of an existing entry.
// It reports false and does nothing when id is absent.
func (s *Store) Update(ctx context.Context, id string, status domain.ReadingStatus) (bool, error) {
	_, ok, err := s.Modify(ctx, id, func(domain.LibraryEntry) (*domain.ReadingStatus, error) {
		return &status, nil
	})
	return ok, err
}

// Remove deletes the entry for id. It reports false when id is absent.
// Tags stay in the registry.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.entries[id]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.entries, id)
	err := s.persistLocked(ctx)
	indexer := s.indexer
	s.mu.Unlock()

	if ierr := indexer.DeleteEntry(ctx, id); ierr != nil {
		s.logger.Warn("Failed to drop entry from index", "id", id, "error", ierr)
	}
	return true, err
}

// Tags returns the tag registry in the order tags were first used.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// RegisterTags adds tags to the registry. Case-insensitive duplicates are ignored.
func (s *Store) RegisterTags(ctx context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registerLocked(tags) {
		return nil
	}
	return s.writeTagsLocked(ctx)
}

// ReplaceAll swaps the whole library, as done by an import. Entries are
// checked before anything changes; a rejected entry yields ErrInvalidEntry.
// Any other error is a failed write after the swap took effect.
func (s *Store) ReplaceAll(ctx context.Context, entries []domain.LibraryEntry, tags []string) error {
	next := make(map[string]domain.LibraryEntry, len(entries))
	for _, e := range entries {
		if e.Book.ID == "" {
			return fmt.Errorf("%w: entry without book id", ErrInvalidEntry)
		}
		c := e.Clone()
		if _, err := c.Status.Migrate(); err != nil {
			return fmt.Errorf("%w: entry %s: %w", ErrInvalidEntry, e.Book.ID, err)
		}
		next[e.Book.ID] = c
	}

	s.mu.Lock()
	previous := s.entries
	s.entries = next
	s.tags = nil
	s.registerLocked(tags)
	for _, e := range next {
		s.registerLocked(e.Status.Tags)
	}
	err := s.persistLocked(ctx)
	indexer := s.indexer
	s.mu.Unlock()

	for id := range previous {
		if _, ok := next[id]; !ok {
			if ierr := indexer.DeleteEntry(ctx, id); ierr != nil {
				s.logger.Warn("Failed to drop entry from index", "id", id, "error", ierr)
			}
		}
	}
	for _, e := range next {
		s.index(ctx, indexer, e)
	}
	return err
}

func (s *Store) index(ctx context.Context, indexer Indexer, entry domain.LibraryEntry) {
	if err := indexer.IndexEntry(ctx, &entry); err != nil {
		s.logger.Warn("Failed to index entry", "id", entry.Book.ID, "error", err)
	}
}

// registerLocked merges tags into the registry and reports whether it grew.
func (s *Store) registerLocked(tags []string) bool {
	grew := false
	for _, t := range tags {
		clean := util.CleanTag(t)
		if clean == "" || util.ContainsTag(s.tags, clean) {
			continue
		}
		s.tags = append(s.tags, clean)
		grew = true
	}
	return grew
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := s.backend.Write(ctx, KeyLibrary, data); err != nil {
		s.logger.Error("Failed to persist library", "error", err)
		return fmt.Errorf("persist library: %w", err)
	}
	return s.writeTagsLocked(ctx)
}

func (s *Store) writeTagsLocked(ctx context.Context) error {
	tags := s.tags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	if err := s.backend.Write(ctx, KeyTags, data); err != nil {
		s.logger.Error("Failed to persist tags", "error", err)
		return fmt.Errorf("persist tags: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) {
	migrated := s.loadEntries(ctx)
	s.loadTags(ctx)

	if migrated > 0 {
		s.logger.Info("Rewriting library after migration", "migrated", migrated)
		if err := s.persistLocked(ctx); err != nil {
			s.logger.Warn("Migrated library not saved", "error", err)
		}
	}

	s.logger.Info("Library loaded", "entries", len(s.entries), "tags", len(s.tags))
}

// loadEntries decodes the library snapshot and returns how many entries were migrated.
// Entries that cannot be decoded or carry an unknown status are dropped.
func (s *Store) loadEntries(ctx context.Context) int {
	data, err := s.backend.Read(ctx, KeyLibrary)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("Library snapshot unreadable, starting empty", "error", err)
		}
		return 0
	}

	var raw map[string]jsonRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("Library snapshot malformed, starting empty", "error", err)
		return 0
	}

	migrated := 0
	for id, blob := range raw {
		var entry domain.LibraryEntry
		if err := json.Unmarshal(blob, &entry); err != nil {
			s.logger.Warn("Dropping undecodable entry", "id", id, "error", err)
			continue
		}

		before := entry.Status.Status
		changed, err := entry.Status.Migrate()
		if err != nil {
			s.logger.Warn("Dropping entry with unknown status", "id", id, "error", err)
			continue
		}
		if changed {
			migrated++
			s.logger.Info("Migrated entry", "id", id, "from", before, "to", entry.Status.Status)
		}

		entry.Book.ID = id
		s.entries[id] = entry
	}
	return migrated
}

func (s *Store) loadTags(ctx context.Context) {
	data, err := s.backend.Read(ctx, KeyTags)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("Tag registry unreadable, starting empty", "error", err)
		}
		return
	}

	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		s.logger.Warn("Tag registry malformed, starting empty", "error", err)
		return
	}
	s.registerLocked(tags)
}
