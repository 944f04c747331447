package domain

// LibraryEntry pairs a book with its tracking state. Entries are keyed by Book.ID.
type LibraryEntry struct {
	Book   Book          `json:"book"`
	Status ReadingStatus `json:"status"`
}

// ID returns the library key of the entry.
func (e *LibraryEntry) ID() string {
	return e.Book.ID
}

// Clone returns a deep copy of the entry.
func (e LibraryEntry) Clone() LibraryEntry {
	return LibraryEntry{
		Book:   e.Book.Clone(),
		Status: *e.Status.Clone(),
	}
}

// Progress returns reading progress as a 0-1 fraction, or 0 when the page count is unknown.
func (e *LibraryEntry) Progress() float64 {
	if !e.Book.HasPageCount() {
		return 0
	}
	p := float64(e.Status.CurrentPage) / float64(e.Book.PageCount)
	if p > 1 {
		return 1
	}
	return p
}
