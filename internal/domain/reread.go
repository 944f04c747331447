package domain

import "time"

// ReReadEntry records one additional complete pass through a finished book.
type ReReadEntry struct {
	ID            string     `json:"id"`
	DateStarted   *time.Time `json:"dateStarted,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`
	Rating        int        `json:"rating,omitempty"` // 1-5, 0 when unrated
	Notes         string     `json:"notes,omitempty"`
	Minutes       int        `json:"minutes,omitempty"`
}

// ReReadPatch carries the fields to change on an existing entry.
// Nil fields are left untouched.
type ReReadPatch struct {
	DateStarted   *time.Time
	DateCompleted *time.Time
	Rating        *int
	Notes         *string
	Minutes       *int
}

// Clone returns a deep copy of the entry.
func (r ReReadEntry) Clone() ReReadEntry {
	r.DateStarted = cloneTime(r.DateStarted)
	r.DateCompleted = cloneTime(r.DateCompleted)
	return r
}

// ValidRating reports whether r is an acceptable 1-5 rating.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
