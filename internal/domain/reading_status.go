package domain

import (
	"fmt"
	"time"
)

// CurrentSchemaVersion is written with every status record.
// Version 1 used want-to-read/reading/read and carried no version field.
const CurrentSchemaVersion = 2

// ReadingStatus is the mutable tracking state of one library entry.
type ReadingStatus struct {
	Status         Status           `json:"status"`
	DateAdded      time.Time        `json:"dateAdded"`
	DateStarted    *time.Time       `json:"dateStarted,omitempty"`
	DateCompleted  *time.Time       `json:"dateCompleted,omitempty"`
	CurrentPage    int              `json:"currentPage,omitempty"`
	PersonalRating int              `json:"personalRating,omitempty"` // 1-5, 0 when unrated
	Notes          string           `json:"notes,omitempty"`
	ReadingGoal    string           `json:"readingGoal,omitempty"`
	Sessions       []ReadingSession `json:"sessions,omitempty"`
	LastUpdated    *time.Time       `json:"lastUpdated,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	ReReads        []ReReadEntry    `json:"reReads,omitempty"`

	// StatusBeforeReRead is restored when the last re-read entry is deleted.
	StatusBeforeReRead Status `json:"statusBeforeReRead,omitempty"`
	SchemaVersion      int    `json:"schemaVersion,omitempty"`
}

// Clone returns a deep copy. Mutating the copy never affects s.
func (s *ReadingStatus) Clone() *ReadingStatus {
	if s == nil {
		return nil
	}
	c := *s
	c.DateStarted = cloneTime(s.DateStarted)
	c.DateCompleted = cloneTime(s.DateCompleted)
	c.LastUpdated = cloneTime(s.LastUpdated)
	c.Tags = cloneStrings(s.Tags)
	if s.Sessions != nil {
		c.Sessions = make([]ReadingSession, len(s.Sessions))
		copy(c.Sessions, s.Sessions)
	}
	if s.ReReads != nil {
		c.ReReads = make([]ReReadEntry, len(s.ReReads))
		for i, r := range s.ReReads {
			c.ReReads[i] = r.Clone()
		}
	}
	return &c
}

// Touch sets LastUpdated.
func (s *ReadingStatus) Touch(now time.Time) {
	s.LastUpdated = &now
}

// FindReRead returns the index of the re-read entry with id, or -1.
func (s *ReadingStatus) FindReRead(id string) int {
	for i := range s.ReReads {
		if s.ReReads[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalMinutes sums the minutes of all sessions.
func (s *ReadingStatus) TotalMinutes() int {
	total := 0
	for _, session := range s.Sessions {
		total += session.Minutes
	}
	return total
}

// Completion returns the day the book was finished. A completion date left
// behind by a later status change still counts; did-not-finish never does.
func (s *ReadingStatus) Completion() (time.Time, bool) {
	if s.DateCompleted == nil || s.Status == StatusDidNotFinish {
		return time.Time{}, false
	}
	return *s.DateCompleted, true
}

// Migrate brings a record written under an older schema onto the current one.
// It reports whether anything changed.
func (s *ReadingStatus) Migrate() (bool, error) {
	changed := false

	status, err := MigrateStatus(s.Status)
	if err != nil {
		return false, err
	}
	if status != s.Status {
		s.Status = status
		changed = true
	}

	if s.StatusBeforeReRead != "" {
		prev, err := MigrateStatus(s.StatusBeforeReRead)
		if err != nil {
			return false, fmt.Errorf("status before re-read: %w", err)
		}
		if prev != s.StatusBeforeReRead {
			s.StatusBeforeReRead = prev
			changed = true
		}
	}

	if s.SchemaVersion < CurrentSchemaVersion {
		s.SchemaVersion = CurrentSchemaVersion
		changed = true
	}

	return changed, nil
}
