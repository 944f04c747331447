// Package reading implements the lifecycle rules of a library entry.
//
// Every rule takes the current state and returns a new value. The input is
// never modified, so callers can keep the previous state for comparison or
// rollback.
package reading

import (
	"fmt"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/util"
)

// ChangeStatus moves an entry to target. A nil cur creates a fresh record,
// which is how a newly added book gets its initial state.
func ChangeStatus(cur *domain.ReadingStatus, target domain.Status, now time.Time) (*domain.ReadingStatus, error) {
	migrated, err := domain.MigrateStatus(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(target))
	}
	if migrated == domain.StatusReRead {
		return nil, ErrReReadViaEntries
	}

	next := from(cur, now)
	enter(next, migrated, now)
	return next, nil
}

// UpdateProgress records the current page. A positive minutes value also logs
// a session whose page delta is measured from the previous page.
func UpdateProgress(cur *domain.ReadingStatus, book domain.Book, page, minutes int, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	if page < 0 {
		page = 0
	}

	next := cur.Clone()
	if minutes > 0 {
		next.Sessions = append(next.Sessions, domain.ReadingSession{
			Date:      now,
			Minutes:   minutes,
			PagesRead: page - cur.CurrentPage,
		})
	}
	next.CurrentPage = page

	if book.HasPageCount() && page >= book.PageCount && !next.Status.IsCompleted() {
		enter(next, domain.StatusFinished, now)
	}

	next.Touch(now)
	return next, nil
}

// LogSession appends an explicit session. A zero Date means now.
func LogSession(cur *domain.ReadingStatus, session domain.ReadingSession, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	if session.Minutes < 0 {
		return nil, ErrInvalidMinutes
	}
	if session.Date.IsZero() {
		session.Date = now
	}

	next := cur.Clone()
	next.Sessions = append(next.Sessions, session)
	next.Touch(now)
	return next, nil
}

// AddReRead appends a completed re-read and forces the re-read status.
// The status held before the first re-read is kept so it can be restored.
func AddReRead(cur *domain.ReadingStatus, entry domain.ReReadEntry, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	if entry.ID == "" {
		return nil, ErrReReadIDRequired
	}
	if cur.FindReRead(entry.ID) >= 0 {
		return nil, ErrDuplicateReRead
	}
	if entry.DateCompleted == nil {
		return nil, ErrReReadCompletionRequired
	}
	if err := checkReRead(entry); err != nil {
		return nil, err
	}

	next := cur.Clone()
	if next.Status != domain.StatusReRead {
		next.StatusBeforeReRead = next.Status
	}
	next.Status = domain.StatusReRead
	next.ReReads = append(next.ReReads, entry.Clone())
	next.Touch(now)
	return next, nil
}

// EditReRead merges patch into the re-read entry with id.
func EditReRead(cur *domain.ReadingStatus, id string, patch domain.ReReadPatch, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	idx := cur.FindReRead(id)
	if idx < 0 {
		return nil, ErrReReadNotFound
	}

	next := cur.Clone()
	r := next.ReReads[idx]
	if patch.DateStarted != nil {
		v := *patch.DateStarted
		r.DateStarted = &v
	}
	if patch.DateCompleted != nil {
		v := *patch.DateCompleted
		r.DateCompleted = &v
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
	if patch.Minutes != nil {
		r.Minutes = *patch.Minutes
	}
	if err := checkReRead(r); err != nil {
		return nil, err
	}

	next.ReReads[idx] = r
	next.Touch(now)
	return next, nil
}

// DeleteReRead removes the re-read entry with id. Removing the last one
// restores the status the entry had before its first re-read.
func DeleteReRead(cur *domain.ReadingStatus, id string, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	idx := cur.FindReRead(id)
	if idx < 0 {
		return nil, ErrReReadNotFound
	}

	next := cur.Clone()
	next.ReReads = append(next.ReReads[:idx], next.ReReads[idx+1:]...)

	if len(next.ReReads) == 0 {
		next.ReReads = nil
		if next.Status == domain.StatusReRead {
			next.Status = restoredStatus(next)
		}
		next.StatusBeforeReRead = ""
	}

	next.Touch(now)
	return next, nil
}

// SetRating sets the personal rating. Zero clears it.
func SetRating(cur *domain.ReadingStatus, rating int, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	if rating != 0 && !domain.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	next := cur.Clone()
	next.PersonalRating = rating
	next.Touch(now)
	return next, nil
}

// SetNotes replaces the free-text notes.
func SetNotes(cur *domain.ReadingStatus, notes string, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	next := cur.Clone()
	next.Notes = notes
	next.Touch(now)
	return next, nil
}

// SetReadingGoal replaces the free-text reading goal.
func SetReadingGoal(cur *domain.ReadingStatus, goal string, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	next := cur.Clone()
	next.ReadingGoal = goal
	next.Touch(now)
	return next, nil
}

// SetTags replaces the tag set. Tags are cleaned and de-duplicated case-insensitively.
func SetTags(cur *domain.ReadingStatus, tags []string, now time.Time) (*domain.ReadingStatus, error) {
	if cur == nil {
		return nil, ErrNoEntry
	}
	next := cur.Clone()
	next.Tags = util.DedupeTags(tags)
	next.Touch(now)
	return next, nil
}

// from returns a copy of cur, or a fresh record added at now.
func from(cur *domain.ReadingStatus, now time.Time) *domain.ReadingStatus {
	if cur == nil {
		return &domain.ReadingStatus{
			DateAdded:     now,
			SchemaVersion: domain.CurrentSchemaVersion,
		}
	}
	next := cur.Clone()
	if next.DateAdded.IsZero() {
		next.DateAdded = now
	}
	return next
}

// enter applies the date bookkeeping for moving into status.
func enter(s *domain.ReadingStatus, status domain.Status, now time.Time) {
	switch {
	case status == domain.StatusReading:
		if s.DateStarted == nil {
			s.DateStarted = timePtr(now)
		}
	case status.IsTerminal():
		s.DateCompleted = timePtr(now)
		if s.DateStarted == nil {
			s.DateStarted = timePtr(now)
		}
	}
	s.Status = status
}

func restoredStatus(s *domain.ReadingStatus) domain.Status {
	if s.StatusBeforeReRead != "" && s.StatusBeforeReRead != domain.StatusReRead {
		return s.StatusBeforeReRead
	}
	if s.DateCompleted != nil {
		return domain.StatusFinished
	}
	return domain.StatusReading
}

func checkReRead(r domain.ReReadEntry) error {
	if r.Rating != 0 && !domain.ValidRating(r.Rating) {
		return ErrInvalidRating
	}
	if r.Minutes < 0 {
		return ErrInvalidMinutes
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
