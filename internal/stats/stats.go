// Package stats derives dashboard numbers and the reading-activity heatmap
// from a snapshot of library entries. Everything here is a pure function of
// its inputs.
package stats

import (
	"math"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
)

// Summary holds the dashboard numbers.
type Summary struct {
	TotalBooks      int                   `json:"totalBooks"`
	ByStatus        map[domain.Status]int `json:"byStatus"`
	PagesRead       int                   `json:"pagesRead"`       // Page counts of completed books
	BooksThisYear   int                   `json:"booksThisYear"`   // Completed in now's calendar year
	TotalMinutes    int                   `json:"totalMinutes"`    // Across every session
	AverageProgress int                   `json:"averageProgress"` // Rounded percentage over books being read
	ReadingDays     int                   `json:"readingDays"`     // Distinct days with a session
	AverageRating   float64               `json:"averageRating"`   // Mean personal rating, 0 when nothing is rated
	CurrentStreak   int                   `json:"currentStreak"`
	LongestStreak   int                   `json:"longestStreak"`
}

// Summarize computes the dashboard numbers. Calendar days and the current year
// are taken in now's location.
func Summarize(entries []domain.LibraryEntry, now time.Time) Summary {
	loc := now.Location()
	s := Summary{
		TotalBooks: len(entries),
		ByStatus:   make(map[domain.Status]int, len(domain.Statuses)),
	}
	for _, status := range domain.Statuses {
		s.ByStatus[status] = 0
	}

	var (
		progressSum   float64
		progressCount int
		ratingSum     int
		ratingCount   int
		days          = make(map[string]struct{})
	)

	for i := range entries {
		e := &entries[i]
		st := &e.Status

		s.ByStatus[st.Status]++

		if st.Status.IsCompleted() {
			s.PagesRead += e.Book.PageCount
		}
		if done, ok := st.Completion(); ok && done.In(loc).Year() == now.Year() {
			s.BooksThisYear++
		}

		if st.Status == domain.StatusReading && e.Book.HasPageCount() {
			progressSum += e.Progress()
			progressCount++
		}

		if domain.ValidRating(st.PersonalRating) {
			ratingSum += st.PersonalRating
			ratingCount++
		}

		for _, session := range st.Sessions {
			s.TotalMinutes += session.Minutes
			days[DateKey(session.Date, loc)] = struct{}{}
		}
	}

	s.ReadingDays = len(days)
	if progressCount > 0 {
		s.AverageProgress = int(math.Round(progressSum / float64(progressCount) * 100))
	}
	if ratingCount > 0 {
		s.AverageRating = math.Round(float64(ratingSum)/float64(ratingCount)*100) / 100
	}

	heatmap := Heatmap(entries, loc)
	s.CurrentStreak = CurrentStreak(heatmap, now)
	s.LongestStreak = LongestStreak(heatmap)

	return s
}
