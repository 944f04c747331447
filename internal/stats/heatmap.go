package stats

import (
	"sort"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
)

// DateLayout formats heatmap keys.
const DateLayout = "2006-01-02"

// Intensity levels.
const (
	MaxIntensity          = 4
	MinutesPerLevel       = 15
	CompletionIntensity   = 3
	ReReadDoneIntensity   = 4
	calendarDefaultLength = 84 // 12 weeks
)

// Day is the activity recorded on one calendar day.
type Day struct {
	Date      string   `json:"date"`
	Intensity int      `json:"intensity"` // 0-4
	Sessions  int      `json:"sessions"`
	Minutes   int      `json:"minutes"`
	Books     []string `json:"books"` // Distinct titles, sorted
}

// DateKey returns the calendar day of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Heatmap buckets reading activity by calendar day in loc.
//
// A day's intensity is the highest of:
//   - minutes/15 of any single session, capped at 4
//   - 3 when a book was completed that day, whatever its status is now
//     (did-not-finish excepted)
//   - 4 when a re-read was completed that day
func Heatmap(entries []domain.LibraryEntry, loc *time.Location) map[string]Day {
	if loc == nil {
		loc = time.Local
	}

	days := make(map[string]*Day)
	titles := make(map[string]map[string]struct{})

	touch := func(t time.Time, title string, intensity int) *Day {
		key := DateKey(t, loc)
		d, ok := days[key]
		if !ok {
			d = &Day{Date: key}
			days[key] = d
			titles[key] = make(map[string]struct{})
		}
		if intensity > d.Intensity {
			d.Intensity = intensity
		}
		titles[key][title] = struct{}{}
		return d
	}

	for i := range entries {
		e := &entries[i]
		title := e.Book.Title

		for _, session := range e.Status.Sessions {
			d := touch(session.Date, title, sessionIntensity(session.Minutes))
			d.Sessions++
			d.Minutes += session.Minutes
		}

		if done, ok := e.Status.Completion(); ok {
			touch(done, title, CompletionIntensity)
		}

		for _, r := range e.Status.ReReads {
			if r.DateCompleted != nil {
				touch(*r.DateCompleted, title, ReReadDoneIntensity)
			}
		}
	}

	out := make(map[string]Day, len(days))
	for key, d := range days {
		books := make([]string, 0, len(titles[key]))
		for t := range titles[key] {
			books = append(books, t)
		}
		sort.Strings(books)
		d.Books = books
		out[key] = *d
	}
	return out
}

func sessionIntensity(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	level := minutes / MinutesPerLevel
	if level > MaxIntensity {
		return MaxIntensity
	}
	return level
}

// CurrentStreak counts consecutive active days ending today, walking backward
// until the first day without activity. No activity today means no streak.
func CurrentStreak(heatmap map[string]Day, now time.Time) int {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	streak := 0
	for {
		if _, ok := heatmap[day.Format(DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LongestStreak returns the longest run of consecutive active days.
func LongestStreak(heatmap map[string]Day) int {
	if len(heatmap) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(heatmap))
	for key := range heatmap {
		d, err := time.Parse(DateLayout, key)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDate(0, 0, 1).Equal(dates[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Calendar returns the last days of the heatmap, oldest first, ending today.
// Days without activity are present with zero intensity. A non-positive days
// value selects twelve weeks.
func Calendar(heatmap map[string]Day, now time.Time, days int) []Day {
	if days <= 0 {
		days = calendarDefaultLength
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	out := make([]Day, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(DateLayout)
		if d, ok := heatmap[key]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, Day{Date: key, Books: []string{}})
	}
	return out
}
