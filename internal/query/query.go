// Package query derives filtered and sorted views of the library.
package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/util"
)

// Tab selects entries by lifecycle status.
type Tab string

// Tabs.
const (
	TabAll          Tab = "all"
	TabReading      Tab = "reading"
	TabFinished     Tab = "finished"
	TabDidNotFinish Tab = "did-not-finish"
	TabReRead       Tab = "re-read"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabAll, TabReading, TabFinished, TabDidNotFinish, TabReRead}

// ParseTab parses a tab name. An empty name selects TabAll.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabAll, nil
	}
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Matches reports whether an entry with status belongs on the tab.
func (t Tab) Matches(status domain.Status) bool {
	if t == TabAll {
		return true
	}
	return domain.Status(t) == status
}

// Selection is the current tab and optional tag filter.
type Selection struct {
	Tab Tab
	Tag string
}

// ToggleTag returns the selection with tag selected, or cleared when it is
// already the selected tag.
func (s Selection) ToggleTag(tag string) Selection {
	if s.Tag != "" && util.TagKey(s.Tag) == util.TagKey(tag) {
		s.Tag = ""
		return s
	}
	s.Tag = util.CleanTag(tag)
	return s
}

// Filter returns the entries on the selected tab carrying the selected tag.
// The input slice is not modified.
//
// The finished tab is ordered by completion date, newest first, with undated
// entries last. Other tabs are ordered by date added, newest first.
func Filter(entries []domain.LibraryEntry, sel Selection) []domain.LibraryEntry {
	tab := sel.Tab
	if tab == "" {
		tab = TabAll
	}

	out := make([]domain.LibraryEntry, 0, len(entries))
	for _, e := range entries {
		if !tab.Matches(e.Status.Status) {
			continue
		}
		if sel.Tag != "" && !util.ContainsTag(e.Status.Tags, sel.Tag) {
			continue
		}
		out = append(out, e)
	}

	if tab == TabFinished {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := completedAt(&out[i]), completedAt(&out[j])
			if !a.Equal(b) {
				return a.After(b)
			}
			return out[i].Book.ID < out[j].Book.ID
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Status.DateAdded, out[j].Status.DateAdded
		if !a.Equal(b) {
			return a.After(b)
		}
		return out[i].Book.ID < out[j].Book.ID
	})
	return out
}

// Counts returns the number of entries on each tab, ignoring any tag filter.
func Counts(entries []domain.LibraryEntry) map[Tab]int {
	counts := make(map[Tab]int, len(Tabs))
	for _, t := range Tabs {
		counts[t] = 0
	}
	for _, e := range entries {
		counts[TabAll]++
		counts[Tab(e.Status.Status)]++
	}
	return counts
}

// completedAt returns the completion date, or the epoch when undated.
func completedAt(e *domain.LibraryEntry) time.Time {
	if e.Status.DateCompleted == nil {
		return time.Unix(0, 0)
	}
	return *e.Status.DateCompleted
}
