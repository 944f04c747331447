package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pagetrail/internal/domain"
)

var base = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func mk(id string, status domain.Status, addedDay int, completedDay int, tags ...string) domain.LibraryEntry {
	e := domain.LibraryEntry{
		Book: domain.Book{ID: id, Title: id},
		Status: domain.ReadingStatus{
			Status:    status,
			DateAdded: base.AddDate(0, 0, addedDay),
			Tags:      tags,
		},
	}
	if completedDay >= 0 {
		d := base.AddDate(0, 0, completedDay)
		e.Status.DateCompleted = &d
	}
	return e
}

func ids(entries []domain.LibraryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Book.ID)
	}
	return out
}

func library() []domain.LibraryEntry {
	return []domain.LibraryEntry{
		mk("r1", domain.StatusReading, 1, -1, "Fantasy"),
		mk("r2", domain.StatusReading, 5, -1, "Horror"),
		mk("f1", domain.StatusFinished, 0, 3, "Fantasy"),
		mk("f2", domain.StatusFinished, 2, 9),
		mk("f3", domain.StatusFinished, 4, -1, "fantasy"),
		mk("d1", domain.StatusDidNotFinish, 3, 4),
		mk("x1", domain.StatusReRead, 6, 2, "Fantasy"),
	}
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs {
		got, err := ParseTab(string(tab))
		require.NoError(t, err)
		assert.Equal(t, tab, got)
	}

	got, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, got)

	_, err = ParseTab("wishlist")
	assert.Error(t, err)
}

func TestFilter_Tabs(t *testing.T) {
	tests := []struct {
		tab  Tab
		want []string
	}{
		{TabAll, []string{"x1", "r2", "f3", "d1", "f2", "r1", "f1"}},
		{TabReading, []string{"r2", "r1"}},
		{TabFinished, []string{"f2", "f1", "f3"}},
		{TabDidNotFinish, []string{"d1"}},
		{TabReRead, []string{"x1"}},
		{"", []string{"x1", "r2", "f3", "d1", "f2", "r1", "f1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(library(), Selection{Tab: tt.tab})))
		})
	}
}

func TestFilter_FinishedUndatedSortsLast(t *testing.T) {
	got := Filter(library(), Selection{Tab: TabFinished})
	require.Len(t, got, 3)
	assert.Nil(t, got[2].Status.DateCompleted)
}

func TestFilter_Tag(t *testing.T) {
	got := Filter(library(), Selection{Tab: TabAll, Tag: "fantasy"})
	assert.Equal(t, []string{"x1", "f3", "r1", "f1"}, ids(got))

	got = Filter(library(), Selection{Tab: TabReading, Tag: "Fantasy"})
	assert.Equal(t, []string{"r1"}, ids(got))

	assert.Empty(t, Filter(library(), Selection{Tab: TabDidNotFinish, Tag: "Fantasy"}))
}

func TestSelection_ToggleTagRestoresUnfiltered(t *testing.T) {
	lib := library()
	for _, tab := range Tabs {
		sel := Selection{Tab: tab}
		unfiltered := ids(Filter(lib, sel))

		sel = sel.ToggleTag("Fantasy")
		assert.Equal(t, "Fantasy", sel.Tag)

		sel = sel.ToggleTag("Fantasy")
		assert.Empty(t, sel.Tag)
		assert.Equal(t, unfiltered, ids(Filter(lib, sel)), tab)
	}
}

func TestSelection_ToggleSwitchesTag(t *testing.T) {
	sel := Selection{Tab: TabAll}.ToggleTag("Fantasy").ToggleTag("Horror")
	assert.Equal(t, "Horror", sel.Tag)

	sel = sel.ToggleTag("HORROR")
	assert.Empty(t, sel.Tag)
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	lib := library()
	before := ids(lib)
	_ = Filter(lib, Selection{Tab: TabFinished})
	assert.Equal(t, before, ids(lib))
}

func TestCounts(t *testing.T) {
	assert.Equal(t, map[Tab]int{
		TabAll:          7,
		TabReading:      2,
		TabFinished:     3,
		TabDidNotFinish: 1,
		TabReRead:       1,
	}, Counts(library()))
}
