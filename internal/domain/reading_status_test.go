package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatus() *ReadingStatus {
	added := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	done := added.Add(72 * time.Hour)
	return &ReadingStatus{
		Status:        StatusReRead,
		DateAdded:     added,
		DateStarted:   &added,
		DateCompleted: &done,
		Tags:          []string{"fantasy"},
		Sessions:      []ReadingSession{{Date: added, Minutes: 30, PagesRead: 12}},
		ReReads:       []ReReadEntry{{ID: "rr-1", DateCompleted: &done, Rating: 4}},
	}
}

func TestReadingStatus_CloneIsDeep(t *testing.T) {
	orig := sampleStatus()
	c := orig.Clone()

	require.Equal(t, orig, c)

	c.Tags[0] = "horror"
	c.Sessions[0].Minutes = 99
	*c.DateStarted = c.DateStarted.Add(time.Hour)
	*c.ReReads[0].DateCompleted = time.Time{}
	c.ReReads[0].Rating = 1

	assert.Equal(t, "fantasy", orig.Tags[0])
	assert.Equal(t, 30, orig.Sessions[0].Minutes)
	assert.Equal(t, 9, orig.DateStarted.Hour())
	assert.False(t, orig.ReReads[0].DateCompleted.IsZero())
	assert.Equal(t, 4, orig.ReReads[0].Rating)
}

func TestReadingStatus_CloneNil(t *testing.T) {
	var s *ReadingStatus
	assert.Nil(t, s.Clone())
}

func TestReadingStatus_FindReRead(t *testing.T) {
	s := sampleStatus()
	assert.Equal(t, 0, s.FindReRead("rr-1"))
	assert.Equal(t, -1, s.FindReRead("rr-2"))
}

func TestReadingStatus_TotalMinutes(t *testing.T) {
	s := &ReadingStatus{Sessions: []ReadingSession{{Minutes: 10}, {Minutes: 25}}}
	assert.Equal(t, 35, s.TotalMinutes())
}

func TestReadingStatus_Completion(t *testing.T) {
	done := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status Status
		date   *time.Time
		want   bool
	}{
		{"finished", StatusFinished, &done, true},
		{"re-read", StatusReRead, &done, true},
		{"back to reading", StatusReading, &done, true},
		{"did not finish", StatusDidNotFinish, &done, false},
		{"never completed", StatusFinished, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ReadingStatus{Status: tt.status, DateCompleted: tt.date}
			got, ok := s.Completion()
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, done, got)
			}
		})
	}
}

func TestReadingStatus_Migrate(t *testing.T) {
	t.Run("legacy record", func(t *testing.T) {
		s := &ReadingStatus{Status: LegacyStatusRead}
		changed, err := s.Migrate()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusFinished, s.Status)
		assert.Equal(t, CurrentSchemaVersion, s.SchemaVersion)
	})

	t.Run("legacy status before re-read", func(t *testing.T) {
		s := &ReadingStatus{Status: StatusReRead, StatusBeforeReRead: LegacyStatusRead, SchemaVersion: 1}
		changed, err := s.Migrate()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusFinished, s.StatusBeforeReRead)
	})

	t.Run("current record untouched", func(t *testing.T) {
		s := &ReadingStatus{Status: StatusReading, SchemaVersion: CurrentSchemaVersion}
		changed, err := s.Migrate()
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("unknown status", func(t *testing.T) {
		s := &ReadingStatus{Status: "paused"}
		_, err := s.Migrate()
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})
}

func TestLibraryEntry_Progress(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		page      int
		want      float64
	}{
		{"unknown page count", 0, 50, 0},
		{"halfway", 200, 100, 0.5},
		{"past the end", 200, 250, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := LibraryEntry{Book: Book{ID: "b1", PageCount: tt.pageCount}, Status: ReadingStatus{CurrentPage: tt.page}}
			assert.InDelta(t, tt.want, e.Progress(), 0.0001)
		})
	}
}

func TestLibraryEntry_CloneIsDeep(t *testing.T) {
	e := LibraryEntry{
		Book:   Book{ID: "b1", Authors: []string{"Le Guin"}},
		Status: *sampleStatus(),
	}
	c := e.Clone()
	c.Book.Authors[0] = "Someone"
	c.Status.Tags[0] = "x"

	assert.Equal(t, "Le Guin", e.Book.Authors[0])
	assert.Equal(t, "fantasy", e.Status.Tags[0])
	assert.Equal(t, "b1", c.ID())
}
