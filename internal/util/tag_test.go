package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims", "  fantasy  ", "fantasy"},
		{"collapses inner whitespace", "slow \t  burn", "slow burn"},
		{"keeps casing", "Sci-Fi", "Sci-Fi"},
		{"composes unicode", "Café", "Café"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTag(tt.input))
		})
	}
}

func TestCleanTag_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("ab", 40)
	assert.Len(t, []rune(CleanTag(long)), 50)
}

func TestTagKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, TagKey("SCI-FI"), TagKey("sci-fi"))
	assert.Equal(t, TagKey(" Slow  Burn"), TagKey("slow burn"))
	assert.NotEqual(t, TagKey("fantasy"), TagKey("fantasia"))
}

func TestDedupeTags(t *testing.T) {
	got := DedupeTags([]string{"Fantasy", " fantasy", "", "Cozy", "FANTASY", "cozy  "})
	assert.Equal(t, []string{"Fantasy", "Cozy"}, got)

	assert.Nil(t, DedupeTags(nil))
	assert.Nil(t, DedupeTags([]string{" ", ""}))
}

func TestContainsTag(t *testing.T) {
	tags := []string{"Fantasy", "Book Club"}

	assert.True(t, ContainsTag(tags, "fantasy"))
	assert.True(t, ContainsTag(tags, "book  club"))
	assert.False(t, ContainsTag(tags, "horror"))
	assert.False(t, ContainsTag(tags, ""))
}
