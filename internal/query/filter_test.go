package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		fields   []string
		expected bool
	}{
		{"Empty term matches", "", []string{"anything"}, true},
		{"Case-insensitive title hit", "NEXT", []string{"What comes next", "body"}, true},
		{"Hit in later field", "deploy", []string{"Release notes", "How we deploy"}, true},
		{"No hit", "kubernetes", []string{"Release notes", "How we deploy"}, false},
		{"No fields", "x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesSearch(tt.term, tt.fields...))
		})
	}
}

func TestMatchesCategory(t *testing.T) {
	ids := []string{"cat-1", "cat-2"}

	assert.True(t, MatchesCategory("", ids))
	assert.True(t, MatchesCategory("cat-2", ids))
	assert.False(t, MatchesCategory("cat-9", ids))
	assert.False(t, MatchesCategory("cat-1", nil))
}

func TestInDateRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	ptr := func(t time.Time) *time.Time { return &t }

	start := ptr(day(10))
	end := ptr(day(20))

	tests := []struct {
		name        string
		start, end  *time.Time
		publishedAt *time.Time
		createdAt   time.Time
		expected    bool
	}{
		{"No bounds", nil, nil, nil, time.Time{}, true},
		{"Published inside range", start, end, ptr(day(15)), day(1), true},
		{"Published before range", start, end, ptr(day(5)), day(15), false},
		{"Bounds are inclusive", start, end, ptr(day(10)), time.Time{}, true},
		{"Falls back to created_at", start, end, nil, day(15), true},
		{"Fallback outside range", start, end, nil, day(25), false},
		{"Neither date excluded", start, end, nil, time.Time{}, false},
		{"Only start bound", start, nil, ptr(day(25)), time.Time{}, true},
		{"Only end bound", nil, end, ptr(day(25)), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InDateRange(tt.start, tt.end, tt.publishedAt, tt.createdAt))
		})
	}
}
