package query

import (
	"strings"
	"time"
)

// In-memory predicates. These run after the store fetch because the store's
// query capability covers only equality and ordering: substring search,
// array membership, and the two-field date fallback cannot be pushed down.

// MatchesSearch reports whether any field contains term, case-insensitively.
// An empty term matches everything.
func MatchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether want is a member of ids. An empty want
// matches everything.
func MatchesCategory(want string, ids []string) bool {
	if want == "" {
		return true
	}
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// InDateRange reports whether the item falls inside the inclusive
// [start, end] range. The effective date is publishedAt, falling back to
// createdAt when publishedAt is absent. An item with neither date cannot be
// placed in a range and is excluded whenever a bound is set.
func InDateRange(start, end *time.Time, publishedAt *time.Time, createdAt time.Time) bool {
	if start == nil && end == nil {
		return true
	}

	effective := publishedAt
	if effective == nil {
		if createdAt.IsZero() {
			return false
		}
		effective = &createdAt
	}

	if start != nil && effective.Before(*start) {
		return false
	}
	if end != nil && effective.After(*end) {
		return false
	}
	return true
}
