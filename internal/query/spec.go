// Package query implements the list query composer shared by the posts and
// jobs endpoints: lenient parsing of filter/pagination parameters, the sort
// enum, and the in-memory predicates the document store cannot evaluate
// natively.
package query

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Sort identifies the ordering applied at the store level.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortTitleAsc  Sort = "title_asc"
	SortTitleDesc Sort = "title_desc"
	SortViews     Sort = "views"
	SortComments  Sort = "comments"
)

const (
	// DefaultLimit applies when the limit parameter is absent or unusable.
	DefaultLimit = 10
	// MaxLimit caps a single page fetch.
	MaxLimit = 100

	// SentinelAll is the no-op filter value for status and category. It is
	// never matched against data.
	SentinelAll = "all"
)

// ParseSort maps a raw sort parameter onto the enum, defaulting to newest
// for anything unrecognized.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortOldest, SortTitleAsc, SortTitleDesc, SortViews, SortComments:
		return Sort(raw)
	default:
		return SortNewest
	}
}

// Spec is the parsed request for one list call. Zero values mean "no filter".
// It is built fresh per request and never persisted.
type Spec struct {
	Limit      int
	StartAfter string
	Search     string
	Status     string
	Category   string
	DateStart  *time.Time
	DateEnd    *time.Time
	Sort       Sort
	CreatedBy  string
}

// ParseSpec extracts a Spec from the request's query parameters. Invalid
// input is coerced to safe defaults rather than rejected: a bad limit falls
// back to DefaultLimit, an unknown sort falls back to newest, and unparsable
// dates drop the corresponding bound.
func ParseSpec(c *fiber.Ctx) Spec {
	limit := c.QueryInt("limit", DefaultLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Spec{
		Limit:      limit,
		StartAfter: c.Query("startAfter"),
		Search:     c.Query("search"),
		Status:     normalizeSentinel(c.Query("status")),
		Category:   normalizeSentinel(c.Query("category")),
		DateStart:  parseDate(c.Query("dateStart"), false),
		DateEnd:    parseDate(c.Query("dateEnd"), true),
		Sort:       ParseSort(c.Query("sort")),
		CreatedBy:  c.Query("createdBy"),
	}
}

func normalizeSentinel(raw string) string {
	if raw == SentinelAll {
		return ""
	}
	return raw
}

// parseDate accepts RFC3339 timestamps or plain dates. A plain end date is
// pushed to the last instant of that day so the range stays inclusive.
func parseDate(raw string, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
