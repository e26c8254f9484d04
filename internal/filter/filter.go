// Package filter turns untrusted query parameters into safe restrictions on a
// todo query. Recognized parameters are applied through a fixed dispatch
// table; everything else is inert. Malformed values degrade to "no filter",
// never to an error.
package filter

import (
	"strings"
	"time"
)

// Builder is the minimal capability the engine needs from the storage layer.
// All restrictions compose conjunctively; WhereLikeAny contributes a single
// grouped OR term.
type Builder interface {
	WhereEq(column string, value any)
	WhereLikeAny(columns []string, pattern string)
	WhereGTE(column string, value any)
	WhereLTE(column string, value any)
	OrderBy(column string, descending bool)
}

// Params maps raw query-parameter names to their raw string values for one
// request. It has no lifecycle beyond the query it feeds.
type Params map[string]string

// Sortable columns. Anything else falls back to the default; unknown names are
// never threaded into the query language.
const defaultSortColumn = "created_at"

var sortColumns = map[string]struct{}{
	"id":         {},
	"title":      {},
	"completed":  {},
	"due_date":   {},
	"created_at": {},
	"updated_at": {},
}

type applyFunc func(value string, b Builder)

// todoFilters is the authoritative parameter table, applied in order.
// per_page and page are consumed by the pagination layer, not here.
var todoFilters = []struct {
	key   string
	apply applyFunc
}{
	{"completed", applyCompleted},
	{"search", applySearch},
	{"due_date_from", applyDueDateFrom},
	{"due_date_to", applyDueDateTo},
}

// Apply walks the dispatch table against b, then fixes the ordering. Sorting
// is always applied, exactly once, after every filter.
func Apply(p Params, b Builder) {
	for _, f := range todoFilters {
		if v, ok := p[f.key]; ok && v != "" {
			f.apply(v, b)
		}
	}
	applySort(p, b)
}

func applyCompleted(value string, b Builder) {
	b.WhereEq("completed", ParseBool(value))
}

func applySearch(value string, b Builder) {
	pattern := "%" + strings.ToLower(value) + "%"
	b.WhereLikeAny([]string{"title", "description"}, pattern)
}

func applyDueDateFrom(value string, b Builder) {
	d, ok := ParseDate(value)
	if !ok {
		return
	}
	b.WhereGTE("due_date", startOfDay(d))
}

func applyDueDateTo(value string, b Builder) {
	d, ok := ParseDate(value)
	if !ok {
		return
	}
	b.WhereLTE("due_date", endOfDay(d))
}

func applySort(p Params, b Builder) {
	column := p["sort_by"]
	if _, ok := sortColumns[column]; !ok {
		column = defaultSortColumn
	}
	b.OrderBy(column, !strings.EqualFold(p["sort_direction"], "asc"))
}

// ParseBool interprets a query value permissively: "1", "true", "on" and
// "yes" (any case, ignoring surrounding space) are true, everything else is
// false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// dateLayouts are tried in order; the first match wins. Covers ISO dates,
// US and day-first slash/dash forms, and full timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a calendar date on a best-effort basis. The second return
// is false when no layout matches; callers skip the filter in that case.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
