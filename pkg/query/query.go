// Package query derives display views from a collection snapshot.
//
// All functions are pure: they never mutate their input and return the
// same output for the same input. Search and filter short-circuit on
// empty criteria by returning the input slice unchanged. The composition
// contract used by page controllers is
//
//	Page(Sort(Search(records, …), …), page, size)
//
// with filtering before sort and sort before pagination. Any change to a
// search or filter input must reset the page index to 0; that invariant
// is owned by the viewstate layer.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
)

// SearchMode selects which record fields a text search inspects.
type SearchMode string

const (
	// ModeTitle matches the query against the record title.
	ModeTitle SearchMode = "title"

	// ModeIngredient matches the query against both ingredient lists.
	ModeIngredient SearchMode = "ingredient"
)

// ParseSearchMode validates a search mode string.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case ModeTitle, ModeIngredient:
		return SearchMode(s), true
	}
	return "", false
}

// SortField selects the sort key.
type SortField string

const (
	// FieldID sorts numerically by display id.
	FieldID SortField = "id"

	// FieldTitle sorts by title, locale-aware and case-insensitive,
	// with numeric segments compared as numbers.
	FieldTitle SortField = "title"
)

// ParseSortField validates a sort field string.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(s) {
	case FieldID, FieldTitle:
		return SortField(s), true
	}
	return "", false
}

// SortOrder selects the sort direction.
type SortOrder string

const (
	// OrderAsc sorts ascending.
	OrderAsc SortOrder = "asc"

	// OrderDesc sorts descending.
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder validates a sort order string.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case OrderAsc, OrderDesc:
		return SortOrder(s), true
	}
	return "", false
}

// Search retains records matching the query under the given mode.
// An empty query returns the input unchanged. Matching is case-insensitive
// substring containment; in ingredient mode a record matches if any entry
// of either ingredient list matches. Malformed entries were dropped during
// decoding, so one bad record can never abort the batch.
func Search(records []catalog.Record, q string, mode SearchMode) []catalog.Record {
	if q == "" {
		return records
	}

	lowered := strings.ToLower(q)
	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		var match bool
		switch mode {
		case ModeIngredient:
			match = matchesIngredient(rec, lowered)
		default:
			match = strings.Contains(strings.ToLower(rec.Title), lowered)
		}
		if match {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByTags retains records containing every tag (AND across tags).
// A tag matches a record if any entry of either ingredient list contains
// it case-insensitively (OR within a tag). An empty tag list returns the
// input unchanged. Adding a tag can only shrink or preserve the result.
func FilterByTags(records []catalog.Record, tags []string) []catalog.Record {
	if len(tags) == 0 {
		return records
	}

	lowered := make([]string, len(tags))
	for i, tag := range tags {
		lowered[i] = strings.ToLower(tag)
	}

	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		all := true
		for _, tag := range lowered {
			if !matchesIngredient(rec, tag) {
				all = false
				break
			}
		}
		if all {
			out = append(out, rec)
		}
	}
	return out
}

// matchesIngredient reports whether any clean entry of either ingredient
// list contains the lower-cased needle.
func matchesIngredient(rec catalog.Record, lowered string) bool {
	for _, ing := range rec.CleanIngredients() {
		if strings.Contains(strings.ToLower(ing), lowered) {
			return true
		}
	}
	for _, ing := range rec.CleanTags() {
		if strings.Contains(strings.ToLower(ing), lowered) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of the records. The sort is stable: records
// comparing equal keep their original relative order. Title comparison is
// collation-based, case-insensitive, and numeric-aware, so "Item 9" sorts
// before "Item 10".
func Sort(records []catalog.Record, field SortField, order SortOrder) []catalog.Record {
	out := make([]catalog.Record, len(records))
	copy(out, records)

	var less func(a, b catalog.Record) bool
	switch field {
	case FieldTitle:
		// Collators carry internal buffers, so build one per call
		// rather than sharing across goroutines.
		coll := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
		less = func(a, b catalog.Record) bool {
			return coll.CompareString(a.Title, b.Title) < 0
		}
	default:
		less = func(a, b catalog.Record) bool {
			return a.DisplayID < b.DisplayID
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Page returns the window [pageIndex*pageSize, (pageIndex+1)*pageSize).
// Out-of-range indices yield an empty result; callers clamp with ClampPage
// when they need a non-empty page.
func Page(records []catalog.Record, pageIndex, pageSize int) []catalog.Record {
	if pageIndex < 0 || pageSize <= 0 {
		return nil
	}

	// Range-check against the page count before multiplying: arbitrarily
	// large indices come straight off the URL and would overflow start.
	if pageIndex >= PageCount(len(records), pageSize) {
		return nil
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// PageCount returns ceil(total/pageSize). Zero totals have zero pages.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage clamps a page index to [0, PageCount-1] for non-empty totals.
func ClampPage(page, total, pageSize int) int {
	if page < 0 {
		return 0
	}
	count := PageCount(total, pageSize)
	if count == 0 {
		return 0
	}
	if page >= count {
		return count - 1
	}
	return page
}
