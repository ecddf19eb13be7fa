// Package viewstate keeps the user-visible query state and its URL query
// string mutually consistent, in both directions.
//
// Parsing is forgiving: a parameter that is absent or fails to parse for
// its type falls back to its documented default, never an error.
// Serialization is canonical and minimal: only non-default fields are
// emitted, so default views round-trip to an empty query string.
//
// Any mutation that changes the shape of the candidate result set (search
// text, search mode, sort, tag toggles) resets the page index to 0. A
// stale page window over a narrower result set is a correctness bug, not
// a cosmetic one.
package viewstate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cookbookd/recipe-browser/pkg/query"
)

// URL query parameter names.
const (
	ParamPage   = "page"
	ParamSearch = "search"
	ParamMode   = "mode"
	ParamSort   = "sort"
	ParamOrder  = "order"
	ParamTags   = "ingredients"
)

// ListState is the query state of the list-style browsing page.
type ListState struct {
	Page       int
	Search     string
	SearchMode query.SearchMode
	SortField  query.SortField
	SortOrder  query.SortOrder
}

// DefaultListState returns the state of an unparameterized list view.
func DefaultListState() ListState {
	return ListState{
		Page:       0,
		Search:     "",
		SearchMode: query.ModeTitle,
		SortField:  query.FieldID,
		SortOrder:  query.OrderAsc,
	}
}

// ParseListState initializes a list state from URL query parameters.
// Invalid or absent parameters fall back to defaults.
func ParseListState(values url.Values) ListState {
	s := DefaultListState()
	s.Page = parsePage(values.Get(ParamPage))
	s.Search = values.Get(ParamSearch)
	if mode, ok := query.ParseSearchMode(values.Get(ParamMode)); ok {
		s.SearchMode = mode
	}
	if field, ok := query.ParseSortField(values.Get(ParamSort)); ok {
		s.SortField = field
	}
	if order, ok := query.ParseSortOrder(values.Get(ParamOrder)); ok {
		s.SortOrder = order
	}
	return s
}

// Values serializes the state, emitting only non-default fields.
func (s ListState) Values() url.Values {
	values := url.Values{}
	if s.Search != "" {
		values.Set(ParamSearch, s.Search)
	}
	if s.Page > 0 {
		values.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.SearchMode != query.ModeTitle {
		values.Set(ParamMode, string(s.SearchMode))
	}
	if s.SortField != query.FieldID {
		values.Set(ParamSort, string(s.SortField))
	}
	if s.SortOrder != query.OrderAsc {
		values.Set(ParamOrder, string(s.SortOrder))
	}
	return values
}

// Encode returns the canonical query string for the state.
func (s ListState) Encode() string {
	return s.Values().Encode()
}

// WithSearch sets the search text and resets the page.
func (s ListState) WithSearch(q string) ListState {
	s.Search = q
	s.Page = 0
	return s
}

// WithSearchMode sets the search mode and resets the page.
func (s ListState) WithSearchMode(mode query.SearchMode) ListState {
	s.SearchMode = mode
	s.Page = 0
	return s
}

// WithSortField sets the sort field and resets the page.
func (s ListState) WithSortField(field query.SortField) ListState {
	s.SortField = field
	s.Page = 0
	return s
}

// WithSortOrder sets the sort order and resets the page.
func (s ListState) WithSortOrder(order query.SortOrder) ListState {
	s.SortOrder = order
	s.Page = 0
	return s
}

// WithPage sets only the page index. Negative pages clamp to 0.
func (s ListState) WithPage(page int) ListState {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// GalleryState is the query state of the gallery-style browsing page.
type GalleryState struct {
	Page         int
	SelectedTags []string
}

// DefaultGalleryState returns the state of an unparameterized gallery view.
func DefaultGalleryState() GalleryState {
	return GalleryState{}
}

// ParseGalleryState initializes a gallery state from URL query parameters.
// The tag list parses as comma-separated; empty or absent yields no tags.
func ParseGalleryState(values url.Values) GalleryState {
	s := DefaultGalleryState()
	s.Page = parsePage(values.Get(ParamPage))

	raw := values.Get(ParamTags)
	if raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag == "" {
				continue
			}
			s.SelectedTags = append(s.SelectedTags, tag)
		}
	}
	return s
}

// Values serializes the state, emitting only non-default fields.
// Tags serialize comma-joined in selection order.
func (s GalleryState) Values() url.Values {
	values := url.Values{}
	if len(s.SelectedTags) > 0 {
		values.Set(ParamTags, strings.Join(s.SelectedTags, ","))
	}
	if s.Page > 0 {
		values.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return values
}

// Encode returns the canonical query string for the state.
func (s GalleryState) Encode() string {
	return s.Values().Encode()
}

// HasTag reports whether a tag is currently selected.
func (s GalleryState) HasTag(tag string) bool {
	for _, t := range s.SelectedTags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag adds an absent tag or removes a present one (set-membership
// toggle) and resets the page.
func (s GalleryState) ToggleTag(tag string) GalleryState {
	out := make([]string, 0, len(s.SelectedTags)+1)
	found := false
	for _, t := range s.SelectedTags {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	if len(out) == 0 {
		out = nil
	}
	s.SelectedTags = out
	s.Page = 0
	return s
}

// ClearTags removes all selected tags and resets the page.
func (s GalleryState) ClearTags() GalleryState {
	s.SelectedTags = nil
	s.Page = 0
	return s
}

// WithPage sets only the page index. Negative pages clamp to 0.
func (s GalleryState) WithPage(page int) GalleryState {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// parsePage parses a 0-based page index, falling back to 0 on any
// malformed or negative value.
func parsePage(raw string) int {
	if raw == "" {
		return 0
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
