package browse

import "github.com/cookbookd/recipe-browser/pkg/query"

// DefaultPageSize is the number of records shown per page.
const DefaultPageSize = 48

// Pagination describes the page window of a derived view. Page is
// 0-based internally; the pager widget displays 1-based numbers.
type Pagination struct {
	Page     int
	PageSize int
	Total    int
}

// TotalPages returns the number of pages covering Total records.
func (p Pagination) TotalPages() int {
	return query.PageCount(p.Total, p.PageSize)
}

// DisplayPage returns the 1-based page number for display.
func (p Pagination) DisplayPage() int {
	return p.Page + 1
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 0
}

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages()-1
}

// Jump validates a 1-based display page number and returns the 0-based
// index. Invalid input returns ok=false, leaving the current page alone
// (the pager restores its input box in that case).
func (p Pagination) Jump(displayPage int) (int, bool) {
	if displayPage < 1 || displayPage > p.TotalPages() {
		return 0, false
	}
	return displayPage - 1, true
}
