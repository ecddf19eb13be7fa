// Package browse composes the record store, the query engine, and the
// view state into the list, gallery, and detail browsing experiences.
package browse

import "net/url"

// Navigator is the consuming UI's navigation surface. Controllers push
// the canonical query string through it on every state change; page
// changes additionally request a scroll to the top of the view.
type Navigator interface {
	// UpdateQuery replaces the navigable URL's query parameters.
	UpdateQuery(values url.Values)

	// ScrollToTop scrolls the view to its top.
	ScrollToTop()
}

// NopNavigator discards navigation events. Useful for headless use of
// the controllers, e.g. the serve command derives views per request and
// reports the canonical query in the response instead.
type NopNavigator struct{}

// UpdateQuery implements Navigator.
func (NopNavigator) UpdateQuery(url.Values) {}

// ScrollToTop implements Navigator.
func (NopNavigator) ScrollToTop() {}
