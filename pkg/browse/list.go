package browse

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/logging"
	"github.com/cookbookd/recipe-browser/pkg/query"
	"github.com/cookbookd/recipe-browser/pkg/store"
	"github.com/cookbookd/recipe-browser/pkg/viewstate"
)

// ListController drives the list-style browsing page: free-text search
// in title or ingredient mode, sortable, paginated.
//
// Controllers follow the UI's single logical thread: event methods are
// not meant to race each other. The one concurrent edge is the initial
// collection fetch, which completes on its own goroutine; a mount token
// guards against a fetch resolving after the view is gone.
type ListController struct {
	store    *store.Store
	nav      Navigator
	pageSize int
	logger   zerolog.Logger

	mu      sync.Mutex
	state   viewstate.ListState
	mount   uuid.UUID
	loading bool
	loadErr error
}

// ListConfig holds the list controller configuration.
type ListConfig struct {
	// Store is the shared record store. Required.
	Store *store.Store

	// Navigator receives URL updates and scroll requests.
	// Nil means NopNavigator.
	Navigator Navigator

	// PageSize is the page window size. Zero means DefaultPageSize.
	PageSize int
}

// NewListController creates a list page controller.
func NewListController(cfg ListConfig) (*ListController, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Navigator == nil {
		cfg.Navigator = NopNavigator{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	return &ListController{
		store:    cfg.Store,
		nav:      cfg.Navigator,
		pageSize: cfg.PageSize,
		logger:   logging.NewLogger("list-page"),
		state:    viewstate.DefaultListState(),
	}, nil
}

// Mount initializes the state from URL parameters and starts the
// collection fetch. The fetch completes asynchronously; completions
// arriving after Unmount are discarded.
func (c *ListController) Mount(ctx context.Context, values url.Values) {
	c.mu.Lock()
	c.state = viewstate.ParseListState(values)
	token := uuid.New()
	c.mount = token
	c.loading = true
	c.loadErr = nil
	c.mu.Unlock()

	go func() {
		err := c.store.FetchAll(ctx)
		c.complete(token, err)
	}()
}

// Unmount detaches the controller; in-flight fetch results no longer
// apply to it.
func (c *ListController) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mount = uuid.Nil
	c.loading = false
}

func (c *ListController) complete(token uuid.UUID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mount != token {
		c.logger.Warn().Msg("Stale fetch completion discarded")
		return
	}
	c.loading = false
	c.loadErr = err
}

// View derives the current page of results: search, then sort, then the
// page window. An out-of-range page yields an empty window rather than
// an error.
func (c *ListController) View() ([]catalog.Record, Pagination) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	matched := query.Search(c.store.All(), state.Search, state.SearchMode)
	sorted := query.Sort(matched, state.SortField, state.SortOrder)

	pag := Pagination{Page: state.Page, PageSize: c.pageSize, Total: len(sorted)}
	return query.Page(sorted, state.Page, c.pageSize), pag
}

// State returns a copy of the current query state.
func (c *ListController) State() viewstate.ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether the initial fetch is still in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the collection load error, letting callers distinguish an
// empty collection from a failed fetch.
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// SetSearch updates the search text. The page resets to 0.
func (c *ListController) SetSearch(q string) {
	c.apply(func(s viewstate.ListState) viewstate.ListState { return s.WithSearch(q) }, false)
}

// SetSearchMode updates the search mode. The page resets to 0.
func (c *ListController) SetSearchMode(mode query.SearchMode) {
	c.apply(func(s viewstate.ListState) viewstate.ListState { return s.WithSearchMode(mode) }, false)
}

// SetSortField updates the sort field. The page resets to 0.
func (c *ListController) SetSortField(field query.SortField) {
	c.apply(func(s viewstate.ListState) viewstate.ListState { return s.WithSortField(field) }, false)
}

// SetSortOrder updates the sort order. The page resets to 0.
func (c *ListController) SetSortOrder(order query.SortOrder) {
	c.apply(func(s viewstate.ListState) viewstate.ListState { return s.WithSortOrder(order) }, false)
}

// SetPage moves to another page window and scrolls the view to its top.
func (c *ListController) SetPage(page int) {
	c.apply(func(s viewstate.ListState) viewstate.ListState { return s.WithPage(page) }, true)
}

// apply mutates the state and pushes the canonical query string through
// the navigator. Page changes additionally request a scroll to top.
func (c *ListController) apply(mutate func(viewstate.ListState) viewstate.ListState, scroll bool) {
	c.mu.Lock()
	c.state = mutate(c.state)
	values := c.state.Values()
	c.mu.Unlock()

	c.nav.UpdateQuery(values)
	if scroll {
		c.nav.ScrollToTop()
	}
}
