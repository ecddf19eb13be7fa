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

// CommonTags is the curated quick-filter ingredient list offered by the
// gallery page.
var CommonTags = []string{
	"chicken", "beef", "pork", "fish", "shrimp",
	"rice", "noodles", "pasta", "bread",
	"tomato", "onion", "garlic", "potato", "carrot",
	"cheese", "egg", "milk", "butter",
}

// GalleryController drives the gallery-style browsing page: faceted
// narrowing by ingredient tags (AND-combined), paginated, in fetch order.
type GalleryController struct {
	store    *store.Store
	nav      Navigator
	pageSize int
	logger   zerolog.Logger

	mu      sync.Mutex
	state   viewstate.GalleryState
	mount   uuid.UUID
	loading bool
	loadErr error
}

// GalleryConfig holds the gallery controller configuration.
type GalleryConfig struct {
	// Store is the shared record store. Required.
	Store *store.Store

	// Navigator receives URL updates and scroll requests.
	// Nil means NopNavigator.
	Navigator Navigator

	// PageSize is the page window size. Zero means DefaultPageSize.
	PageSize int
}

// NewGalleryController creates a gallery page controller.
func NewGalleryController(cfg GalleryConfig) (*GalleryController, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Navigator == nil {
		cfg.Navigator = NopNavigator{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	return &GalleryController{
		store:    cfg.Store,
		nav:      cfg.Navigator,
		pageSize: cfg.PageSize,
		logger:   logging.NewLogger("gallery-page"),
		state:    viewstate.DefaultGalleryState(),
	}, nil
}

// Mount initializes the state from URL parameters and starts the
// collection fetch. Completions arriving after Unmount are discarded.
func (c *GalleryController) Mount(ctx context.Context, values url.Values) {
	c.mu.Lock()
	c.state = viewstate.ParseGalleryState(values)
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
func (c *GalleryController) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mount = uuid.Nil
	c.loading = false
}

func (c *GalleryController) complete(token uuid.UUID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mount != token {
		c.logger.Warn().Msg("Stale fetch completion discarded")
		return
	}
	c.loading = false
	c.loadErr = err
}

// View derives the current page of results: tag filter, then the page
// window. Gallery keeps the collection's fetch order (no sort).
func (c *GalleryController) View() ([]catalog.Record, Pagination) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	active := query.FilterByTags(c.store.All(), state.SelectedTags)

	pag := Pagination{Page: state.Page, PageSize: c.pageSize, Total: len(active)}
	return query.Page(active, state.Page, c.pageSize), pag
}

// ActiveCount returns the size of the tag-filtered result set before
// pagination, for the "Found N recipes" summary.
func (c *GalleryController) ActiveCount() int {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	return len(query.FilterByTags(c.store.All(), state.SelectedTags))
}

// State returns a copy of the current query state.
func (c *GalleryController) State() viewstate.GalleryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether the initial fetch is still in flight.
func (c *GalleryController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the collection load error, letting callers distinguish an
// empty collection from a failed fetch.
func (c *GalleryController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// ToggleTag flips a tag's membership in the selection. The page resets
// to 0.
func (c *GalleryController) ToggleTag(tag string) {
	c.apply(func(s viewstate.GalleryState) viewstate.GalleryState { return s.ToggleTag(tag) }, false)
}

// ClearTags removes all selected tags. The page resets to 0.
func (c *GalleryController) ClearTags() {
	c.apply(func(s viewstate.GalleryState) viewstate.GalleryState { return s.ClearTags() }, false)
}

// SetPage moves to another page window and scrolls the view to its top.
func (c *GalleryController) SetPage(page int) {
	c.apply(func(s viewstate.GalleryState) viewstate.GalleryState { return s.WithPage(page) }, true)
}

func (c *GalleryController) apply(mutate func(viewstate.GalleryState) viewstate.GalleryState, scroll bool) {
	c.mu.Lock()
	c.state = mutate(c.state)
	values := c.state.Values()
	c.mu.Unlock()

	c.nav.UpdateQuery(values)
	if scroll {
		c.nav.ScrollToTop()
	}
}
