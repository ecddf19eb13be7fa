package browse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/favorites"
	"github.com/cookbookd/recipe-browser/pkg/logging"
	"github.com/cookbookd/recipe-browser/pkg/store"
)

// DetailController drives the single-record page: cache-first record
// lookup, previous/next navigation within the collection, and favorite
// toggling for authenticated users.
type DetailController struct {
	store     *store.Store
	favorites *favorites.Client
	logger    zerolog.Logger
}

// DetailConfig holds the detail controller configuration.
type DetailConfig struct {
	// Store is the shared record store. Required.
	Store *store.Store

	// Favorites enables favorite status and toggling. Optional.
	Favorites *favorites.Client
}

// NewDetailController creates a detail page controller.
func NewDetailController(cfg DetailConfig) (*DetailController, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	return &DetailController{
		store:     cfg.Store,
		favorites: cfg.Favorites,
		logger:    logging.NewLogger("detail-page"),
	}, nil
}

// Load returns the record with the given identity, cache-first.
func (c *DetailController) Load(ctx context.Context, id string) (catalog.Record, error) {
	return c.store.FetchByID(ctx, id)
}

// Neighbors returns the ids of the records before and after the given
// one in the collection snapshot, for previous/next navigation. Missing
// neighbors (ends of the collection, or a record fetched individually
// that is not in the snapshot) return empty ids.
func (c *DetailController) Neighbors(id string) (prev, next string) {
	records := c.store.All()
	for i, rec := range records {
		if rec.RecordID != id {
			continue
		}
		if i > 0 {
			prev = records[i-1].RecordID
		}
		if i < len(records)-1 {
			next = records[i+1].RecordID
		}
		return prev, next
	}
	return "", ""
}

// FavoriteStatus reports whether the authenticated user favorited the
// record. It requires a configured favorites client and a bearer token.
func (c *DetailController) FavoriteStatus(ctx context.Context, token, id string) (bool, error) {
	if c.favorites == nil {
		return false, fmt.Errorf("favorites not configured")
	}
	if token == "" {
		return false, nil
	}
	return c.favorites.Status(ctx, token, id)
}

// ToggleFavorite flips the record's favorite status and returns the new
// one. The record cache is never invalidated by favorite operations.
func (c *DetailController) ToggleFavorite(ctx context.Context, token, id string) (bool, error) {
	if c.favorites == nil {
		return false, fmt.Errorf("favorites not configured")
	}
	if token == "" {
		return false, fmt.Errorf("authentication required")
	}
	return c.favorites.Toggle(ctx, token, id)
}
