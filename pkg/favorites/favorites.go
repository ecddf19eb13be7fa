// Package favorites tracks per-user favorite status for records.
//
// Favorite status lives outside the record identity cache: records are
// immutable for the session, favorite status is not. Status reads go
// through a TTL cache with stampede protection; toggles invalidate the
// cached status so the next read observes the mutation.
package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"

	"github.com/cookbookd/recipe-browser/pkg/logging"
)

// Backend is the favorites surface of the API client.
// *api.Client satisfies it.
type Backend interface {
	CheckFavorite(ctx context.Context, token, id string) (bool, error)
	AddFavorite(ctx context.Context, token, id string) error
	RemoveFavorite(ctx context.Context, token, id string) error
}

// Client provides cached favorite-status reads and toggle writes.
type Client struct {
	backend Backend
	cache   *sturdyc.Client[bool]
	logger  zerolog.Logger
}

// Config holds the favorites client configuration.
type Config struct {
	// Backend is the API client. Required.
	Backend Backend

	// StatusTTL bounds how long a favorite status may be served
	// from cache. Zero means 1 minute.
	StatusTTL time.Duration

	// Capacity is the maximum number of cached statuses.
	// Zero means 1024.
	Capacity int
}

// New creates a favorites client.
func New(cfg Config) (*Client, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.StatusTTL <= 0 {
		cfg.StatusTTL = time.Minute
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}

	return &Client{
		backend: cfg.Backend,
		cache:   sturdyc.New[bool](cfg.Capacity, 16, cfg.StatusTTL, 10),
		logger:  logging.NewLogger("favorites"),
	}, nil
}

// Status reports whether the authenticated user favorited a record.
// Concurrent reads for the same record share one backend request.
func (c *Client) Status(ctx context.Context, token, id string) (bool, error) {
	return c.cache.GetOrFetch(ctx, statusKey(token, id), func(ctx context.Context) (bool, error) {
		return c.backend.CheckFavorite(ctx, token, id)
	})
}

// Toggle flips the favorite status of a record and returns the new status.
// The cached status is invalidated so the mutation is observed immediately.
// The record identity cache is never touched by favorite operations.
func (c *Client) Toggle(ctx context.Context, token, id string) (bool, error) {
	current, err := c.Status(ctx, token, id)
	if err != nil {
		return false, fmt.Errorf("check favorite %s: %w", id, err)
	}

	if current {
		err = c.backend.RemoveFavorite(ctx, token, id)
	} else {
		err = c.backend.AddFavorite(ctx, token, id)
	}
	if err != nil {
		return current, fmt.Errorf("toggle favorite %s: %w", id, err)
	}

	c.cache.Delete(statusKey(token, id))
	c.logger.Debug().
		Str("record_id", id).
		Bool("favorited", !current).
		Msg("Favorite toggled")

	return !current, nil
}

// Invalidate drops the cached status of a record for the given user.
func (c *Client) Invalidate(token, id string) {
	c.cache.Delete(statusKey(token, id))
}

func statusKey(token, id string) string {
	return "favorites:" + token + ":" + id
}
