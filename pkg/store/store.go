// Package store owns the fetched-once recipe collection and its
// identity-indexed cache.
//
// The collection is fetched from the backend once per session and treated
// as immutable afterwards. The identity cache is a superset-or-equal view
// of the collection: every record of a full fetch is reachable by id, and
// individually fetched records join the cache without joining the
// collection snapshot. Entries are never evicted within a session.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/logging"
)

// Status is the lifecycle state of the collection fetch.
// An explicit status distinguishes "no data yet" from "fetch failed" and
// from "fetched an empty collection".
type Status string

const (
	// StatusIdle means no collection fetch has been attempted.
	StatusIdle Status = "idle"

	// StatusInFlight means a collection fetch is currently running.
	StatusInFlight Status = "in-flight"

	// StatusReady means the collection snapshot is populated.
	StatusReady Status = "ready"

	// StatusFailed means the last collection fetch failed.
	// The snapshot is untouched and a later FetchAll retries.
	StatusFailed Status = "failed"
)

// Fetcher is the backend surface the store depends on.
// *api.Client satisfies it.
type Fetcher interface {
	ListRecipes(ctx context.Context, limit int) ([]catalog.Record, error)
	GetRecipe(ctx context.Context, id string) (catalog.Record, error)
}

// Store is the authoritative in-memory snapshot of the remote collection
// plus identity-indexed random access. It is safe for concurrent use.
type Store struct {
	fetcher Fetcher
	limit   int
	logger  zerolog.Logger

	mu      sync.RWMutex
	records []catalog.Record
	status  Status
	lastErr error

	cache  *xsync.MapOf[string, catalog.Record]
	flight singleflight.Group
}

// Config holds the store configuration.
type Config struct {
	// Fetcher is the backend client. Required.
	Fetcher Fetcher

	// CollectionLimit is the page size requested for the full fetch.
	// Zero lets the fetcher use its default.
	CollectionLimit int
}

// New creates a record store.
func New(cfg Config) (*Store, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	return &Store{
		fetcher: cfg.Fetcher,
		limit:   cfg.CollectionLimit,
		logger:  logging.NewLogger("record-store"),
		status:  StatusIdle,
		cache:   xsync.NewMapOf[string, catalog.Record](),
	}, nil
}

// FetchAll populates the collection snapshot from the backend.
//
// Once the snapshot is ready, FetchAll returns immediately without a
// network call. Concurrent calls while a fetch is in flight share the
// single underlying request. On failure the prior state is untouched,
// the error is retained, and a later call retries.
func (s *Store) FetchAll(ctx context.Context) error {
	if s.Status() == StatusReady {
		return nil
	}

	_, err, _ := s.flight.Do("collection", func() (any, error) {
		// A caller queued behind the winning fetch re-checks here.
		if s.Status() == StatusReady {
			return nil, nil
		}

		s.setStatus(StatusInFlight, nil)

		records, err := s.fetcher.ListRecipes(ctx, s.limit)
		if err != nil {
			fetchFailures.WithLabelValues("collection").Inc()
			s.setStatus(StatusFailed, err)
			s.logger.Error().Err(err).Msg("Collection fetch failed")
			return nil, fmt.Errorf("fetch collection: %w", err)
		}

		for _, rec := range records {
			s.cache.Store(rec.RecordID, rec)
		}

		s.mu.Lock()
		s.records = records
		s.status = StatusReady
		s.lastErr = nil
		s.mu.Unlock()

		collectionSize.Set(float64(len(records)))
		s.logger.Info().Int("records", len(records)).Msg("Collection snapshot ready")
		return nil, nil
	})

	return err
}

// FetchByID returns the record with the given identity.
//
// A cache hit returns synchronously with no network call. On a miss the
// record is fetched, cached, and returned; concurrent misses for the same
// id share one request. Failures propagate without touching the cache,
// so a later call retries (no negative caching).
func (s *Store) FetchByID(ctx context.Context, id string) (catalog.Record, error) {
	if rec, ok := s.cache.Load(id); ok {
		cacheHits.Inc()
		return rec, nil
	}
	cacheMisses.Inc()

	v, err, _ := s.flight.Do("record:"+id, func() (any, error) {
		if rec, ok := s.cache.Load(id); ok {
			return rec, nil
		}

		rec, err := s.fetcher.GetRecipe(ctx, id)
		if err != nil {
			fetchFailures.WithLabelValues("record").Inc()
			s.logger.Warn().Err(err).Str("record_id", id).Msg("Record fetch failed")
			return nil, fmt.Errorf("fetch record %s: %w", id, err)
		}

		s.cache.Store(id, rec)
		s.logger.Debug().Str("record_id", id).Msg("Record cached")
		return rec, nil
	})
	if err != nil {
		return catalog.Record{}, err
	}

	return v.(catalog.Record), nil
}

// All returns the collection snapshot. Callers must treat it as read-only;
// derivation operates on copies.
func (s *Store) All() []catalog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the size of the collection snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Status returns the collection fetch status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error retained from the last failed collection fetch,
// or nil. It lets callers distinguish "empty" from "failed".
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Cached reports whether a record is present in the identity cache,
// without a network call.
func (s *Store) Cached(id string) bool {
	_, ok := s.cache.Load(id)
	return ok
}

func (s *Store) setStatus(status Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.lastErr = err
}
