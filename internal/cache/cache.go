// Package cache memoizes aggregation results while a back-office session
// explores the reseller tree. Results are keyed by session, date window, kind
// and node, and a session only ever holds entries for its current window.
//
// Entries are stamped with the store's generation. Invalidate moves the
// generation on, so older entries stop counting as fresh but remain readable
// as a stale fallback until their window is switched away.
package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
)

// DefaultSession is used when a caller does not identify its session
const DefaultSession = "default"

// Hit describes what a lookup found
type Hit int

const (
	// Miss means nothing is cached for the key
	Miss Hit = iota
	// Stale means the entry predates the last invalidation
	Stale
	// Fresh means the entry can be served as is
	Fresh
)

func (h Hit) String() string {
	switch h {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

type entry struct {
	Generation int64           `json:"gen"`
	Value      json.RawMessage `json:"value"`
}

// AggregationCache is the lazy per-session cache of node and child statistics.
// A lookup under a new window makes that window current and discards the old
// one; a store for a window that is no longer current is dropped.
// Store failures are logged and treated as misses.
type AggregationCache struct {
	mu    sync.Mutex
	store Store
	log   logger.Logger
}

// New creates an AggregationCache over store
func New(log logger.Logger, store Store) *AggregationCache {
	return &AggregationCache{store: store, log: log.With("component", "cache")}
}

// Stats returns the cached figures for nodeID
func (c *AggregationCache) Stats(ctx context.Context, session string, window models.DateWindow, nodeID int64) (models.EntityStats, Hit) {
	var stats models.EntityStats
	hit := c.lookup(ctx, key(session, window, KindStats, nodeID), &stats)
	return stats, hit
}

// PutStats caches the figures for nodeID
func (c *AggregationCache) PutStats(ctx context.Context, session string, window models.DateWindow, stats models.EntityStats) {
	c.put(ctx, key(session, window, KindStats, stats.EntityID), stats)
}

// Children returns the cached child expansion of nodeID
func (c *AggregationCache) Children(ctx context.Context, session string, window models.DateWindow, nodeID int64) ([]models.EntityStats, Hit) {
	var children []models.EntityStats
	hit := c.lookup(ctx, key(session, window, KindChildren, nodeID), &children)
	return children, hit
}

// PutChildren caches the child expansion of nodeID
func (c *AggregationCache) PutChildren(ctx context.Context, session string, window models.DateWindow, nodeID int64, children []models.EntityStats) {
	c.put(ctx, key(session, window, KindChildren, nodeID), children)
}

// Invalidate marks every cached entry stale. If the generation cannot be
// moved on, the entries are purged instead.
func (c *AggregationCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	gen, err := c.store.BumpGeneration(ctx)
	c.mu.Unlock()
	if err == nil {
		c.log.Debug("Cache invalidated", "generation", gen)
		return
	}
	c.log.Warn("Cache invalidation failed, purging", "error", err)
	c.Purge(ctx)
}

// Purge discards every session's entries
func (c *AggregationCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Purge(ctx); err != nil {
		c.log.Warn("Cache purge failed", "error", err)
	}
}

func key(session string, window models.DateWindow, kind Kind, nodeID int64) Key {
	if session == "" {
		session = DefaultSession
	}
	return Key{Session: session, Window: window.Key(), Kind: kind, NodeID: nodeID}
}

func (c *AggregationCache) lookup(ctx context.Context, k Key, dst any) Hit {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.store.Window(ctx, k.Session)
	if err != nil {
		c.log.Warn("Cache window read failed", "session", k.Session, "error", err)
		return Miss
	}
	if current != k.Window {
		if err := c.store.SetWindow(ctx, k.Session, k.Window); err != nil {
			c.log.Warn("Cache window switch failed", "session", k.Session, "error", err)
		} else {
			c.log.Debug("Cache window changed", "session", k.Session, "from", current, "to", k.Window)
		}
		return Miss
	}

	data, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.log.Warn("Cache read failed", "key", k.String(), "error", err)
		return Miss
	}
	if !ok {
		return Miss
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn("Cache entry corrupt", "key", k.String(), "error", err)
		return Miss
	}
	if err := json.Unmarshal(e.Value, dst); err != nil {
		c.log.Warn("Cache entry corrupt", "key", k.String(), "error", err)
		return Miss
	}

	gen, err := c.store.Generation(ctx)
	if err != nil {
		c.log.Warn("Cache generation read failed", "error", err)
		return Stale
	}
	if e.Generation != gen {
		return Stale
	}
	return Fresh
}

func (c *AggregationCache) put(ctx context.Context, k Key, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache encode failed", "key", k.String(), "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.store.Window(ctx, k.Session)
	if err != nil {
		c.log.Warn("Cache window read failed", "session", k.Session, "error", err)
		return
	}
	if current != k.Window {
		c.log.Debug("Dropping result for superseded window", "key", k.String(), "current", current)
		return
	}
	gen, err := c.store.Generation(ctx)
	if err != nil {
		c.log.Warn("Cache generation read failed", "error", err)
		return
	}
	stamped, err := json.Marshal(entry{Generation: gen, Value: data})
	if err != nil {
		c.log.Warn("Cache encode failed", "key", k.String(), "error", err)
		return
	}
	if err := c.store.Set(ctx, k, stamped); err != nil {
		c.log.Warn("Cache write failed", "key", k.String(), "error", err)
	}
}
