// Package cache provides caching infrastructure with PostgreSQL LISTEN/NOTIFY support.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"saletype/internal/core/id"
	"saletype/internal/domain/saletype"
	"saletype/pkg/logger"
)

// ChannelSaleTypes is notified by triggers on the sale type and rule tables.
const ChannelSaleTypes = "sale_type_changed"

// CandidateCache keeps the classification candidates of each company in
// memory. Every instance drops its entries when the sale type tables
// change, through NOTIFY from the database triggers. Local writes drop
// them too, so an instance without a listener stays coherent with itself.
//
// Cached types are shared between callers and must not be modified.
type CandidateCache struct {
	saletype.Repository

	pool    *pgxpool.Pool
	mu      sync.RWMutex
	entries map[id.ID][]*saletype.SaleType

	// gen counts invalidations; a read started before one is not stored
	gen uint64

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

var _ saletype.Repository = (*CandidateCache)(nil)

// NewCandidateCache wraps repo. pool is used for LISTEN once Start is
// called; it may be nil when the cache never listens.
func NewCandidateCache(repo saletype.Repository, pool *pgxpool.Pool) *CandidateCache {
	return &CandidateCache{
		Repository: repo,
		pool:       pool,
		entries:    make(map[id.ID][]*saletype.SaleType),
	}
}

// Candidates implements saletype.Repository.
func (c *CandidateCache) Candidates(ctx context.Context, companyID id.ID) ([]*saletype.SaleType, error) {
	c.mu.RLock()
	cached, ok := c.entries[companyID]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		return append([]*saletype.SaleType(nil), cached...), nil
	}

	types, err := c.Repository.Candidates(ctx, companyID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.entries[companyID] = types
	}
	c.mu.Unlock()

	return append([]*saletype.SaleType(nil), types...), nil
}

// Create implements saletype.Repository.
func (c *CandidateCache) Create(ctx context.Context, t *saletype.SaleType) error {
	defer c.Invalidate()
	return c.Repository.Create(ctx, t)
}

// Update implements saletype.Repository.
func (c *CandidateCache) Update(ctx context.Context, t *saletype.SaleType) error {
	defer c.Invalidate()
	return c.Repository.Update(ctx, t)
}

// Delete implements saletype.Repository.
func (c *CandidateCache) Delete(ctx context.Context, typeID id.ID) error {
	defer c.Invalidate()
	return c.Repository.Delete(ctx, typeID)
}

// SetDeletionMark implements saletype.Repository.
func (c *CandidateCache) SetDeletionMark(ctx context.Context, typeID id.ID, marked bool) error {
	defer c.Invalidate()
	return c.Repository.SetDeletionMark(ctx, typeID, marked)
}

// Invalidate drops every cached company. Reads already in flight return
// their result but do not store it.
func (c *CandidateCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[id.ID][]*saletype.SaleType)
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of cached companies.
func (c *CandidateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Start begins listening for NOTIFY events.
func (c *CandidateCache) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if c.started || c.pool == nil {
		return
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "sale type cache started")
}

// Stop gracefully stops the listener.
func (c *CandidateCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	cancel()
	c.wg.Wait()
	logger.Info(context.Background(), "sale type cache stopped")
}

// listenLoop holds a dedicated connection in LISTEN, reconnecting on failure.
func (c *CandidateCache) listenLoop() {
	defer c.wg.Done()

	for {
		if c.ctx.Err() != nil {
			return
		}

		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.pause()
			continue
		}

		if _, err := conn.Exec(c.ctx, "LISTEN "+ChannelSaleTypes); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", ChannelSaleTypes, "error", err)
			conn.Release()
			c.pause()
			continue
		}

		// Notifications may have been missed while not listening
		c.Invalidate()
		logger.Debug(c.ctx, "listening for sale type changes", "channel", ChannelSaleTypes)

		c.waitForNotifications(conn)
		conn.Release()
	}
}

// waitForNotifications blocks until the connection fails or Stop is called.
func (c *CandidateCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		notification, err := conn.Conn().WaitForNotification(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil {
				logger.Warn(c.ctx, "sale type listener interrupted", "error", err)
			}
			return
		}

		logger.Debug(c.ctx, "received notification",
			"channel", notification.Channel,
			"payload", notification.Payload)
		c.Invalidate()
	}
}

func (c *CandidateCache) pause() {
	select {
	case <-c.ctx.Done():
	case <-time.After(time.Second):
	}
}
