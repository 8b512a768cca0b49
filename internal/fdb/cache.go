// internal/fdb/cache.go

package fdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const DefaultCacheTTL = 15 * time.Minute

// Fetcher reads the raw forwarding table from a switch.
type Fetcher func(ctx context.Context, host string) (string, error)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

type entry struct {
	data    string
	fetched time.Time
}

// Cache holds the last FDB output per host. Entries younger than the TTL are
// served silently; older ones are served only if the operator declines a
// refresh.
type Cache struct {
	ttl     time.Duration
	fetch   Fetcher
	confirm Confirmer
	now     func() time.Time
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]entry
}

func NewCache(ttl time.Duration, fetch Fetcher, confirm Confirmer, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		ttl:     ttl,
		fetch:   fetch,
		confirm: confirm,
		now:     time.Now,
		logger:  logger,
		entries: make(map[string]entry),
	}
}

// Get returns the FDB output for host. forceRefresh skips the cache.
func (c *Cache) Get(ctx context.Context, host string, forceRefresh bool) (string, error) {
	c.mu.Lock()
	cached, ok := c.entries[host]
	c.mu.Unlock()

	if ok && !forceRefresh {
		age := c.now().Sub(cached.fetched)
		if age < c.ttl {
			c.logger.Debug("fdb cache hit", "host", host, "age", age)
			return cached.data, nil
		}

		question := fmt.Sprintf("FDB cache for %s is %d minutes old. Refresh from switch (y/n)?", host, int(age.Minutes()))
		refresh, err := c.confirm.Confirm(question)
		if err != nil {
			return "", err
		}
		if !refresh {
			c.logger.Debug("serving stale fdb cache", "host", host, "age", age)
			return cached.data, nil
		}
	}

	data, err := c.fetch(ctx, host)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[host] = entry{data: data, fetched: c.now()}
	c.mu.Unlock()

	c.logger.Info("fdb cache updated", "host", host, "bytes", len(data))
	return data, nil
}

// Invalidate drops the cached output for host.
func (c *Cache) Invalidate(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, host)
}
