package cache

import (
	"context"
	"sync"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// Companies memoizes the active-company listing for a freshness window.
// Within the window readers get the cached snapshot; the first read after it
// lapses re-fetches. There is no cross-process invalidation; staleness is
// bounded by the TTL alone.
type Companies struct {
	mu    sync.Mutex
	src   repository.CompanyRepo
	ttl   time.Duration
	clock func() time.Time

	items     []models.Company
	fetchedAt time.Time
	valid     bool
}

func NewCompanies(src repository.CompanyRepo, ttl time.Duration) *Companies {
	return &Companies{
		src:   src,
		ttl:   ttl,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Active returns the active companies, served from cache while fresh.
func (c *Companies) Active(ctx context.Context) ([]models.Company, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.valid && now.Sub(c.fetchedAt) < c.ttl {
		return append([]models.Company(nil), c.items...), nil
	}

	items, err := c.src.ListActiveCompanies(ctx)
	if err != nil {
		// serve the stale snapshot rather than failing a read, if we have one
		if c.valid {
			return append([]models.Company(nil), c.items...), nil
		}
		return nil, err
	}

	c.items = items
	c.fetchedAt = now
	c.valid = true
	return append([]models.Company(nil), items...), nil
}

// Invalidate drops the snapshot so the next read hits the store. Writers call
// this after mutating companies in-process.
func (c *Companies) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.items = nil
}
