package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// countingSource wraps a fixed company list and counts fetches.
type countingSource struct {
	repository.CompanyRepo

	mu      sync.Mutex
	items   []models.Company
	err     error
	fetches int
}

func (s *countingSource) ListActiveCompanies(ctx context.Context) ([]models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Company(nil), s.items...), nil
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func TestCacheServesWithinTTL(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{items: []models.Company{{ID: 1, CompanyName: "Acme"}}}
	c := NewCompanies(src, 5*time.Minute)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		got, err := c.Active(ctx)
		if err != nil {
			t.Fatalf("Active error: %v", err)
		}
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("unexpected snapshot: %#v", got)
		}
	}
	if src.count() != 1 {
		t.Fatalf("expected a single fetch within TTL, got %d", src.count())
	}

	// crossing the window forces a re-fetch
	c.clock = func() time.Time { return base.Add(5 * time.Minute) }
	if _, err := c.Active(ctx); err != nil {
		t.Fatalf("Active error: %v", err)
	}
	if src.count() != 2 {
		t.Fatalf("expected re-fetch after TTL, got %d fetches", src.count())
	}
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	c := NewCompanies(src, 5*time.Minute)

	if _, err := c.Active(ctx); err != nil {
		t.Fatalf("Active error: %v", err)
	}
	c.Invalidate()
	if _, err := c.Active(ctx); err != nil {
		t.Fatalf("Active error: %v", err)
	}
	if src.count() != 2 {
		t.Fatalf("expected fetch after invalidation, got %d", src.count())
	}
}

func TestCacheServesStaleOnSourceError(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{items: []models.Company{{ID: 1}}}
	c := NewCompanies(src, time.Minute)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return base }

	if _, err := c.Active(ctx); err != nil {
		t.Fatalf("Active error: %v", err)
	}

	src.mu.Lock()
	src.err = errors.New("store down")
	src.mu.Unlock()

	c.clock = func() time.Time { return base.Add(2 * time.Minute) }
	got, err := c.Active(ctx)
	if err != nil {
		t.Fatalf("expected stale snapshot, got error %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected stale items, got %#v", got)
	}

	// with no snapshot at all the error propagates
	empty := NewCompanies(&countingSource{err: errors.New("down")}, time.Minute)
	if _, err := empty.Active(ctx); err == nil {
		t.Fatalf("expected error with no snapshot")
	}
}
