package cache

import (
	"fmt"
	"sync"
	"time"

	"trading-journal-go/internal/journal"

	"github.com/dgraph-io/ristretto"
)

// StatsCache keeps computed dashboards per user and filter. Invalidate bumps
// the user's generation so older entries are never read again and age out.
type StatsCache struct {
	c   *ristretto.Cache
	ttl time.Duration

	mu          sync.Mutex
	generations map[uint]uint64
}

// ensure StatsCache implements the interface
var _ journal.DashboardCache = (*StatsCache)(nil)

// New creates a StatsCache bounded by maxCost, roughly the number of stored
// dashboard points.
func New(maxCost int64, ttl time.Duration) (*StatsCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stats cache: %w", err)
	}
	return &StatsCache{c: c, ttl: ttl, generations: make(map[uint]uint64)}, nil
}

// Generation returns the user's current generation.
func (s *StatsCache) Generation(userID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

func cacheKey(userID uint, gen uint64, key string) string {
	return fmt.Sprintf("%d/%d/%s", userID, gen, key)
}

// Get returns the dashboard cached under gen, if any. A gen older than the
// user's current generation always misses.
func (s *StatsCache) Get(userID uint, gen uint64, key string) (journal.Dashboard, bool) {
	if gen != s.Generation(userID) {
		return journal.Dashboard{}, false
	}
	v, ok := s.c.Get(cacheKey(userID, gen, key))
	if !ok {
		return journal.Dashboard{}, false
	}
	d, ok := v.(journal.Dashboard)
	return d, ok
}

// Set stores d under gen. Results computed before an Invalidate are
// dropped. Admission is asynchronous, so a following Get may still miss.
func (s *StatsCache) Set(userID uint, gen uint64, key string, d journal.Dashboard) {
	if gen != s.Generation(userID) {
		return
	}
	cost := int64(1 + len(d.CumulativePnL))
	s.c.SetWithTTL(cacheKey(userID, gen, key), d, cost, s.ttl)
}

// Invalidate drops every dashboard cached for userID.
func (s *StatsCache) Invalidate(userID uint) {
	s.mu.Lock()
	s.generations[userID]++
	s.mu.Unlock()
}

// Close stops the cache's background goroutines.
func (s *StatsCache) Close() {
	s.c.Close()
}
