package stats

import "sync"

// Cache memoizes one computed DashboardStats against the repository
// version that produced it. Any mutation bumps the version, which
// invalidates the entry on the next Get; there is no TTL and no chance of
// serving stats stale relative to the collections.
type Cache struct {
	mu      sync.Mutex
	valid   bool
	version uint64
	stats   DashboardStats
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached stats when version matches, otherwise calls
// compute and stores the result under version.
func (c *Cache) Get(version uint64, compute func() DashboardStats) DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.version == version {
		return c.stats
	}
	c.stats = compute()
	c.version = version
	c.valid = true
	return c.stats
}
