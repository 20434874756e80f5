package pathfinding

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gridnav/core"
)

// PathCacheKey identifies a cached search result.
type PathCacheKey struct {
	Strategy    Strategy
	Start, Goal core.Location
	GridHash    uint64 // Fingerprint of the searched grid
}

// PathCache stores previously computed paths for reuse. It is safe for
// concurrent use.
type PathCache struct {
	mu        sync.RWMutex
	cache     map[PathCacheKey]core.Path
	order     []PathCacheKey // insertion order, oldest first
	maxSize   int
	hits      int64 // Use atomic operations
	misses    int64 // Use atomic operations
	evictions int64 // Use atomic operations
}

// NewPathCache creates a new path cache with the specified maximum size.
// A size of zero or less means unbounded.
func NewPathCache(maxSize int) *PathCache {
	return &PathCache{
		cache:   make(map[PathCacheKey]core.Path),
		maxSize: maxSize,
	}
}

// Get retrieves a copy of a cached path.
func (pc *PathCache) Get(key PathCacheKey) (core.Path, bool) {
	pc.mu.RLock()
	path, found := pc.cache[key]
	pc.mu.RUnlock()

	if !found {
		atomic.AddInt64(&pc.misses, 1)
		return core.Path{}, false
	}
	atomic.AddInt64(&pc.hits, 1)
	return core.NewPath(path.Points, path.Cost), true
}

// Put stores a copy of path, evicting the oldest entry when full.
func (pc *PathCache) Put(key PathCacheKey, path core.Path) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, exists := pc.cache[key]; !exists {
		if pc.maxSize > 0 && len(pc.cache) >= pc.maxSize {
			oldest := pc.order[0]
			pc.order = pc.order[1:]
			delete(pc.cache, oldest)
			atomic.AddInt64(&pc.evictions, 1)
		}
		pc.order = append(pc.order, key)
	}
	pc.cache[key] = core.NewPath(path.Points, path.Cost)
}

// Clear removes all entries and resets the counters.
func (pc *PathCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache = make(map[PathCacheKey]core.Path)
	pc.order = nil
	atomic.StoreInt64(&pc.hits, 0)
	atomic.StoreInt64(&pc.misses, 0)
	atomic.StoreInt64(&pc.evictions, 0)
}

// Stats returns cache statistics.
func (pc *PathCache) Stats() (hits, misses, evictions, size int) {
	pc.mu.RLock()
	size = len(pc.cache)
	pc.mu.RUnlock()

	hits = int(atomic.LoadInt64(&pc.hits))
	misses = int(atomic.LoadInt64(&pc.misses))
	evictions = int(atomic.LoadInt64(&pc.evictions))

	return hits, misses, evictions, size
}

// String returns a string representation of cache statistics.
func (pc *PathCache) String() string {
	hits, misses, evictions, size := pc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf("PathCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, pc.maxSize, hits, misses, hitRate, evictions)
}

// Fingerprinter is implemented by graphs that can summarize their content.
// *grid.Grid satisfies it.
type Fingerprinter interface {
	Fingerprint() uint64
}

// CachedPathfinder wraps a Pathfinder with a result cache. Only successful
// searches are stored. A graph without a fingerprint disables caching.
type CachedPathfinder struct {
	finder   Pathfinder
	cache    *PathCache
	gridHash uint64
	hashed   bool
}

// NewCachedPathfinder creates a new cached pathfinder.
func NewCachedPathfinder(finder Pathfinder, cacheSize int) *CachedPathfinder {
	return &CachedPathfinder{
		finder: finder,
		cache:  NewPathCache(cacheSize),
	}
}

// Initialize binds g to the wrapped pathfinder and records its fingerprint.
func (cpf *CachedPathfinder) Initialize(g Graph, maxSearchNodes int) error {
	if err := cpf.finder.Initialize(g, maxSearchNodes); err != nil {
		return err
	}
	fp, ok := g.(Fingerprinter)
	cpf.hashed = ok
	if ok {
		cpf.gridHash = fp.Fingerprint()
	}
	return nil
}

// FindPath finds a path, using the cache when possible.
func (cpf *CachedPathfinder) FindPath(start, goal core.Location) (core.Path, error) {
	if !cpf.hashed {
		return FindPath(cpf.finder, start, goal)
	}
	key := PathCacheKey{
		Strategy: cpf.finder.Strategy(),
		Start:    start,
		Goal:     goal,
		GridHash: cpf.gridHash,
	}

	if path, found := cpf.cache.Get(key); found {
		return path, nil
	}

	path, err := FindPath(cpf.finder, start, goal)
	if err != nil {
		return path, err
	}

	cpf.cache.Put(key, path)
	return path, nil
}

// Pathfinder returns the wrapped pathfinder.
func (cpf *CachedPathfinder) Pathfinder() Pathfinder {
	return cpf.finder
}

// ClearCache clears the path cache.
func (cpf *CachedPathfinder) ClearCache() {
	cpf.cache.Clear()
}

// CacheStats returns the cache statistics.
func (cpf *CachedPathfinder) CacheStats() string {
	return cpf.cache.String()
}
