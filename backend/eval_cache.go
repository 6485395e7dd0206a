package main

import (
	"log"
	"sync"
	"sync/atomic"
)

type EvalFunc func(Board) float64

// EvalCache memoizes static evaluations keyed by the whole Board value.
// Entries are never evicted.
type EvalCache struct {
	mu          sync.RWMutex
	entries     map[Board]float64
	eval        EvalFunc
	weightsHash uint64
	warnEntries int
	warned      atomic.Bool
	probes      atomic.Int64
	hits        atomic.Int64
}

type EvalCacheStats struct {
	Entries     int     `json:"entries"`
	Probes      int64   `json:"probes"`
	Hits        int64   `json:"hits"`
	HitRate     float64 `json:"hit_rate"`
	WeightsHash string  `json:"weights_hash"`
	// Shared is false when every search builds its own cache; the other
	// fields then describe the idle shared cache only.
	Shared      bool    `json:"shared"`
}

// NewEvalCache builds a cache over HeuristicValue with the config's resolved
// weights.
func NewEvalCache(config Config) *EvalCache {
	weights := resolvedHeuristicConfig(config)
	eval := func(b Board) float64 {
		return HeuristicValue(b, weights)
	}
	cache := newEvalCacheWithFunc(eval, heuristicHash(weights))
	cache.warnEntries = config.AiEvalCacheWarnEntries
	return cache
}

func newEvalCacheWithFunc(eval EvalFunc, weightsHash uint64) *EvalCache {
	return &EvalCache{
		entries:     make(map[Board]float64),
		eval:        eval,
		weightsHash: weightsHash,
	}
}

func (c *EvalCache) GetOrCompute(b Board) float64 {
	c.probes.Add(1)
	c.mu.RLock()
	value, ok := c.entries[b]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return value
	}
	value = c.eval(b)
	c.mu.Lock()
	c.entries[b] = value
	size := len(c.entries)
	c.mu.Unlock()
	if c.warnEntries > 0 && size >= c.warnEntries && c.warned.CompareAndSwap(false, true) {
		log.Printf("[ai:cache] eval cache reached %d entries; it is never evicted", size)
	}
	return value
}

// Evaluate bypasses the cache.
func (c *EvalCache) Evaluate(b Board) float64 {
	return c.eval(b)
}

func (c *EvalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *EvalCache) WeightsHash() uint64 {
	return c.weightsHash
}

func (c *EvalCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[Board]float64)
	c.mu.Unlock()
	c.probes.Store(0)
	c.hits.Store(0)
	c.warned.Store(false)
}

func (c *EvalCache) Stats() EvalCacheStats {
	stats := EvalCacheStats{
		Entries:     c.Len(),
		Probes:      c.probes.Load(),
		Hits:        c.hits.Load(),
		WeightsHash: formatHash(c.weightsHash),
	}
	if stats.Probes > 0 {
		stats.HitRate = float64(stats.Hits) * 100.0 / float64(stats.Probes)
	}
	return stats
}
