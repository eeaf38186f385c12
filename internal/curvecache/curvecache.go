// Package curvecache memoises magnitude curves for the control context.
// Repaints and HTTP polling ask for the same curve many times between
// parameter changes; each distinct (snapshot, sample rate, width) is
// computed once per TTL.
package curvecache

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/patrickmn/go-cache"
)

// Cache is safe for concurrent use.
type Cache struct {
	store  *cache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{store: cache.New(ttl, 2*ttl)}
}

func key(p eq.ParameterSnapshot, sampleRate float64, width int) string {
	return fmt.Sprintf("%g|%d|%g|%g|%g|%g|%g|%d|%d", sampleRate, width,
		p.PeakFreq, p.PeakGainDB, p.PeakQ, p.LowCutFreq, p.HighCutFreq,
		int(p.LowCutSlope), int(p.HighCutSlope))
}

// Curve returns the curve of p at sampleRate and width, computing and
// storing it on a miss. p is sanitized first, so the result matches what
// the engine would apply. The returned slice is a private copy.
func (c *Cache) Curve(p eq.ParameterSnapshot, sampleRate float64, width int) (eq.MagnitudeCurve, error) {
	k := key(p, sampleRate, width)

	if v, ok := c.store.Get(k); ok {
		c.hits.Add(1)
		return slices.Clone(v.(eq.MagnitudeCurve)), nil
	}

	c.misses.Add(1)

	coeffs, err := eq.MakeChain(p.Sanitize(sampleRate), sampleRate)
	if err != nil {
		return nil, err
	}

	curve := eq.ComputeCurve(coeffs, sampleRate, width)
	c.store.SetDefault(k, curve)

	return slices.Clone(curve), nil
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached curves, expired ones included until the
// next cleanup.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}
