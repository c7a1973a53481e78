package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// RateCache holds the latest known rate for every directed currency pair the
// system has observed. Storing (A,B) always stores (B,A) as its reciprocal in
// the same write, so forward and reverse entries are numerically reciprocal
// at time of write. Entries are never evicted: a stale rate is still usable,
// only a never-observed pair fails.
type RateCache struct {
	source      string
	lastRefresh time.Time
	rates       map[string]ExchangeRate
}

// NewRateCache returns an empty cache.
func NewRateCache() *RateCache {
	return &RateCache{rates: make(map[string]ExchangeRate)}
}

// Source is the name of the last updater that wrote to the cache.
func (c *RateCache) Source() string { return c.source }

// LastRefresh is the timestamp of the last update cycle.
func (c *RateCache) LastRefresh() time.Time { return c.lastRefresh }

// Len reports the number of directed entries.
func (c *RateCache) Len() int { return len(c.rates) }

// GetRate returns the latest known rate for from→to.
//
// Both codes are validated syntactically before any lookup. A same-currency
// lookup always returns the identity rate, regardless of cache contents. A
// pair that was never recorded in either direction fails with
// ErrRateUnavailable.
func (c *RateCache) GetRate(from, to string) (ExchangeRate, error) {
	if err := ValidateCode(from); err != nil {
		return ExchangeRate{}, err
	}
	if err := ValidateCode(to); err != nil {
		return ExchangeRate{}, err
	}
	if from == to {
		return IdentityRate(from), nil
	}
	if r, ok := c.rates[from+"_"+to]; ok {
		return r, nil
	}
	// The pair-write keeps both directions present, but a reloaded or
	// hand-edited file may carry only one; derive from the reverse entry.
	if r, ok := c.rates[to+"_"+from]; ok {
		return r.Reciprocal(), nil
	}
	return ExchangeRate{}, fmt.Errorf("%w: no rate recorded for %s_%s", apperrors.ErrRateUnavailable, from, to)
}

// Update overwrites the forward entry and its derived reciprocal for every
// observation, as a single pair-write each, then records source and
// refreshedAt as the cache metadata (last writer wins). Observations are
// applied in order: when the same pair appears twice, the later one wins.
func (c *RateCache) Update(source string, refreshedAt time.Time, observations []ExchangeRate) {
	for _, obs := range observations {
		c.put(obs)
	}
	c.source = source
	c.lastRefresh = refreshedAt
}

// put writes one observation and its reciprocal. Same-currency or
// non-positive observations are ignored: they cannot produce a consistent
// reciprocal.
func (c *RateCache) put(obs ExchangeRate) {
	if obs.FromCurrency == obs.ToCurrency || obs.Rate <= 0 {
		return
	}
	c.rates[obs.PairKey()] = obs
	rec := obs.Reciprocal()
	c.rates[rec.PairKey()] = rec
}

// Restore rebuilds a cache from persisted directed entries. Reciprocals are
// re-derived, not trusted from storage: for every pair, the direction whose
// key sorts first is taken as canonical and the reverse entry is overwritten
// with its reciprocal. This guards against tampered or half-written files.
func Restore(source string, lastRefresh time.Time, entries []ExchangeRate) *RateCache {
	c := NewRateCache()
	sorted := make([]ExchangeRate, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PairKey() < sorted[j].PairKey() })
	for _, e := range sorted {
		if _, ok := c.rates[e.PairKey()]; ok {
			continue // already derived from the canonical direction
		}
		c.put(e)
	}
	c.source = source
	c.lastRefresh = lastRefresh
	return c
}

// Entries returns every directed entry, sorted by pair key.
func (c *RateCache) Entries() []ExchangeRate {
	out := make([]ExchangeRate, 0, len(c.rates))
	for _, r := range c.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PairKey() < out[j].PairKey() })
	return out
}
