package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

const (
	ratesFile   = "rates.json"
	historyFile = "exchange_rates.json"
)

// rateEntry is the on-disk shape of one directed pair entry in rates.json.
type rateEntry struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
}

// historyRecord is one append-only observation in exchange_rates.json.
type historyRecord struct {
	ID           string    `json:"id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
}

// RateRepository persists the rate cache snapshot and the historical log.
type RateRepository struct {
	store *Store
}

var (
	_ ports.RateCacheRepository   = (*RateRepository)(nil)
	_ ports.RateHistoryRepository = (*RateRepository)(nil)
)

func NewRateRepository(store *Store) *RateRepository {
	return &RateRepository{store: store}
}

// SaveCache writes the snapshot as one object holding the metadata plus one
// entry per directed pair, keyed "FROM_TO". The write is atomic: a corrupted
// rate cache would poison every later trade.
func (r *RateRepository) SaveCache(ctx context.Context, cache *domain.RateCache) error {
	doc := make(map[string]any, cache.Len()+2)
	doc["source"] = cache.Source()
	doc["last_refresh"] = cache.LastRefresh().UTC().Format(time.RFC3339)
	for _, e := range cache.Entries() {
		doc[e.PairKey()] = rateEntry{Rate: e.Rate, UpdatedAt: e.UpdatedAt}
	}
	return r.store.Save(ratesFile, doc, true)
}

// LoadCache reads the snapshot back. Pair keys are split into directed pairs
// and every reciprocal is re-derived rather than trusted from storage, so an
// inconsistent reverse entry on disk cannot survive a reload.
func (r *RateRepository) LoadCache(ctx context.Context) (*domain.RateCache, error) {
	raw := map[string]json.RawMessage{}
	if err := r.store.Load(ratesFile, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return domain.NewRateCache(), nil
	}

	var source string
	if msg, ok := raw["source"]; ok {
		if err := json.Unmarshal(msg, &source); err != nil {
			return nil, fmt.Errorf("%w: invalid source in %q: %v", apperrors.ErrStorage, ratesFile, err)
		}
	}
	var lastRefresh time.Time
	if msg, ok := raw["last_refresh"]; ok {
		var ts string
		if err := json.Unmarshal(msg, &ts); err != nil {
			return nil, fmt.Errorf("%w: invalid last_refresh in %q: %v", apperrors.ErrStorage, ratesFile, err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid last_refresh in %q: %v", apperrors.ErrStorage, ratesFile, err)
		}
		lastRefresh = parsed
	}

	var entries []domain.ExchangeRate
	for key, msg := range raw {
		if key == "source" || key == "last_refresh" {
			continue
		}
		from, to, ok := splitPairKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized key %q in %q", apperrors.ErrStorage, key, ratesFile)
		}
		var e rateEntry
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, fmt.Errorf("%w: invalid entry %q in %q: %v", apperrors.ErrStorage, key, ratesFile, err)
		}
		entries = append(entries, domain.ExchangeRate{
			FromCurrency: from,
			ToCurrency:   to,
			Rate:         e.Rate,
			UpdatedAt:    e.UpdatedAt,
		})
	}
	return domain.Restore(source, lastRefresh, entries), nil
}

// AppendHistory appends each raw observation, tagged with its source, to the
// historical log. The log is advisory, so it is written directly.
func (r *RateRepository) AppendHistory(ctx context.Context, source string, rates []domain.ExchangeRate) error {
	var records []historyRecord
	if err := r.store.Load(historyFile, &records); err != nil {
		return err
	}
	for _, rate := range rates {
		ts := rate.UpdatedAt.UTC().Format(time.RFC3339)
		records = append(records, historyRecord{
			ID:           fmt.Sprintf("%s_%s_%s", rate.FromCurrency, rate.ToCurrency, ts),
			FromCurrency: rate.FromCurrency,
			ToCurrency:   rate.ToCurrency,
			Rate:         rate.Rate,
			Timestamp:    rate.UpdatedAt,
			Source:       source,
		})
	}
	return r.store.Save(historyFile, records, false)
}

// splitPairKey parses "FROM_TO" into its currency codes. Codes are 2-5
// uppercase letters, so the underscore is unambiguous.
func splitPairKey(key string) (from, to string, ok bool) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return "", "", false
	}
	if domain.ValidateCode(parts[0]) != nil || domain.ValidateCode(parts[1]) != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}
