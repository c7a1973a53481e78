package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// CoinGecko-specific status codes, returned outside the usual HTTP range.
const (
	coinGeckoAccessDenied     = 1020
	coinGeckoMissingAPIKey    = 10002
	coinGeckoProPlanRequired  = 10005
	coinGeckoInvalidAPIKey    = 10010
	coinGeckoInvalidAPIKeyAlt = 10011
)

// CoinGecko observes crypto prices via the /simple/price endpoint. Each
// configured coin is quoted against the base currency; the provider speaks
// in coin ids, so a code-to-id map translates both ways.
type CoinGecko struct {
	url          string
	baseCurrency string
	cryptoIDs    map[string]string
	client       *http.Client
}

var _ ports.RateSource = (*CoinGecko)(nil)

func NewCoinGecko(url, baseCurrency string, cryptoIDs map[string]string, client *http.Client) *CoinGecko {
	return &CoinGecko{url: url, baseCurrency: baseCurrency, cryptoIDs: cryptoIDs, client: client}
}

func (c *CoinGecko) Name() string { return "CoinGecko" }

func (c *CoinGecko) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	ids := make([]string, 0, len(c.cryptoIDs))
	for _, id := range c.cryptoIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrSourceUnreachable, err)
	}
	q := req.URL.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.ToLower(c.baseCurrency))
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceMalformed, err)
	}

	codeByID := make(map[string]string, len(c.cryptoIDs))
	for code, id := range c.cryptoIDs {
		codeByID[id] = code
	}

	observedAt := time.Now().UTC()
	rates := make([]domain.ExchangeRate, 0, len(payload))
	for id, quotes := range payload {
		code, ok := codeByID[id]
		if !ok {
			continue
		}
		for vs, rate := range quotes {
			rates = append(rates, domain.ExchangeRate{
				FromCurrency: code,
				ToCurrency:   strings.ToUpper(vs),
				Rate:         rate,
				UpdatedAt:    observedAt,
			})
		}
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].PairKey() < rates[j].PairKey() })
	return rates, nil
}

func (c *CoinGecko) checkStatus(status int) error {
	switch status {
	case coinGeckoAccessDenied:
		return fmt.Errorf("%w: CoinGecko denied access", apperrors.ErrSourceForbidden)
	case coinGeckoProPlanRequired:
		return fmt.Errorf("%w: CoinGecko requires a paid plan for this request", apperrors.ErrSourceForbidden)
	case coinGeckoMissingAPIKey, coinGeckoInvalidAPIKey, coinGeckoInvalidAPIKeyAlt:
		return fmt.Errorf("%w: invalid CoinGecko API key", apperrors.ErrSourceForbidden)
	}
	return classifyStatus(c.Name(), status)
}
