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

// ExchangeRateAPI observes fiat rates from exchangerate-api.com. The open
// endpoint and the keyed v6 endpoint serve the same envelope; the base URL
// decides which one is in use and the base currency is appended to it.
type ExchangeRateAPI struct {
	baseURL        string
	baseCurrency   string
	fiatCurrencies map[string]struct{}
	client         *http.Client
}

var _ ports.RateSource = (*ExchangeRateAPI)(nil)

func NewExchangeRateAPI(baseURL, baseCurrency string, fiatCurrencies []string, client *http.Client) *ExchangeRateAPI {
	set := make(map[string]struct{}, len(fiatCurrencies))
	for _, code := range fiatCurrencies {
		set[strings.ToUpper(code)] = struct{}{}
	}
	return &ExchangeRateAPI{
		baseURL:        baseURL,
		baseCurrency:   baseCurrency,
		fiatCurrencies: set,
		client:         client,
	}
}

func (c *ExchangeRateAPI) Name() string { return "ExchangeRate-API" }

func (c *ExchangeRateAPI) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	url := strings.TrimSuffix(c.baseURL, "/") + "/" + c.baseCurrency
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrSourceUnreachable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(c.Name(), resp.StatusCode); err != nil {
		return nil, err
	}

	var payload struct {
		Result             string             `json:"result"`
		ErrorType          string             `json:"error-type"`
		Rates              map[string]float64 `json:"rates"`
		TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceMalformed, err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return nil, c.classifyErrorType(payload.ErrorType)
	}

	observedAt := time.Now().UTC()
	if payload.TimeLastUpdateUnix > 0 {
		observedAt = time.Unix(payload.TimeLastUpdateUnix, 0).UTC()
	}

	rates := make([]domain.ExchangeRate, 0, len(c.fiatCurrencies))
	for currency, rate := range payload.Rates {
		code := strings.ToUpper(currency)
		if _, ok := c.fiatCurrencies[code]; !ok {
			continue
		}
		rates = append(rates, domain.ExchangeRate{
			FromCurrency: code,
			ToCurrency:   c.baseCurrency,
			Rate:         rate,
			UpdatedAt:    observedAt,
		})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].PairKey() < rates[j].PairKey() })
	return rates, nil
}

// classifyErrorType maps the provider's error envelope onto the classified
// source errors.
func (c *ExchangeRateAPI) classifyErrorType(errorType string) error {
	switch errorType {
	case "unsupported-code", "malformed-request":
		return fmt.Errorf("%w: %s rejected the request as %s", apperrors.ErrSourceMalformed, c.Name(), errorType)
	case "invalid-key", "inactive-account":
		return fmt.Errorf("%w: %s reported %s", apperrors.ErrSourceForbidden, c.Name(), errorType)
	case "quota-reached":
		return fmt.Errorf("%w: %s", apperrors.ErrSourceRateLimited, c.Name())
	}
	return fmt.Errorf("%w: %s reported %q", apperrors.ErrSourceUnreachable, c.Name(), errorType)
}
