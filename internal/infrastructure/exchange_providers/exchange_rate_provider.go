// internal/infrastructure/exchange_providers/exchange_rate_provider.go
package infrastructure

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/tidwall/gjson"
)

// ExchangeRateAPIProvider reads one rate out of a {"rates": {"BRL": 5.1}} document.
type ExchangeRateAPIProvider struct {
	client         *http.Client
	endpoint       string
	targetCurrency string
}

func NewExchangeRateAPIProvider(endpoint, targetCurrency string, timeout time.Duration) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		client:         newHTTPClient(timeout),
		endpoint:       endpoint,
		targetCurrency: targetCurrency,
	}
}

func (p *ExchangeRateAPIProvider) GetName() string {
	return "exchangerate-api"
}

func (p *ExchangeRateAPIProvider) TargetCurrency() string {
	return p.targetCurrency
}

func (p *ExchangeRateAPIProvider) GetRate(ctx context.Context) (float64, error) {
	body, err := getJSON(ctx, p.client, p.endpoint)
	if err != nil {
		return 0, err
	}
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: rate body is not JSON", domain.ErrMalformedResponse)
	}

	rate := gjson.GetBytes(body, "rates."+p.targetCurrency)
	if !rate.Exists() {
		return 0, fmt.Errorf("%w: rates.%s missing", domain.ErrMalformedResponse, p.targetCurrency)
	}
	if rate.Type != gjson.Number {
		return 0, fmt.Errorf("%w: rates.%s is not a number: %s", domain.ErrMalformedResponse, p.targetCurrency, rate.Raw)
	}
	value := rate.Float()
	if value <= 0 || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: rates.%s must be a positive finite number, got %s", domain.ErrMalformedResponse, p.targetCurrency, rate.Raw)
	}

	return value, nil
}
