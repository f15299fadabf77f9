// internal/infrastructure/exchange_providers/spot_price_provider.go
package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/tidwall/gjson"
)

// SpotPriceProvider reads the spot price from a Coinbase-style endpoint
// answering {"data": {"amount": "..."}}.
type SpotPriceProvider struct {
	client   *http.Client
	endpoint string
	currency string
}

func NewSpotPriceProvider(endpoint, currency string, timeout time.Duration) *SpotPriceProvider {
	return &SpotPriceProvider{
		client:   newHTTPClient(timeout),
		endpoint: endpoint,
		currency: currency,
	}
}

func (p *SpotPriceProvider) GetName() string {
	return "coinbase"
}

func (p *SpotPriceProvider) FetchSpotPrice(ctx context.Context) (domain.RawPrice, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return domain.RawPrice{}, fmt.Errorf("invalid price endpoint: %w", err)
	}
	query := u.Query()
	query.Set("currency", p.currency)
	u.RawQuery = query.Encode()

	body, err := getJSON(ctx, p.client, u.String())
	if err != nil {
		return domain.RawPrice{}, err
	}
	if !gjson.ValidBytes(body) {
		return domain.RawPrice{}, fmt.Errorf("%w: price body is not JSON", domain.ErrMalformedResponse)
	}

	return domain.RawPrice{Body: body, Currency: p.currency}, nil
}
