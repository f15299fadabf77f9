// internal/domain/exchange_provider.go
package domain

import "context"

type SpotPriceProvider interface {
	FetchSpotPrice(ctx context.Context) (RawPrice, error)
	GetName() string
}

type ExchangeRateProvider interface {
	GetRate(ctx context.Context) (float64, error)
	GetName() string
	TargetCurrency() string
}
