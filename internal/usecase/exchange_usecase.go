// internal/usecase/exchange_usecase.go
package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const FallbackRateSource = "fallback"

type ExchangeRateService interface {
	CurrentRate(ctx context.Context) domain.ExchangeRate
}

type DefaultExchangeRateService struct {
	provider     domain.ExchangeRateProvider
	fallbackRate float64
	recorder     PipelineRecorder
	log          *slog.Logger
}

func NewDefaultExchangeRateService(
	provider domain.ExchangeRateProvider,
	fallbackRate float64,
	recorder PipelineRecorder,
	log *slog.Logger,
) *DefaultExchangeRateService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &DefaultExchangeRateService{
		provider:     provider,
		fallbackRate: fallbackRate,
		recorder:     recorder,
		log:          log,
	}
}

// CurrentRate never fails: a provider error is replaced by the configured
// fallback rate and reported as a warning.
func (s *DefaultExchangeRateService) CurrentRate(ctx context.Context) domain.ExchangeRate {
	currency := s.provider.TargetCurrency()

	rate, err := s.provider.GetRate(ctx)
	if err == nil {
		s.log.Info("exchange rate fetched",
			"provider", s.provider.GetName(),
			"currency", currency,
			"rate", rate)
		return domain.ExchangeRate{
			Value:    rate,
			Currency: currency,
			Source:   s.provider.GetName(),
		}
	}

	s.recorder.RecordFetchError(s.provider.GetName(), domain.FailureKind(err))
	s.recorder.RecordFallbackRate()
	s.log.Warn("using fallback exchange rate",
		"provider", s.provider.GetName(),
		"currency", currency,
		"fallback_rate", s.fallbackRate,
		"kind", domain.FailureKind(err),
		"error", err)

	return domain.ExchangeRate{
		Value:    s.fallbackRate,
		Currency: currency,
		Source:   FallbackRateSource,
		Fallback: true,
	}
}
