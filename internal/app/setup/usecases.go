package setup

import (
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-price-etl/internal/usecase"
)

type UseCases struct {
	ExchangeRateService usecase.ExchangeRateService
	PipelineUsecase     usecase.PipelineUsecase
	ReportUsecase       usecase.ReportUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config
	timeout := cfg.HTTPClient.Timeout()

	rateProvider := infrastructure.NewExchangeRateAPIProvider(cfg.RateAPI.URL, cfg.RateAPI.TargetCurrency, timeout)
	spotProvider := infrastructure.NewSpotPriceProvider(cfg.PriceAPI.URL, cfg.PriceAPI.Currency, timeout)

	exchangeRateService := usecase.NewDefaultExchangeRateService(
		rateProvider,
		cfg.RateAPI.FallbackRate,
		deps.Metrics,
		deps.Logger,
	)

	pipelineUsecase := usecase.NewDefaultPipelineUsecase(
		exchangeRateService,
		spotProvider,
		usecase.NewKPICalculator(time.Now),
		deps.Store,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
	)

	return &UseCases{
		ExchangeRateService: exchangeRateService,
		PipelineUsecase:     pipelineUsecase,
		ReportUsecase:       usecase.NewDefaultReportUsecase(deps.Store, time.Now),
	}
}
