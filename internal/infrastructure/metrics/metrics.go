package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics содержит метрики ETL цикла
type PipelineMetrics struct {
	// Циклы по результату (success/failed) и этапу, на котором цикл прервался
	CyclesTotal *prometheus.CounterVec
	// Ошибки источников по типу (connection/timeout/http/...)
	FetchErrorsTotal *prometheus.CounterVec
	// Использование резервного курса
	FallbackRateTotal prometheus.Counter
	// Время выполнения цикла
	CycleDuration prometheus.Histogram

	// Последние сохраненные значения
	LastPriceUSD      prometheus.Gauge
	LastPriceReal     prometheus.Gauge
	LastExchangeRate  prometheus.Gauge
	LastSuccessUnixTs prometheus.Gauge
}

// NewPipelineMetrics регистрирует метрики в переданном registerer
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		CyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_etl_cycles_total",
				Help: "Number of ETL cycles by outcome and the stage that ended them",
			},
			[]string{"outcome", "stage"},
		),

		FetchErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_etl_fetch_errors_total",
				Help: "Failed upstream fetches by source and failure kind",
			},
			[]string{"source", "kind"},
		),

		FallbackRateTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "price_etl_fallback_rate_total",
				Help: "Cycles that used the configured fallback exchange rate",
			},
		),

		CycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "price_etl_cycle_duration_seconds",
				Help:    "Duration of one fetch-transform-store cycle",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms, 100ms, 200ms...
			},
		),

		LastPriceUSD: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "price_etl_last_price_usd",
				Help: "Spot price of the last stored record",
			},
		),

		LastPriceReal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "price_etl_last_price_converted",
				Help: "Converted price of the last stored record",
			},
		),

		LastExchangeRate: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "price_etl_last_exchange_rate",
				Help: "Exchange rate used by the last cycle",
			},
		),

		LastSuccessUnixTs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "price_etl_last_success_timestamp_seconds",
				Help: "Unix time of the last stored record",
			},
		),
	}
}

// RecordCycle записывает результат цикла
func (m *PipelineMetrics) RecordCycle(outcome, stage string, durationSeconds float64) {
	m.CyclesTotal.WithLabelValues(outcome, stage).Inc()
	m.CycleDuration.Observe(durationSeconds)
}

// RecordFetchError записывает ошибку источника
func (m *PipelineMetrics) RecordFetchError(source, kind string) {
	m.FetchErrorsTotal.WithLabelValues(source, kind).Inc()
}

// RecordFallbackRate записывает использование резервного курса
func (m *PipelineMetrics) RecordFallbackRate() {
	m.FallbackRateTotal.Inc()
}

// RecordStored обновляет значения последней сохраненной записи
func (m *PipelineMetrics) RecordStored(priceUSD, priceReal, rate float64, unixSeconds float64) {
	m.LastPriceUSD.Set(priceUSD)
	m.LastPriceReal.Set(priceReal)
	m.LastExchangeRate.Set(rate)
	m.LastSuccessUnixTs.Set(unixSeconds)
}
