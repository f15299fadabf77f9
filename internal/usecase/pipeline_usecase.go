package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const (
	StagePrice = "price"
	StageKPI   = "kpi"
	StageStore = "store"
	StageDone  = "done"
)

// CycleReport describes one fetch-transform-store run. Record is nil unless
// the record reached the store.
type CycleReport struct {
	Record *domain.PriceRecord
	Rate   domain.ExchangeRate
	Stage  string
	Err    error
}

func (r CycleReport) Succeeded() bool {
	return r.Record != nil && r.Err == nil
}

type PipelineUsecase interface {
	RunCycle(ctx context.Context) CycleReport
}

type DefaultPipelineUsecase struct {
	rates     ExchangeRateService
	prices    domain.SpotPriceProvider
	kpi       *KPICalculator
	repo      domain.PriceRecordRepository
	publisher domain.PriceEventPublisher
	recorder  PipelineRecorder
	log       *slog.Logger
}

func NewDefaultPipelineUsecase(
	rates ExchangeRateService,
	prices domain.SpotPriceProvider,
	kpi *KPICalculator,
	repo domain.PriceRecordRepository,
	publisher domain.PriceEventPublisher,
	recorder PipelineRecorder,
	log *slog.Logger,
) *DefaultPipelineUsecase {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &DefaultPipelineUsecase{
		rates:     rates,
		prices:    prices,
		kpi:       kpi,
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
	}
}

// RunCycle never returns an error or panics; failures end the cycle
// without a record and are logged.
func (uc *DefaultPipelineUsecase) RunCycle(ctx context.Context) (report CycleReport) {
	started := time.Now()
	uc.log.Info("price ETL cycle started")

	defer func() {
		if r := recover(); r != nil {
			report = CycleReport{Rate: report.Rate, Stage: report.Stage, Err: fmt.Errorf("cycle panicked: %v", r)}
			uc.log.Error("price ETL cycle panicked", "stage", report.Stage, "panic", r)
		}
		outcome := OutcomeSuccess
		if !report.Succeeded() {
			outcome = OutcomeFailed
		}
		uc.recorder.RecordCycle(outcome, report.Stage, time.Since(started).Seconds())
		uc.log.Info("price ETL cycle finished", "outcome", outcome, "stage", report.Stage)
	}()

	report.Rate = uc.rates.CurrentRate(ctx)

	report.Stage = StagePrice
	raw, err := uc.prices.FetchSpotPrice(ctx)
	if err != nil {
		uc.recorder.RecordFetchError(uc.prices.GetName(), domain.FailureKind(err))
		uc.log.Error("spot price fetch failed",
			"provider", uc.prices.GetName(),
			"kind", domain.FailureKind(err),
			"error", err)
		report.Err = err
		return report
	}
	uc.log.Debug("spot price fetched", "provider", uc.prices.GetName(), "body", string(raw.Body))

	report.Stage = StageKPI
	record, err := uc.kpi.ComputeRecord(raw, report.Rate.Value)
	if err != nil {
		uc.log.Error("KPI calculation failed", "kind", domain.FailureKind(err), "error", err)
		report.Err = err
		return report
	}
	uc.log.Info("price converted",
		"price_usd", record.PriceUSD,
		"price_real", record.PriceReal,
		"rate", report.Rate.Value,
		"rate_source", report.Rate.Source)

	report.Stage = StageStore
	if err := uc.repo.Append(ctx, record); err != nil {
		report.Err = fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
		uc.log.Error("failed to save record", "error", err)
		return report
	}
	uc.log.Info("record saved",
		"timestamp", record.FormattedTimestamp(),
		"price_usd", record.PriceUSD,
		"price_real", record.PriceReal)

	report.Stage = StageDone
	report.Record = record
	uc.recorder.RecordStored(record.PriceUSD, record.PriceReal, report.Rate.Value, float64(record.Timestamp.Unix()))

	if uc.publisher != nil {
		if err := uc.publisher.PublishPriceRecorded(ctx, record, report.Rate); err != nil {
			uc.log.Warn("failed to publish price event", "error", err)
		}
	}

	return report
}
