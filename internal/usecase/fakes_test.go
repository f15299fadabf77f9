package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

type fakeRateProvider struct {
	rate  float64
	err   error
	calls int
}

func (p *fakeRateProvider) GetRate(context.Context) (float64, error) {
	p.calls++
	return p.rate, p.err
}

func (p *fakeRateProvider) GetName() string        { return "fake-rates" }
func (p *fakeRateProvider) TargetCurrency() string { return "BRL" }

type fakeSpotProvider struct {
	body  string
	err   error
	panic bool
}

func (p *fakeSpotProvider) FetchSpotPrice(context.Context) (domain.RawPrice, error) {
	if p.panic {
		panic("spot provider exploded")
	}
	if p.err != nil {
		return domain.RawPrice{}, p.err
	}
	return domain.RawPrice{Body: []byte(p.body), Currency: "USD"}, nil
}

func (p *fakeSpotProvider) GetName() string { return "fake-spot" }

type memoryRepo struct {
	mu        sync.Mutex
	records   []*domain.PriceRecord
	appendErr error
	scanErr   error
}

func (r *memoryRepo) Append(_ context.Context, record *domain.PriceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepo) ScanAll(context.Context) ([]*domain.PriceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	out := make([]*domain.PriceRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *memoryRepo) Close() error { return nil }

type fakePublisher struct {
	published []*domain.PriceRecord
	rates     []domain.ExchangeRate
	err       error
}

func (p *fakePublisher) PublishPriceRecorded(_ context.Context, record *domain.PriceRecord, rate domain.ExchangeRate) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, record)
	p.rates = append(p.rates, rate)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type cycleCall struct {
	outcome string
	stage   string
}

type fakeRecorder struct {
	cycles      []cycleCall
	fetchErrors map[string]int
	fallbacks   int
	stored      int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{fetchErrors: map[string]int{}}
}

func (r *fakeRecorder) RecordCycle(outcome, stage string, _ float64) {
	r.cycles = append(r.cycles, cycleCall{outcome, stage})
}

func (r *fakeRecorder) RecordFetchError(source, kind string) {
	r.fetchErrors[source+"/"+kind]++
}

func (r *fakeRecorder) RecordFallbackRate() { r.fallbacks++ }

func (r *fakeRecorder) RecordStored(float64, float64, float64, float64) { r.stored++ }

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

var errBoom = errors.New("boom")
