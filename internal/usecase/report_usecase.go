package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const (
	DefaultHistoryLimit = 10
	statsTrailingWindow = 24 * time.Hour
)

type ReportUsecase interface {
	History(ctx context.Context, limit int) ([]*domain.PriceRecord, error)
	Stats(ctx context.Context, window domain.StatsWindow) (*domain.PriceStats, error)
	ExportRecords(ctx context.Context) ([]*domain.PriceRecord, error)
}

type DefaultReportUsecase struct {
	repo domain.PriceRecordRepository
	now  func() time.Time
}

func NewDefaultReportUsecase(repo domain.PriceRecordRepository, now func() time.Time) *DefaultReportUsecase {
	if now == nil {
		now = time.Now
	}
	return &DefaultReportUsecase{
		repo: repo,
		now:  now,
	}
}

// History returns the limit most recent records, newest first.
func (uc *DefaultReportUsecase) History(ctx context.Context, limit int) ([]*domain.PriceRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("history limit must be positive, got %d", limit)
	}
	records, err := uc.sortedRecords(ctx)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.PriceRecord, 0, min(limit, len(records)))
	for i := len(records) - 1; i >= 0 && len(history) < limit; i-- {
		history = append(history, records[i])
	}
	return history, nil
}

// Stats aggregates price_usd over the window. Both windows use the same
// rule: at least two records, first and last taken chronologically.
func (uc *DefaultReportUsecase) Stats(ctx context.Context, window domain.StatsWindow) (*domain.PriceStats, error) {
	records, err := uc.sortedRecords(ctx)
	if err != nil {
		return nil, err
	}

	switch window {
	case domain.StatsWindowAllTime:
	case domain.StatsWindowLast24Hours:
		records = since(records, uc.now().Add(-statsTrailingWindow))
	default:
		return nil, domain.ErrUnknownStatsWindow
	}

	if len(records) < 2 {
		return nil, domain.ErrStatsUnavailable
	}

	first, last := records[0], records[len(records)-1]
	stats := &domain.PriceStats{
		Window: window,
		Count:  len(records),
		Min:    first.PriceUSD,
		Max:    first.PriceUSD,
		First:  first.PriceUSD,
		Last:   last.PriceUSD,
		From:   first.Timestamp,
		To:     last.Timestamp,
	}

	var sum float64
	for _, r := range records {
		sum += r.PriceUSD
		stats.Min = min(stats.Min, r.PriceUSD)
		stats.Max = max(stats.Max, r.PriceUSD)
	}
	stats.Mean = sum / float64(len(records))

	if first.PriceUSD != 0 {
		stats.VariationPct = (last.PriceUSD - first.PriceUSD) / first.PriceUSD * 100
	}
	return stats, nil
}

// ExportRecords returns every record, oldest first.
func (uc *DefaultReportUsecase) ExportRecords(ctx context.Context) ([]*domain.PriceRecord, error) {
	return uc.sortedRecords(ctx)
}

func (uc *DefaultReportUsecase) sortedRecords(ctx context.Context) ([]*domain.PriceRecord, error) {
	records, err := uc.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	sorted := make([]*domain.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted, nil
}

func since(sorted []*domain.PriceRecord, cutoff time.Time) []*domain.PriceRecord {
	idx := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Timestamp.Before(cutoff)
	})
	return sorted[idx:]
}
