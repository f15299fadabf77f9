package usecase

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// KPICalculator turns a raw spot price response and a rate into a PriceRecord.
// It performs no I/O; the clock is its only external input.
type KPICalculator struct {
	now func() time.Time
}

func NewKPICalculator(now func() time.Time) *KPICalculator {
	if now == nil {
		now = time.Now
	}
	return &KPICalculator{now: now}
}

func (c *KPICalculator) ComputeRecord(raw domain.RawPrice, rate float64) (*domain.PriceRecord, error) {
	body := bytes.TrimSpace(raw.Body)
	if len(body) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", domain.ErrMalformedInput)
	}

	root := gjson.ParseBytes(body)
	if isEmptyDocument(root) {
		return nil, domain.ErrEmptyInput
	}

	amountField := root.Get("data.amount")
	if !amountField.Exists() {
		return nil, fmt.Errorf("%w: data.amount missing", domain.ErrMalformedInput)
	}

	priceUSD, err := parseAmount(amountField)
	if err != nil {
		return nil, err
	}

	priceReal := priceUSD * rate
	if !isFinite(priceReal) {
		return nil, fmt.Errorf("%w: converted price %v is not finite", domain.ErrInvalidAmount, priceReal)
	}
	return &domain.PriceRecord{
		PriceUSD:  priceUSD,
		PriceReal: priceReal,
		Timestamp: c.now(),
	}, nil
}

func isEmptyDocument(root gjson.Result) bool {
	switch {
	case root.Type == gjson.Null:
		return true
	case root.IsObject(), root.IsArray():
		empty := true
		root.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	}
	return false
}

// parseAmount accepts a JSON string or number holding a finite,
// non-negative decimal.
func parseAmount(field gjson.Result) (float64, error) {
	var text string
	switch field.Type {
	case gjson.String:
		text = field.Str
	case gjson.Number:
		text = field.Raw
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, field.Raw)
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, text)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", domain.ErrInvalidAmount, text)
	}
	f := amount.InexactFloat64()
	if !isFinite(f) {
		return 0, fmt.Errorf("%w: amount %s out of range", domain.ErrInvalidAmount, text)
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
