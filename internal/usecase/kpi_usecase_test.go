package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func TestComputeRecordSuccess(t *testing.T) {
	calc := NewKPICalculator(fixedClock)

	record, err := calc.ComputeRecord(domain.RawPrice{Body: []byte(`{"data":{"amount":"50000.00"}}`)}, 5.5)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, record.PriceUSD)
	assert.Equal(t, 275000.0, record.PriceReal)
	assert.Equal(t, fixedNow, record.Timestamp)
}

func TestComputeRecordAmountForms(t *testing.T) {
	tests := []struct {
		name string
		body string
		rate float64
		usd  float64
	}{
		{"numeric amount", `{"data":{"amount":61234.5}}`, 2, 61234.5},
		{"zero amount", `{"data":{"amount":"0"}}`, 5.5, 0},
		{"exponent", `{"data":{"amount":"1e3"}}`, 1.5, 1000},
		{"extra fields", `{"data":{"base":"BTC","currency":"USD","amount":"42.10"}}`, 5.15, 42.10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewKPICalculator(fixedClock).ComputeRecord(domain.RawPrice{Body: []byte(tt.body)}, tt.rate)
			require.NoError(t, err)
			assert.InDelta(t, tt.usd, record.PriceUSD, 1e-9)
			assert.InDelta(t, tt.usd*tt.rate, record.PriceReal, 1e-6)
			assert.False(t, record.Timestamp.IsZero())
		})
	}
}

func TestComputeRecordPriceRealProperty(t *testing.T) {
	calc := NewKPICalculator(fixedClock)
	amounts := []string{"0", "0.01", "1", "19999.99", "50000.00", "123456.789"}
	rates := []float64{0, 0.5, 1, 5.5, 83.25}

	for _, a := range amounts {
		for _, rate := range rates {
			record, err := calc.ComputeRecord(domain.RawPrice{Body: []byte(`{"data":{"amount":"` + a + `"}}`)}, rate)
			require.NoError(t, err)
			assert.InDelta(t, record.PriceUSD*rate, record.PriceReal, 1e-9)
			assert.GreaterOrEqual(t, record.PriceReal, 0.0)
		}
	}
}

func TestComputeRecordFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		wantErr error
	}{
		{"nil body", nil, domain.ErrEmptyInput},
		{"blank body", []byte("  \n"), domain.ErrEmptyInput},
		{"json null", []byte("null"), domain.ErrEmptyInput},
		{"empty object", []byte("{}"), domain.ErrEmptyInput},
		{"not json", []byte("amount=5"), domain.ErrMalformedInput},
		{"missing data key", []byte(`{"amount":"50000.00"}`), domain.ErrMalformedInput},
		{"missing amount key", []byte(`{"data":{"price":"50000.00"}}`), domain.ErrMalformedInput},
		{"data not object", []byte(`{"data":"50000.00"}`), domain.ErrMalformedInput},
		{"non numeric amount", []byte(`{"data":{"amount":"invalid-price"}}`), domain.ErrInvalidAmount},
		{"negative amount", []byte(`{"data":{"amount":"-1.00"}}`), domain.ErrInvalidAmount},
		{"nan amount", []byte(`{"data":{"amount":"NaN"}}`), domain.ErrInvalidAmount},
		{"overflowing string amount", []byte(`{"data":{"amount":"1e400"}}`), domain.ErrInvalidAmount},
		{"overflowing numeric amount", []byte(`{"data":{"amount":1e400}}`), domain.ErrInvalidAmount},
		{"boolean amount", []byte(`{"data":{"amount":true}}`), domain.ErrInvalidAmount},
		{"null amount", []byte(`{"data":{"amount":null}}`), domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewKPICalculator(fixedClock).ComputeRecord(domain.RawPrice{Body: tt.body}, 5.5)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, record)
		})
	}
}

func TestComputeRecordRejectsNonFiniteRate(t *testing.T) {
	calc := NewKPICalculator(fixedClock)
	body := domain.RawPrice{Body: []byte(`{"data":{"amount":"50000.00"}}`)}

	for _, rate := range []float64{math.NaN(), math.Inf(1)} {
		record, err := calc.ComputeRecord(body, rate)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Nil(t, record)
	}

	record, err := calc.ComputeRecord(domain.RawPrice{Body: []byte(`{"data":{"amount":"1e300"}}`)}, 1e10)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Nil(t, record)
}
