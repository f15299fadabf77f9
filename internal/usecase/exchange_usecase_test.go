package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCurrentRateFromProvider(t *testing.T) {
	provider := &fakeRateProvider{rate: 5.12}
	recorder := newFakeRecorder()
	log, buf := bufferLogger()

	rate := NewDefaultExchangeRateService(provider, 5.5, recorder, log).CurrentRate(context.Background())

	assert.Equal(t, 5.12, rate.Value)
	assert.Equal(t, "BRL", rate.Currency)
	assert.Equal(t, "fake-rates", rate.Source)
	assert.False(t, rate.Fallback)
	assert.Zero(t, recorder.fallbacks)
	assert.NotContains(t, buf.String(), "level=WARN")
}

func TestCurrentRateFallsBack(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"connection", fmt.Errorf("%w: dial tcp", domain.ErrConnectionFailure), "connection"},
		{"timeout", fmt.Errorf("%w: deadline", domain.ErrTimeoutFailure), "timeout"},
		{"http status", fmt.Errorf("%w: status 503", domain.ErrHTTPFailure), "http"},
		{"bad body", fmt.Errorf("%w: rate missing", domain.ErrMalformedResponse), "malformed_response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeRateProvider{err: tt.err}
			recorder := newFakeRecorder()
			log, buf := bufferLogger()

			rate := NewDefaultExchangeRateService(provider, 5.5, recorder, log).CurrentRate(context.Background())

			assert.Equal(t, 5.5, rate.Value)
			assert.Equal(t, FallbackRateSource, rate.Source)
			assert.True(t, rate.Fallback)
			assert.Equal(t, 1, recorder.fallbacks)
			assert.Equal(t, 1, recorder.fetchErrors["fake-rates/"+tt.kind])
			assert.Contains(t, buf.String(), "level=WARN")
			assert.Contains(t, buf.String(), "using fallback exchange rate")
		})
	}
}

func TestCurrentRateNilCollaborators(t *testing.T) {
	svc := NewDefaultExchangeRateService(&fakeRateProvider{err: errBoom}, 4.2, nil, nil)

	rate := svc.CurrentRate(context.Background())
	assert.Equal(t, 4.2, rate.Value)
	assert.True(t, rate.Fallback)
}
