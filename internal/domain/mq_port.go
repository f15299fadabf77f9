package domain

import "context"

// PriceEventPublisher announces stored records to downstream consumers.
type PriceEventPublisher interface {
	PublishPriceRecorded(ctx context.Context, record *PriceRecord, rate ExchangeRate) error
	Close() error
}
