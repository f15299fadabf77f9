package domain

import "context"

// PriceRecordRepository is an append-only table of price observations.
// ScanAll returns rows in storage order.
type PriceRecordRepository interface {
	Append(ctx context.Context, record *PriceRecord) error
	ScanAll(ctx context.Context) ([]*PriceRecord, error)
	Close() error
}
