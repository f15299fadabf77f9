// Package badger stores price records in an embedded BadgerDB keyspace.
// Values are BSON documents keyed by a monotonically increasing sequence,
// so key order is insertion order.
package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const (
	recordPrefix     = "price_record:"
	sequenceKey      = "seq:price_record"
	sequenceLeaseLen = 100
)

type priceRecordItem struct {
	PriceUSD    float64 `bson:"price_usd"`
	PriceReal   float64 `bson:"price_real"`
	TimestampNs int64   `bson:"timestamp_ns"`
}

type PriceStore struct {
	db  *badgerdb.DB
	seq *badgerdb.Sequence
}

// Open opens an on-disk store at dir.
func Open(dir string, log *slog.Logger) (*PriceStore, error) {
	return open(badgerdb.DefaultOptions(dir), log)
}

// OpenInMemory opens a store that lives only for the life of the process.
func OpenInMemory(log *slog.Logger) (*PriceStore, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badgerdb.Options, log *slog.Logger) (*PriceStore, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := badgerdb.Open(opts.WithLogger(newSlogAdapter(log)))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceLeaseLen)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to lease record sequence: %w", err)
	}
	return &PriceStore{db: db, seq: seq}, nil
}

func (s *PriceStore) Append(ctx context.Context, record *domain.PriceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return fmt.Errorf("price store closed")
	}

	value, err := bson.Marshal(priceRecordItem{
		PriceUSD:    record.PriceUSD,
		PriceReal:   record.PriceReal,
		TimestampNs: record.Timestamp.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode price record: %w", err)
	}

	id, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate record id: %w", err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(recordKey(id), value)
	})
}

func (s *PriceStore) ScanAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	if s.db.IsClosed() {
		return nil, fmt.Errorf("price store closed")
	}

	var records []*domain.PriceRecord
	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var item priceRecordItem
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &item)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, &domain.PriceRecord{
				PriceUSD:  item.PriceUSD,
				PriceReal: item.PriceReal,
				Timestamp: time.Unix(0, item.TimestampNs).In(time.Local),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close returns unused sequence ids and closes the database.
func (s *PriceStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return fmt.Errorf("failed to release record sequence: %w", err)
	}
	return s.db.Close()
}

func recordKey(id uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], id)
	return key
}
