// Package filestore keeps price records in a single JSON document that
// stays readable by the TinyDB library:
//
//	{"_default": {"1": {"price_usd": 1.0, "price_real": 5.5, "timestamp": "..."}}}
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const defaultTable = "_default"

type row struct {
	PriceUSD  float64 `json:"price_usd"`
	PriceReal float64 `json:"price_real"`
	Timestamp string  `json:"timestamp"`
}

type document map[string]map[string]json.RawMessage

type JSONStore struct {
	mu   sync.Mutex
	path string
}

// Open does not touch the file; it is created on the first Append.
func Open(path string) (*JSONStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) Append(ctx context.Context, record *domain.PriceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	table := doc[defaultTable]
	if table == nil {
		table = make(map[string]json.RawMessage)
		doc[defaultTable] = table
	}

	encoded, err := json.Marshal(row{
		PriceUSD:  record.PriceUSD,
		PriceReal: record.PriceReal,
		Timestamp: record.FormattedTimestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode price record: %w", err)
	}
	table[strconv.Itoa(nextID(table))] = encoded

	return s.save(doc)
}

func (s *JSONStore) ScanAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	table := doc[defaultTable]

	ids := make([]int, 0, len(table))
	for key := range table {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid document id %q in %s", key, s.path)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	records := make([]*domain.PriceRecord, 0, len(ids))
	for _, id := range ids {
		var r row
		if err := json.Unmarshal(table[strconv.Itoa(id)], &r); err != nil {
			return nil, fmt.Errorf("failed to decode document %d: %w", id, err)
		}
		ts, err := domain.ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("document %d has invalid timestamp %q: %w", id, r.Timestamp, err)
		}
		records = append(records, &domain.PriceRecord{
			PriceUSD:  r.PriceUSD,
			PriceReal: r.PriceReal,
			Timestamp: ts,
		})
	}
	return records, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return document{}, nil
	}

	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return doc, nil
}

// save replaces the file atomically so a crash never leaves a torn document.
func (s *JSONStore) save(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(s.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// fileMode keeps the permissions of an existing store file. New files get 0644.
func (s *JSONStore) fileMode() os.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func nextID(table map[string]json.RawMessage) int {
	last := 0
	for key := range table {
		if id, err := strconv.Atoi(key); err == nil && id > last {
			last = id
		}
	}
	return last + 1
}
