package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*DefaultPriceRecordRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewDefaultPriceRecordRepository(db), mock
}

func TestAppendInsertsRecord(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "price_records"`)).
		WithArgs(50000.0, 275000.0, ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := repo.Append(context.Background(), &domain.PriceRecord{PriceUSD: 50000, PriceReal: 275000, Timestamp: ts})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendReportsFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "price_records"`)).
		WillReturnError(errors.New("disk full"))

	err := repo.Append(context.Background(), &domain.PriceRecord{PriceUSD: 1, Timestamp: time.Now()})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanAllReturnsRowsInIDOrder(t *testing.T) {
	repo, mock := newMockRepository(t)
	first := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	second := first.Add(5 * time.Minute)

	rows := sqlmock.NewRows([]string{"id", "price_usd", "price_real", "timestamp"}).
		AddRow(1, 50000.0, 275000.0, first).
		AddRow(2, 51000.0, 280500.0, second)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "price_records" ORDER BY id ASC`)).WillReturnRows(rows)

	records, err := repo.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 50000.0, records[0].PriceUSD)
	assert.Equal(t, 280500.0, records[1].PriceReal)
	assert.True(t, records[1].Timestamp.Equal(second))
	assert.Equal(t, time.Local, records[0].Timestamp.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}
