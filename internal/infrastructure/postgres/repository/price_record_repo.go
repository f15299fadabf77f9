package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPriceRecordRepository struct {
	DB *gorm.DB
}

func NewDefaultPriceRecordRepository(db *gorm.DB) *DefaultPriceRecordRepository {
	return &DefaultPriceRecordRepository{
		DB: db,
	}
}

func (r *DefaultPriceRecordRepository) Append(ctx context.Context, record *domain.PriceRecord) error {
	model := mappers.ToGORMPriceRecord(record)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert price record: %w", err)
	}
	return nil
}

func (r *DefaultPriceRecordRepository) ScanAll(ctx context.Context) ([]*domain.PriceRecord, error) {
	var recordModels []*models.PriceRecordModel
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&recordModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load price records: %w", err)
	}

	records := make([]*domain.PriceRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = mappers.ToDomainPriceRecord(model)
	}
	return records, nil
}

func (r *DefaultPriceRecordRepository) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
