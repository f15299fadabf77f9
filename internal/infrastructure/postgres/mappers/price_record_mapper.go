package mappers

import (
	"time"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/LavaJover/shvark-price-etl/internal/infrastructure/postgres/models"
)

func ToGORMPriceRecord(record *domain.PriceRecord) *models.PriceRecordModel {
	return &models.PriceRecordModel{
		PriceUSD:  record.PriceUSD,
		PriceReal: record.PriceReal,
		Timestamp: record.Timestamp,
	}
}

func ToDomainPriceRecord(model *models.PriceRecordModel) *domain.PriceRecord {
	return &domain.PriceRecord{
		PriceUSD:  model.PriceUSD,
		PriceReal: model.PriceReal,
		Timestamp: model.Timestamp.In(time.Local),
	}
}
