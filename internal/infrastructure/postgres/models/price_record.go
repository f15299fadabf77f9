package models

import "time"

type PriceRecordModel struct {
	ID        uint      `gorm:"primaryKey"`
	PriceUSD  float64   `gorm:"column:price_usd;not null"`
	PriceReal float64   `gorm:"column:price_real;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
}

func (PriceRecordModel) TableName() string {
	return "price_records"
}
