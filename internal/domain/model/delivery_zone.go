package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 配達地域ごとの固定送料とリードタイム。
type DeliveryZone struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Region       string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"region"`
	Fee          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fee"`
	LeadTimeDays int             `gorm:"not null;default:1" json:"lead_time_days"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
