package model

import "time"

// 受取拠点。無効化された拠点はIDで参照されてもチェックアウトで拒否する。
type PickupPoint struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name"`
	Address     string    `gorm:"type:varchar(255);not null" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	PostalCode  string    `gorm:"type:varchar(9)" json:"postal_code"`
	OpeningDays string    `gorm:"type:varchar(100)" json:"opening_days"`
	OpensAt     string    `gorm:"type:varchar(5)" json:"opens_at"`
	ClosesAt    string    `gorm:"type:varchar(5)" json:"closes_at"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
