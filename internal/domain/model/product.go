package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	// 期間限定のプロモ価格（任意）
	PromoPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"promo_price,omitempty"`
	PromoStart *time.Time       `json:"promo_start,omitempty"`
	PromoEnd   *time.Time       `json:"promo_end,omitempty"`
	// 量り売りがあるため在庫は小数（kg単位など）
	Stock      decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"stock"`
	Unit       string          `gorm:"type:varchar(10);not null" json:"unit"`
	ProducerID int64           `gorm:"not null;index" json:"producer_id"`
	CategoryID int64           `gorm:"not null;index" json:"category_id"`
	IsActive   bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// CurrentPrice はその時点で請求すべき単価を返す。
// プロモ価格は期間内のときだけ有効。
func (p Product) CurrentPrice(now time.Time) decimal.Decimal {
	if p.PromoPrice == nil {
		return p.Price
	}
	if p.PromoStart != nil && now.Before(*p.PromoStart) {
		return p.Price
	}
	if p.PromoEnd != nil && now.After(*p.PromoEnd) {
		return p.Price
	}
	return *p.PromoPrice
}
