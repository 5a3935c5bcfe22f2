package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categoryは最低注文ルールを持つ。
// どちらもNULLなら制約なし。チェックアウト時にカート全体へ適用される。
type Category struct {
	ID               int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description      string           `gorm:"type:varchar(255)" json:"description"`
	MinOrderValue    *decimal.Decimal `gorm:"type:numeric(12,2)" json:"min_order_value,omitempty"`
	MinOrderQuantity *decimal.Decimal `gorm:"type:numeric(12,3)" json:"min_order_quantity,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
