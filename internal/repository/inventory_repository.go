package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（条件付きUPDATEで直列化する）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty decimal.Decimal) (bool, error)

	// 在庫戻し（キャンセル・期限切れ・返金）
	IncreaseStock(ctx context.Context, productID int64, qty decimal.Decimal) error
}
