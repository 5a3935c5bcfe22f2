package repository

import (
	"context"

	"agrofeira/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 注文削除は明細を先に消す（参照順）
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
