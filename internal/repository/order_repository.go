package repository

import (
	"context"
	"time"

	"agrofeira/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// 決済・キャンセル関連のフィールドをまとめて保存
	Update(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error)

	//期限切れPIX注文のスキャン（pix・支払いPENDING・期限を過ぎたもの）
	ListExpiredPix(ctx context.Context, now time.Time) ([]model.Order, error)
	//ゲートウェイに照会すべき支払い待ち注文
	ListPendingWithPaymentID(ctx context.Context) ([]model.Order, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
