package notifier

import (
	"context"

	"agrofeira/internal/domain/model"
)

// Notifier は顧客へのメール通知。
// 送信失敗が注文・在庫のコミットを妨げてはいけない（呼び出し側でログして続行）。
type Notifier interface {
	PaymentConfirmed(ctx context.Context, order model.Order, customer model.Customer) error
	OrderExpired(ctx context.Context, order model.Order, customer model.Customer) error
	OrderStatusChanged(ctx context.Context, order model.Order, customer model.Customer, newStatus model.OrderStatus) error
}
