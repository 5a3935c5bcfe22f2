package notifier

import (
	"context"
	"log"

	"agrofeira/internal/domain/model"
)

// LogNotifier はメール基盤が未設定のときのフォールバック。送る代わりにログへ出す。
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) PaymentConfirmed(ctx context.Context, order model.Order, customer model.Customer) error {
	log.Printf("[notify] payment confirmed: order=%d customer=%d", order.ID, customer.ID)
	return nil
}

func (n *LogNotifier) OrderExpired(ctx context.Context, order model.Order, customer model.Customer) error {
	log.Printf("[notify] order expired: order=%d customer=%d", order.ID, customer.ID)
	return nil
}

func (n *LogNotifier) OrderStatusChanged(ctx context.Context, order model.Order, customer model.Customer, newStatus model.OrderStatus) error {
	log.Printf("[notify] status changed: order=%d customer=%d status=%s", order.ID, customer.ID, newStatus)
	return nil
}
