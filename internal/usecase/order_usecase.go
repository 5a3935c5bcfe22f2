package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"agrofeira/internal/domain/model"
	repo "agrofeira/internal/repository"

	"github.com/shopspring/decimal"
)

// 顧客キャンセルは確認待ちの注文に限り、確定から1時間以内。
const customerCancelWindow = time.Hour

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	clock  Clock
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, items repo.OrderItemRepository, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, items: items, clock: clock}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID               int64             `json:"id"`
	CustomerID       int64             `json:"customer_id"`
	Status           string            `json:"status"`
	PaymentStatus    string            `json:"payment_status"`
	PaymentMethod    string            `json:"payment_method"`
	DeliveryType     string            `json:"delivery_type"`
	PickupPointID    *int64            `json:"pickup_point_id,omitempty"`
	DeliveryZoneID   *int64            `json:"delivery_zone_id,omitempty"`
	DeliveryFee      decimal.Decimal   `json:"delivery_fee"`
	Total            decimal.Decimal   `json:"total"`
	ScheduledAt      *time.Time        `json:"scheduled_at,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	PaymentExpiresAt *time.Time        `json:"payment_expires_at,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	RejectionReason  string            `json:"rejection_reason,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason     string            `json:"cancel_reason,omitempty"`
	CardLast4        string            `json:"card_last4,omitempty"`
	CardBrand        string            `json:"card_brand,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OrderItemOutput `json:"items,omitempty"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentMethod:    string(o.PaymentMethod),
		DeliveryType:     string(o.DeliveryType),
		PickupPointID:    o.PickupPointID,
		DeliveryZoneID:   o.DeliveryZoneID,
		DeliveryFee:      o.DeliveryFee,
		Total:            o.Total,
		ScheduledAt:      o.ScheduledAt,
		Notes:            o.Notes,
		PaymentExpiresAt: o.PaymentExpiresAt,
		PaidAt:           o.PaidAt,
		RejectionReason:  o.RejectionReason,
		CancelledAt:      o.CancelledAt,
		CancelReason:     o.CancelReason,
		CardLast4:        o.CardLast4,
		CardBrand:        o.CardBrand,
		CreatedAt:        o.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}

type OrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64, page int, limit int) (OrderListOutput, error) {
	if customerID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orders.ListByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderListOutput{Orders: make([]OrderOutput, 0, len(orders)), Total: total, Page: page, Limit: limit}
	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOutput(o, nil))
	}
	return out, nil
}

// GetMyOrderDetail は所有者にだけ返す。他人の注文は存在ごと隠す（404）。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.CustomerID != customerID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o, items), nil
}

// Cancel は顧客自身によるキャンセル。
// 確認待ち以外、または1時間の猶予を過ぎた注文は409で区別して返す。
func (u *OrderUsecase) Cancel(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status != model.OrderStatusAwaitingConfirmation {
			return NewHTTPError(http.StatusConflict, "order can no longer be cancelled")
		}
		now := u.clock.Now()
		if now.Sub(o.CreatedAt) > customerCancelWindow {
			return NewHTTPError(http.StatusConflict, "cancellation window has closed")
		}

		if o.HoldsStock() {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		o.Status = model.OrderStatusCancelled
		o.PaymentStatus = model.PaymentStatusCancelled
		o.CancelledAt = &now
		o.CancelledBy = model.CancelledByCustomer
		o.CancelReason = "cancelled by customer"
		o.UpdatedAt = now
		if err := r.Orders().Update(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, nil)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Delete はキャンセル済みの注文だけ履歴から消せる。
func (u *OrderUsecase) Delete(ctx context.Context, customerID int64, orderID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if o.Status != model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "only cancelled orders can be deleted")
		}

		// 明細が先（参照順）
		if err := r.OrderItems().DeleteByOrderID(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
