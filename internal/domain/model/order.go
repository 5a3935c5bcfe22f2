package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusAwaitingConfirmation OrderStatus = "AWAITING_CONFIRMATION"
	OrderStatusAwaitingPayment      OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaymentConfirmed     OrderStatus = "PAYMENT_CONFIRMED"
	OrderStatusPaymentRejected      OrderStatus = "PAYMENT_REJECTED"
	OrderStatusPreparing            OrderStatus = "PREPARING"
	OrderStatusOutForDelivery       OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered            OrderStatus = "DELIVERED"
	OrderStatusCancelled            OrderStatus = "CANCELLED"
	OrderStatusRefunded             OrderStatus = "REFUNDED"
)

// PaymentStatusは決済側のライフサイクル。Statusとは別軸。
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	// ゲートウェイではなく期限切れジョブが付ける終端状態
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodPix  PaymentMethod = "pix"
)

type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// キャンセル実行者
const (
	CancelledByCustomer = "customer"
	CancelledByAdmin    = "admin"
	CancelledBySystem   = "system"
)

type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64         `gorm:"not null;index" json:"customer_id"`
	Status        OrderStatus   `gorm:"type:varchar(30);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`

	DeliveryType   DeliveryType    `gorm:"type:varchar(10);not null" json:"delivery_type"`
	PickupPointID  *int64          `json:"pickup_point_id,omitempty"`
	DeliveryZoneID *int64          `json:"delivery_zone_id,omitempty"`
	DeliveryFee    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"delivery_fee"`

	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`

	// ゲートウェイ側の決済参照
	PaymentID        string     `gorm:"type:varchar(64);index" json:"-"`
	PaymentExpiresAt *time.Time `json:"payment_expires_at,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	RejectionReason  string     `gorm:"type:varchar(255)" json:"rejection_reason,omitempty"`

	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CancelledBy  string     `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`

	// カードはトークン化した断片のみ保持（PANは保存しない）
	CardLast4      string `gorm:"type:varchar(4)" json:"-"`
	CardBrand      string `gorm:"type:varchar(20)" json:"-"`
	CardHash       string `gorm:"type:varchar(64)" json:"-"`
	CardCiphertext string `gorm:"type:text" json:"-"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// HoldsStock はこの注文がまだ在庫を確保したままかどうか。
// 在庫を戻す遷移（キャンセル・期限切れ・返金）はここがtrueのときだけ許される。
func (o Order) HoldsStock() bool {
	switch o.Status {
	case OrderStatusCancelled, OrderStatusRefunded:
		return false
	}
	switch o.PaymentStatus {
	case PaymentStatusCancelled, PaymentStatusRefunded, PaymentStatusExpired:
		return false
	}
	return true
}
