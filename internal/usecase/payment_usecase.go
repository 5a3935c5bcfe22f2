package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"agrofeira/internal/domain/model"
	"agrofeira/internal/metrics"
	"agrofeira/internal/notifier"
	"agrofeira/internal/payment"
	repo "agrofeira/internal/repository"
)

// PIXは発行から30分で失効する
const pixExpiry = 30 * time.Minute

type PaymentUsecase struct {
	tx              repo.TransactionManager
	orders          repo.OrderRepository
	customers       repo.CustomerRepository
	gateway         payment.Gateway
	verifier        *payment.Verifier
	notifier        notifier.Notifier
	metrics         *metrics.Metrics
	clock           Clock
	notificationURL string
}

func NewPaymentUsecase(tx repo.TransactionManager, orders repo.OrderRepository, customers repo.CustomerRepository, gw payment.Gateway, verifier *payment.Verifier, n notifier.Notifier, m *metrics.Metrics, clock Clock, notificationURL string) *PaymentUsecase {
	return &PaymentUsecase{
		tx:              tx,
		orders:          orders,
		customers:       customers,
		gateway:         gw,
		verifier:        verifier,
		notifier:        n,
		metrics:         m,
		clock:           clock,
		notificationURL: notificationURL,
	}
}

type PixIntentOutput struct {
	PaymentID    string     `json:"payment_id"`
	PixCode      string     `json:"pix_code"`
	QRCodeBase64 string     `json:"qr_code_base64"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Simulated    bool       `json:"simulated"`
}

// CreatePixIntent はPIXの支払いコードを発行して注文に紐付ける。
// ゲートウェイ未設定・通信不能のときはローカルのシミュレータで代替する。
func (u *PaymentUsecase) CreatePixIntent(ctx context.Context, customerID int64, orderID int64) (PixIntentOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return PixIntentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PixIntentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if customerID > 0 && o.CustomerID != customerID {
		return PixIntentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if o.PaymentMethod != model.PaymentMethodPix {
		return PixIntentOutput{}, NewHTTPError(http.StatusBadRequest, "order is not a pix order")
	}
	if o.PaymentStatus != model.PaymentStatusPending {
		return PixIntentOutput{}, NewHTTPError(http.StatusConflict, "payment already settled")
	}

	now := u.clock.Now()
	var out PixIntentOutput

	if u.gateway != nil && u.gateway.Configured() {
		cust, err := u.customers.FindByID(ctx, o.CustomerID)
		if err != nil {
			return PixIntentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		expires := now.Add(pixExpiry)
		p, err := u.gateway.CreatePixPayment(ctx, payment.PixRequest{
			Amount:            o.Total,
			Description:       fmt.Sprintf("Pedido #%d - AgroFeira", o.ID),
			PayerEmail:        cust.Email,
			PayerName:         cust.Name,
			ExternalReference: strconv.FormatInt(o.ID, 10),
			NotificationURL:   u.notificationURL,
			ExpiresAt:         expires,
			IdempotencyKey:    fmt.Sprintf("pedido-%d-%d", o.ID, now.Unix()),
		})
		if err != nil {
			// 本物が使えないならシミュレータに落とす
			log.Printf("payment: gateway pix for order %d: %v", o.ID, err)
		} else {
			out = PixIntentOutput{
				PaymentID:    p.ID,
				PixCode:      p.QRCode,
				QRCodeBase64: p.QRCodeBase64,
				ExpiresAt:    p.DateOfExpiration,
			}
			if out.ExpiresAt == nil {
				out.ExpiresAt = &expires
			}
		}
	}

	if out.PaymentID == "" {
		sim, err := payment.SimulatePix(o.ID, o.Total, now)
		if err != nil {
			return PixIntentOutput{}, NewHTTPError(http.StatusInternalServerError, "pix generation failed")
		}
		out = PixIntentOutput{
			PaymentID:    sim.PaymentID,
			PixCode:      sim.Code,
			QRCodeBase64: sim.QRCodeBase64,
			ExpiresAt:    &sim.ExpiresAt,
			Simulated:    true,
		}
		if u.metrics != nil {
			u.metrics.SimulatedPixCreated.Inc()
		}
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cur, err := r.Orders().FindByID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if cur.PaymentStatus != model.PaymentStatusPending {
			return NewHTTPError(http.StatusConflict, "payment already settled")
		}
		// 注文ステータスはここでは動かさない。
		// ゲートウェイがpendingを通知した時点でAWAITING_PAYMENTになる。
		cur.PaymentID = out.PaymentID
		cur.PaymentExpiresAt = out.ExpiresAt
		cur.UpdatedAt = u.clock.Now()
		if err := r.Orders().Update(ctx, cur); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return PixIntentOutput{}, err
	}
	return out, nil
}

type CardChargeInput struct {
	// フロントでゲートウェイが発行したカードトークン
	GatewayToken string `json:"gateway_token"`
	Installments int    `json:"installments"`
}

// CreateCardCharge はカード注文の決済を実行する。
// ゲートウェイ未設定なら即時承認のシミュレーションになる。
func (u *PaymentUsecase) CreateCardCharge(ctx context.Context, customerID int64, orderID int64, in CardChargeInput) (OrderOutput, error) {
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
	if o.PaymentMethod != model.PaymentMethodCard {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "order is not a card order")
	}
	if o.PaymentStatus != model.PaymentStatusPending {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, "payment already settled")
	}

	now := u.clock.Now()
	var p payment.Payment

	if u.gateway != nil && u.gateway.Configured() {
		if in.GatewayToken == "" {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "gateway_token required")
		}
		cust, err := u.customers.FindByID(ctx, o.CustomerID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		installments := in.Installments
		if installments <= 0 {
			installments = 1
		}
		p, err = u.gateway.CreateCardPayment(ctx, payment.CardRequest{
			Amount:            o.Total,
			Token:             in.GatewayToken,
			Description:       fmt.Sprintf("Pedido #%d - AgroFeira", o.ID),
			Installments:      installments,
			PayerEmail:        cust.Email,
			ExternalReference: strconv.FormatInt(o.ID, 10),
			NotificationURL:   u.notificationURL,
			IdempotencyKey:    fmt.Sprintf("pedido-%d-%d", o.ID, now.Unix()),
		})
		if err != nil {
			// 通信失敗は注文の状態を動かさない
			return OrderOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
		}
	} else {
		// シミュレーション承認
		p = payment.Payment{
			ID:     fmt.Sprintf("SIM-CARD-%d-%d", o.ID, now.Unix()),
			Status: payment.GatewayStatusApproved,
		}
	}

	var updated model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cur, err := r.Orders().FindByID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		changed, err := u.applyGatewayStatus(ctx, r, &cur, p, now)
		if err != nil {
			return err
		}
		if changed {
			if err := r.Orders().Update(ctx, cur); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		updated = cur
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.afterStatusApplied(ctx, updated, p.Status)
	return toOrderOutput(updated, nil), nil
}

// ゲートウェイからのWebhook本文
type webhookEvent struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Reconcile はWebhookの通知を検証して注文に反映する。
// 同じ通知が何度届いても結果は変わらない。
func (u *PaymentUsecase) Reconcile(ctx context.Context, body []byte, signature string) error {
	if err := u.verifier.Verify(body, signature); err != nil {
		return NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// 決済以外のイベントは受け取って捨てる
	if ev.Type != "payment" || ev.Data.ID.String() == "" {
		return nil
	}

	if u.gateway == nil || !u.gateway.Configured() {
		return NewHTTPError(http.StatusServiceUnavailable, "gateway not configured")
	}
	p, err := u.gateway.GetPayment(ctx, ev.Data.ID.String())
	if err != nil {
		return NewHTTPError(http.StatusBadGateway, "payment lookup failed")
	}

	o, err := u.findOrderForPayment(ctx, p)
	if err != nil {
		return err
	}

	now := u.clock.Now()
	var updated model.Order
	changed := false
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cur, err := r.Orders().FindByID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		changed, err = u.applyGatewayStatus(ctx, r, &cur, p, now)
		if err != nil {
			return err
		}
		if changed {
			if err := r.Orders().Update(ctx, cur); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		updated = cur
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		if u.metrics != nil {
			u.metrics.PaymentsReconciled.WithLabelValues(p.Status).Inc()
		}
		u.afterStatusApplied(ctx, updated, p.Status)
	}
	return nil
}

// external_referenceが注文ID。古い通知にはpayment_idしか無いことがある。
func (u *PaymentUsecase) findOrderForPayment(ctx context.Context, p payment.Payment) (model.Order, error) {
	if p.ExternalReference != "" {
		if orderID, err := strconv.ParseInt(p.ExternalReference, 10, 64); err == nil {
			o, err := u.orders.FindByID(ctx, orderID)
			if err == nil {
				return o, nil
			}
			if !errors.Is(err, repo.ErrNotFound) {
				return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}
	o, err := u.orders.FindByPaymentID(ctx, p.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found for payment")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return o, nil
}

// applyGatewayStatus はゲートウェイのステータスを注文へ冪等に反映する。
// 在庫戻しはまだ在庫を確保している注文に対してだけ行う。
func (u *PaymentUsecase) applyGatewayStatus(ctx context.Context, r repo.TxRepos, o *model.Order, p payment.Payment, now time.Time) (bool, error) {
	switch p.Status {
	case payment.GatewayStatusApproved:
		if o.PaymentStatus == model.PaymentStatusApproved {
			return false, nil
		}
		o.PaymentStatus = model.PaymentStatusApproved
		o.Status = model.OrderStatusPaymentConfirmed
		o.PaidAt = &now
		o.RejectionReason = ""

	case payment.GatewayStatusRejected:
		if o.PaymentStatus == model.PaymentStatusRejected {
			return false, nil
		}
		o.PaymentStatus = model.PaymentStatusRejected
		o.Status = model.OrderStatusPaymentRejected
		o.RejectionReason = p.StatusDetail

	case payment.GatewayStatusCancelled, payment.GatewayStatusRefunded:
		target := model.PaymentStatusCancelled
		status := model.OrderStatusCancelled
		if p.Status == payment.GatewayStatusRefunded {
			target = model.PaymentStatusRefunded
			status = model.OrderStatusRefunded
		}
		if o.PaymentStatus == target {
			return false, nil
		}
		if o.HoldsStock() {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return false, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return false, NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}
		o.PaymentStatus = target
		o.Status = status
		o.CancelledAt = &now
		o.CancelledBy = model.CancelledBySystem
		o.CancelReason = "payment " + p.Status

	case payment.GatewayStatusPending:
		// 支払い手続きが始まった確認待ち注文だけ支払い待ちへ進める
		if o.Status != model.OrderStatusAwaitingConfirmation {
			return false, nil
		}
		o.Status = model.OrderStatusAwaitingPayment

	default:
		return false, nil
	}

	if p.ID != "" {
		o.PaymentID = p.ID
	}
	o.UpdatedAt = now
	return true, nil
}

// コミット後の通知。失敗しても状態は巻き戻さない。
func (u *PaymentUsecase) afterStatusApplied(ctx context.Context, o model.Order, gatewayStatus string) {
	if gatewayStatus != payment.GatewayStatusApproved {
		return
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Notifications().Create(ctx, model.Notification{
			CustomerID: o.CustomerID,
			Message:    fmt.Sprintf("Pagamento do pedido #%d confirmado.", o.ID),
			CreatedAt:  u.clock.Now(),
		})
	})
	if err != nil {
		log.Printf("payment: notification for order %d: %v", o.ID, err)
	}

	if u.notifier == nil {
		return
	}
	cust, err := u.customers.FindByID(ctx, o.CustomerID)
	if err != nil {
		log.Printf("payment: load customer %d: %v", o.CustomerID, err)
		return
	}
	if err := u.notifier.PaymentConfirmed(ctx, o, cust); err != nil {
		log.Printf("payment: confirmation email for order %d: %v", o.ID, err)
	}
}

// PollPending はゲートウェイに問い合わせて支払い待ち注文を突き合わせる。
// Webhookを取り逃したときの保険で、ジョブから定期実行される。
func (u *PaymentUsecase) PollPending(ctx context.Context) (int, error) {
	if u.gateway == nil || !u.gateway.Configured() {
		return 0, errors.New("gateway not configured")
	}

	orders, err := u.orders.ListPendingWithPaymentID(ctx)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	now := u.clock.Now()
	for _, o := range orders {
		// シミュレータ発行のIDはゲートウェイに存在しない
		if payment.IsSimulatedPaymentID(o.PaymentID) {
			continue
		}
		p, err := u.gateway.GetPayment(ctx, o.PaymentID)
		if err != nil {
			log.Printf("payment: poll %s: %v", o.PaymentID, err)
			continue
		}

		orderID := o.ID
		var updated model.Order
		changed := false
		err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			cur, err := r.Orders().FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			changed, err = u.applyGatewayStatus(ctx, r, &cur, p, now)
			if err != nil {
				return err
			}
			if changed {
				if err := r.Orders().Update(ctx, cur); err != nil {
					return err
				}
			}
			updated = cur
			return nil
		})
		if err != nil {
			log.Printf("payment: reconcile order %d: %v", orderID, err)
			continue
		}
		if changed {
			reconciled++
			if u.metrics != nil {
				u.metrics.PaymentsReconciled.WithLabelValues(p.Status).Inc()
			}
			u.afterStatusApplied(ctx, updated, p.Status)
		}
	}
	return reconciled, nil
}

// ExpirePix は期限切れのPIX注文をキャンセルして在庫を戻す。
func (u *PaymentUsecase) ExpirePix(ctx context.Context) (int, error) {
	now := u.clock.Now()
	orders, err := u.orders.ListExpiredPix(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range orders {
		orderID := o.ID
		var cancelled model.Order
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			cur, err := r.Orders().FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			// スキャンと処理の間に支払われたものは触らない
			if cur.PaymentMethod != model.PaymentMethodPix || cur.PaymentStatus != model.PaymentStatusPending {
				return nil
			}
			if cur.PaymentExpiresAt == nil || cur.PaymentExpiresAt.After(now) {
				return nil
			}

			if cur.HoldsStock() {
				items, err := r.OrderItems().ListByOrderID(ctx, cur.ID)
				if err != nil {
					return err
				}
				for _, it := range items {
					if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
						return err
					}
				}
			}

			cur.Status = model.OrderStatusCancelled
			cur.PaymentStatus = model.PaymentStatusExpired
			cur.CancelledAt = &now
			cur.CancelledBy = model.CancelledBySystem
			cur.CancelReason = "pix payment expired"
			cur.UpdatedAt = now
			if err := r.Orders().Update(ctx, cur); err != nil {
				return err
			}

			if err := r.Notifications().Create(ctx, model.Notification{
				CustomerID: cur.CustomerID,
				Message:    fmt.Sprintf("Pedido #%d cancelado: pagamento PIX expirado.", cur.ID),
				CreatedAt:  now,
			}); err != nil {
				return err
			}

			cancelled = cur
			return nil
		})
		if err != nil {
			log.Printf("payment: expire order %d: %v", orderID, err)
			continue
		}
		if cancelled.ID == 0 {
			continue
		}

		expired++
		if u.metrics != nil {
			u.metrics.OrdersExpired.Inc()
		}
		if u.notifier != nil {
			cust, err := u.customers.FindByID(ctx, cancelled.CustomerID)
			if err != nil {
				log.Printf("payment: load customer %d: %v", cancelled.CustomerID, err)
				continue
			}
			if err := u.notifier.OrderExpired(ctx, cancelled, cust); err != nil {
				log.Printf("payment: expiry email for order %d: %v", cancelled.ID, err)
			}
		}
	}
	return expired, nil
}
