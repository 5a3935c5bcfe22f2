package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"agrofeira/internal/cart"
	"agrofeira/internal/domain/model"
	"agrofeira/internal/metrics"
	"agrofeira/internal/payment"
	repo "agrofeira/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// CEPはNNNNN-NNN（ハイフンは省略可、保存時に付け直す）
var cepPattern = regexp.MustCompile(`^(\d{5})-?(\d{3})$`)

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	carts     cart.Store
	payments  *PaymentUsecase
	tokenizer *payment.Tokenizer
	metrics   *metrics.Metrics
	clock     Clock
}

func NewCheckoutUsecase(tx repo.TransactionManager, carts cart.Store, payments *PaymentUsecase, tokenizer *payment.Tokenizer, m *metrics.Metrics, clock Clock) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		carts:     carts,
		payments:  payments,
		tokenizer: tokenizer,
		metrics:   m,
		clock:     clock,
	}
}

type DeliveryAddressInput struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	CEP        string `json:"cep"`
}

type PlaceOrderInput struct {
	PaymentMethod  string                `json:"payment_method"`
	DeliveryType   string                `json:"delivery_type"`
	PickupPointID  *int64                `json:"pickup_point_id"`
	DeliveryZoneID *int64                `json:"delivery_zone_id"`
	Address        *DeliveryAddressInput `json:"address"`
	ScheduledAt    *time.Time            `json:"scheduled_at"`
	Notes          string                `json:"notes"`
	// カード払いのときだけ。トークン化した断片以外は保存しない。
	CardNumber     string `json:"card_number"`
	IdempotencyKey string `json:"-"`
}

type PlaceOrderOutput struct {
	Order OrderOutput      `json:"order"`
	Pix   *PixIntentOutput `json:"pix,omitempty"`
}

func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, customerID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if customerID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	method := model.PaymentMethod(in.PaymentMethod)
	switch method {
	case model.PaymentMethodCash, model.PaymentMethodCard, model.PaymentMethodPix:
	default:
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	now := u.clock.Now()
	if in.ScheduledAt != nil && in.ScheduledAt.Before(now) {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "scheduled_at must be in the future")
	}

	// カード番号はDBに入れる前にトークン化する
	var card *payment.CardToken
	if method == model.PaymentMethodCard {
		if !payment.ValidLuhn(in.CardNumber) {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid card number")
		}
		if u.tokenizer == nil {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusServiceUnavailable, "card payments unavailable")
		}
		tok, err := u.tokenizer.Tokenize(in.CardNumber)
		if err != nil {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "card tokenization failed")
		}
		card = &tok
	}

	sess, err := u.carts.Get(ctx, customerID)
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	if sess.IsEmpty() {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var out PlaceOrderOutput
	replayed := false

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out.Order = toOrderOutput(existing, items)
			replayed = true
			return nil
		}

		fee, pointID, zoneID, notes, err := u.resolveDelivery(ctx, r, in)
		if err != nil {
			return err
		}

		// カートIDを固定順で処理してデッドロックを避ける
		ids := make([]int64, 0, len(sess.Items))
		for id := range sess.Items {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		orderItems := make([]model.OrderItem, 0, len(ids))
		perCategory := map[int64]categoryTotals{}
		total := decimal.Zero

		for _, productID := range ids {
			qty := decimal.NewFromInt(sess.Items[productID])
			if qty.Sign() <= 0 {
				continue
			}

			p, err := r.Products().FindByID(ctx, productID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d unavailable", productID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d unavailable", productID))
			}

			// 確定時に再チェックして減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, productID, qty)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock for %s", p.Name))
			}

			unit := p.CurrentPrice(now)
			sub := unit.Mul(qty)
			total = total.Add(sub)

			agg := perCategory[p.CategoryID]
			agg.value = agg.value.Add(sub)
			agg.quantity = agg.quantity.Add(qty)
			perCategory[p.CategoryID] = agg

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           productID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   unit,
				Quantity:            qty,
				CreatedAt:           now,
			})
		}
		if len(orderItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		if err := u.checkCategoryMinimums(ctx, r, perCategory); err != nil {
			return err
		}

		total = total.Add(fee)

		order := model.Order{
			CustomerID:     customerID,
			Status:         model.OrderStatusAwaitingConfirmation,
			PaymentStatus:  model.PaymentStatusPending,
			PaymentMethod:  method,
			DeliveryType:   model.DeliveryType(in.DeliveryType),
			PickupPointID:  pointID,
			DeliveryZoneID: zoneID,
			DeliveryFee:    fee,
			Total:          total,
			ScheduledAt:    in.ScheduledAt,
			Notes:          notes,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if card != nil {
			order.CardLast4 = card.Last4
			order.CardBrand = card.Brand
			order.CardHash = card.Hash
			order.CardCiphertext = card.Ciphertext
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			// キーの一意制約違反は同時リクエストの競合。もう一回検索して同じ結果を返す
			// 23505 = unique_violation
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
				if err2 == nil && found2 {
					items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
					if err3 != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
					out.Order = toOrderOutput(ex2, items2)
					replayed = true
					return nil
				}
				return NewHTTPError(http.StatusConflict, "idempotency conflict")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out.Order = toOrderOutput(order, orderItems)
		return nil
	})
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	if replayed {
		return out, nil
	}

	// コミット後の後始末。カート削除の失敗は注文を巻き戻さない。
	if err := u.carts.Clear(ctx, customerID); err != nil {
		log.Printf("checkout: clear cart for customer %d: %v", customerID, err)
	}
	if u.metrics != nil {
		u.metrics.OrdersPlaced.Inc()
	}

	// PIXは意図の作成に失敗しても注文自体は成立させる。
	// クライアントはGET /orders/:id/pixで再取得できる。
	if method == model.PaymentMethodPix {
		pix, err := u.payments.CreatePixIntent(ctx, customerID, out.Order.ID)
		if err != nil {
			log.Printf("checkout: create pix intent for order %d: %v", out.Order.ID, err)
		} else {
			out.Pix = &pix
			out.Order.PaymentExpiresAt = pix.ExpiresAt
		}
	}

	return out, nil
}

type categoryTotals struct {
	value    decimal.Decimal
	quantity decimal.Decimal
}

// カテゴリ最低注文ルール。違反はまとめて1つの400にする。
func (u *CheckoutUsecase) checkCategoryMinimums(ctx context.Context, r repo.TxRepos, perCategory map[int64]categoryTotals) error {
	ids := make([]int64, 0, len(perCategory))
	for id := range perCategory {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cats, err := r.Categories().FindByIDs(ctx, ids)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var violations []string
	for _, id := range ids {
		cat, ok := cats[id]
		if !ok {
			continue
		}
		agg := perCategory[id]
		if cat.MinOrderValue != nil && agg.value.LessThan(*cat.MinOrderValue) {
			violations = append(violations, fmt.Sprintf("%s: minimum order value is %s", cat.Name, cat.MinOrderValue.StringFixed(2)))
		}
		if cat.MinOrderQuantity != nil && agg.quantity.LessThan(*cat.MinOrderQuantity) {
			violations = append(violations, fmt.Sprintf("%s: minimum order quantity is %s", cat.Name, cat.MinOrderQuantity.String()))
		}
	}
	if len(violations) > 0 {
		return NewHTTPError(http.StatusBadRequest, "category minimums not met: "+strings.Join(violations, "; "))
	}
	return nil
}

// 受取方法の検証。pickupは送料0、deliveryは地域の固定送料。
func (u *CheckoutUsecase) resolveDelivery(ctx context.Context, r repo.TxRepos, in PlaceOrderInput) (decimal.Decimal, *int64, *int64, string, error) {
	notes := strings.TrimSpace(in.Notes)

	switch model.DeliveryType(in.DeliveryType) {
	case model.DeliveryTypePickup:
		if in.PickupPointID == nil {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "pickup_point_id required")
		}
		point, err := r.PickupPoints().FindByID(ctx, *in.PickupPointID)
		if errors.Is(err, repo.ErrNotFound) {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "invalid pickup point")
		}
		if err != nil {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !point.IsActive {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "pickup point unavailable")
		}
		return decimal.Zero, in.PickupPointID, nil, notes, nil

	case model.DeliveryTypeDelivery:
		if in.DeliveryZoneID == nil {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "delivery_zone_id required")
		}
		zone, err := r.DeliveryZones().FindByID(ctx, *in.DeliveryZoneID)
		if errors.Is(err, repo.ErrNotFound) {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "invalid delivery zone")
		}
		if err != nil {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !zone.IsActive {
			return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "delivery zone unavailable")
		}

		// 住所は任意の補足。渡された分だけ検証して備考に残す
		if addr := in.Address; addr != nil {
			var parts []string
			if s := strings.TrimSpace(addr.Street); s != "" {
				if n := strings.TrimSpace(addr.Number); n != "" {
					parts = append(parts, s+", "+n)
				} else {
					parts = append(parts, s)
				}
			}
			if c := strings.TrimSpace(addr.Complement); c != "" {
				parts = append(parts, c)
			}
			if d := strings.TrimSpace(addr.District); d != "" {
				parts = append(parts, d)
			}
			if raw := strings.TrimSpace(addr.CEP); raw != "" {
				m := cepPattern.FindStringSubmatch(raw)
				if m == nil {
					return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "invalid cep")
				}
				parts = append(parts, "CEP "+m[1]+"-"+m[2])
			}
			if len(parts) > 0 {
				if notes != "" {
					notes += "\n"
				}
				notes += "Entrega: " + strings.Join(parts, " - ")
			}
		}

		return zone.Fee, nil, in.DeliveryZoneID, notes, nil
	}

	return decimal.Zero, nil, nil, "", NewHTTPError(http.StatusBadRequest, "invalid delivery_type")
}
