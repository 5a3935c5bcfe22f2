package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"agrofeira/internal/domain/model"
	"agrofeira/internal/notifier"
	repo "agrofeira/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	customers repo.CustomerRepository
	notifier  notifier.Notifier
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, customers repo.CustomerRepository, n notifier.Notifier, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:        tx,
		auditRepo: auditRepo,
		customers: customers,
		notifier:  n,
		clock:     clock,
	}
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

// 管理者が手で付けられるステータス。決済系の遷移はWebhook経由のみ。
var adminAssignableStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPaymentConfirmed: true,
	model.OrderStatusPreparing:        true,
	model.OrderStatusOutForDelivery:   true,
	model.OrderStatusDelivered:        true,
	model.OrderStatusCancelled:        true,
}

// 注文一覧（全顧客、絞り込み付き）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderListOutput{Orders: make([]OrderOutput, 0, len(orders)), Total: total, Page: f.Page, Limit: f.Limit}
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out.Orders = append(out.Orders, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ステータス更新（CANCELLEDなら在庫戻し＋監査ログ＋顧客通知）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !adminAssignableStatuses[newStatus] {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	now := u.clock.Now()
	var updated model.Order
	noop := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			updated = o
			noop = true
			return nil
		}
		// 終端ガード
		if o.Status == model.OrderStatusCancelled || o.Status == model.OrderStatusRefunded {
			return NewHTTPError(http.StatusConflict, "cannot change cancelled order")
		}
		if o.Status == model.OrderStatusDelivered {
			return NewHTTPError(http.StatusConflict, "cannot change delivered order")
		}

		beforeStatus := string(o.Status)

		if newStatus == model.OrderStatusCancelled {
			if o.HoldsStock() {
				items, err := r.OrderItems().ListByOrderID(ctx, orderID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				for _, it := range items {
					if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
				}
			}
			o.PaymentStatus = model.PaymentStatusCancelled
			o.CancelledAt = &now
			o.CancelledBy = model.CancelledByAdmin
			o.CancelReason = "cancelled by admin"
		}
		if newStatus == model.OrderStatusPaymentConfirmed && o.PaymentStatus == model.PaymentStatusPending {
			// 現金払いを管理者が確認したケース
			o.PaymentStatus = model.PaymentStatusApproved
			o.PaidAt = &now
		}

		o.Status = newStatus
		o.UpdatedAt = now
		if err := r.Orders().Update(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + beforeStatus + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Notifications().Create(ctx, model.Notification{
			CustomerID: o.CustomerID,
			Message:    fmt.Sprintf("Pedido #%d: status atualizado para %s.", o.ID, newStatus),
			CreatedAt:  now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		updated = o
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	// メールはコミット後にベストエフォートで送る
	if !noop && u.notifier != nil {
		cust, err := u.customers.FindByID(ctx, updated.CustomerID)
		if err != nil {
			log.Printf("admin: load customer %d: %v", updated.CustomerID, err)
		} else if err := u.notifier.OrderStatusChanged(ctx, updated, cust, updated.Status); err != nil {
			log.Printf("admin: status email for order %d: %v", updated.ID, err)
		}
	}

	return toOrderOutput(updated, nil), nil
}

// 管理者による注文削除。キャンセル済みに限る。
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminID int64, orderID int64) error {
	if actorAdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "only cancelled orders can be deleted")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, o.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + string(o.Status) + `"}`,
			AfterJSON:    `{}`,
			CreatedAt:    u.clock.Now(),
		})
	})
}
