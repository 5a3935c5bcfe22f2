package repository

import (
	"context"

	"agrofeira/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Notification, error)
	// 所有者が一致するときだけ既読にする
	MarkRead(ctx context.Context, notificationID int64, customerID int64) error
}
