package repository

import (
	"context"

	"agrofeira/internal/domain/model"
)

// 受取拠点・配達地域は参照データとして読むだけ。
type PickupPointRepository interface {
	FindByID(ctx context.Context, id int64) (model.PickupPoint, error)
	ListActive(ctx context.Context) ([]model.PickupPoint, error)
}

type DeliveryZoneRepository interface {
	FindByID(ctx context.Context, id int64) (model.DeliveryZone, error)
	ListActive(ctx context.Context) ([]model.DeliveryZone, error)
}
