package usecase

import (
	"context"
	"net/http"

	"agrofeira/internal/domain/model"
	repo "agrofeira/internal/repository"
)

// 受取拠点・配達地域の公開一覧。チェックアウト画面の選択肢になる。
type LogisticsUsecase struct {
	points repo.PickupPointRepository
	zones  repo.DeliveryZoneRepository
}

func NewLogisticsUsecase(points repo.PickupPointRepository, zones repo.DeliveryZoneRepository) *LogisticsUsecase {
	return &LogisticsUsecase{points: points, zones: zones}
}

func (u *LogisticsUsecase) ListPickupPoints(ctx context.Context) ([]model.PickupPoint, error) {
	points, err := u.points.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return points, nil
}

func (u *LogisticsUsecase) ListDeliveryZones(ctx context.Context) ([]model.DeliveryZone, error) {
	zones, err := u.zones.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return zones, nil
}
