package repository

import (
	"context"
	"errors"

	"agrofeira/internal/domain/model"
	repo "agrofeira/internal/repository"

	"gorm.io/gorm"
)

type PickupPointGormRepository struct {
	db *gorm.DB
}

func NewPickupPointGormRepository(db *gorm.DB) *PickupPointGormRepository {
	return &PickupPointGormRepository{db: db}
}

func (r *PickupPointGormRepository) FindByID(ctx context.Context, id int64) (model.PickupPoint, error) {
	var p model.PickupPoint
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PickupPoint{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PickupPoint{}, err
	}
	return p, nil
}

func (r *PickupPointGormRepository) ListActive(ctx context.Context) ([]model.PickupPoint, error) {
	var items []model.PickupPoint
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type DeliveryZoneGormRepository struct {
	db *gorm.DB
}

func NewDeliveryZoneGormRepository(db *gorm.DB) *DeliveryZoneGormRepository {
	return &DeliveryZoneGormRepository{db: db}
}

func (r *DeliveryZoneGormRepository) FindByID(ctx context.Context, id int64) (model.DeliveryZone, error) {
	var z model.DeliveryZone
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryZone{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryZone{}, err
	}
	return z, nil
}

func (r *DeliveryZoneGormRepository) ListActive(ctx context.Context) ([]model.DeliveryZone, error) {
	var items []model.DeliveryZone
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("region asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
