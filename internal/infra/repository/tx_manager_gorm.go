package repository

import (
	"context"

	repo "agrofeira/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	products      repo.ProductRepository
	categories    repo.CategoryRepository
	inventory     repo.InventoryRepository
	pickupPoints  repo.PickupPointRepository
	deliveryZones repo.DeliveryZoneRepository
	customers     repo.CustomerRepository
	notifications repo.NotificationRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Categories() repo.CategoryRepository        { return r.categories }
func (r *txReposGorm) Inventory() repo.InventoryRepository        { return r.inventory }
func (r *txReposGorm) PickupPoints() repo.PickupPointRepository   { return r.pickupPoints }
func (r *txReposGorm) DeliveryZones() repo.DeliveryZoneRepository { return r.deliveryZones }
func (r *txReposGorm) Customers() repo.CustomerRepository         { return r.customers }
func (r *txReposGorm) Notifications() repo.NotificationRepository { return r.notifications }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			products:      NewProductGormRepository(tx),
			categories:    NewCategoryGormRepository(tx),
			inventory:     NewInventoryGormRepository(tx),
			pickupPoints:  NewPickupPointGormRepository(tx),
			deliveryZones: NewDeliveryZoneGormRepository(tx),
			customers:     NewCustomerGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
		}
		return fn(r)
	})
}
