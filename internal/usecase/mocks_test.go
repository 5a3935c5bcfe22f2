package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"agrofeira/internal/cart"
	"agrofeira/internal/domain/model"
	"agrofeira/internal/payment"
	repo "agrofeira/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposStub struct {
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

func (r *TxReposStub) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposStub) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposStub) Products() repo.ProductRepository           { return r.products }
func (r *TxReposStub) Categories() repo.CategoryRepository        { return r.categories }
func (r *TxReposStub) Inventory() repo.InventoryRepository        { return r.inventory }
func (r *TxReposStub) PickupPoints() repo.PickupPointRepository   { return r.pickupPoints }
func (r *TxReposStub) DeliveryZones() repo.DeliveryZoneRepository { return r.deliveryZones }
func (r *TxReposStub) Customers() repo.CustomerRepository         { return r.customers }
func (r *TxReposStub) Notifications() repo.NotificationRepository { return r.notifications }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByPaymentID(ctx context.Context, paymentID string) (model.Order, error) {
	args := m.Called(ctx, paymentID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) Update(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListExpiredPix(ctx context.Context, now time.Time) ([]model.Order, error) {
	args := m.Called(ctx, now)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListPendingWithPaymentID(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Category, error) {
	args := m.Called(ctx, ids)
	cats, _ := args.Get(0).(map[int64]model.Category)
	return cats, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty decimal.Decimal) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty decimal.Decimal) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type PickupPointRepoMock struct{ mock.Mock }

func (m *PickupPointRepoMock) FindByID(ctx context.Context, id int64) (model.PickupPoint, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.PickupPoint)
	return p, args.Error(1)
}

func (m *PickupPointRepoMock) ListActive(ctx context.Context) ([]model.PickupPoint, error) {
	args := m.Called(ctx)
	points, _ := args.Get(0).([]model.PickupPoint)
	return points, args.Error(1)
}

type DeliveryZoneRepoMock struct{ mock.Mock }

func (m *DeliveryZoneRepoMock) FindByID(ctx context.Context, id int64) (model.DeliveryZone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(model.DeliveryZone)
	return z, args.Error(1)
}

func (m *DeliveryZoneRepoMock) ListActive(ctx context.Context) ([]model.DeliveryZone, error) {
	args := m.Called(ctx)
	zones, _ := args.Get(0).([]model.DeliveryZone)
	return zones, args.Error(1)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Notification, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.Notification)
	return list, args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, notificationID int64, customerID int64) error {
	args := m.Called(ctx, notificationID, customerID)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in these tests")
}

// CartStoreMock はセッションカートのモック
type CartStoreMock struct{ mock.Mock }

func (m *CartStoreMock) Get(ctx context.Context, customerID int64) (cart.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(cart.Cart)
	return c, args.Error(1)
}

func (m *CartStoreMock) Save(ctx context.Context, customerID int64, c cart.Cart) error {
	args := m.Called(ctx, customerID, c)
	return args.Error(0)
}

func (m *CartStoreMock) Clear(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// GatewayMock は決済ゲートウェイのモック
type GatewayMock struct {
	mock.Mock
	configured bool
}

func (m *GatewayMock) Configured() bool { return m.configured }

func (m *GatewayMock) CreatePixPayment(ctx context.Context, req payment.PixRequest) (payment.Payment, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(payment.Payment)
	return p, args.Error(1)
}

func (m *GatewayMock) CreateCardPayment(ctx context.Context, req payment.CardRequest) (payment.Payment, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(payment.Payment)
	return p, args.Error(1)
}

func (m *GatewayMock) GetPayment(ctx context.Context, paymentID string) (payment.Payment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(payment.Payment)
	return p, args.Error(1)
}

// NotifierMock はメール通知のモック
type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) PaymentConfirmed(ctx context.Context, order model.Order, customer model.Customer) error {
	args := m.Called(ctx, order, customer)
	return args.Error(0)
}

func (m *NotifierMock) OrderExpired(ctx context.Context, order model.Order, customer model.Customer) error {
	args := m.Called(ctx, order, customer)
	return args.Error(0)
}

func (m *NotifierMock) OrderStatusChanged(ctx context.Context, order model.Order, customer model.Customer, newStatus model.OrderStatus) error {
	args := m.Called(ctx, order, customer, newStatus)
	return args.Error(0)
}

// fixedClock は固定時刻
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func ptr[T any](v T) *T { return &v }
