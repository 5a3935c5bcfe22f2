package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"agrofeira/internal/cart"
	"agrofeira/internal/domain/model"
	"agrofeira/internal/metrics"
	"agrofeira/internal/payment"
	"agrofeira/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func cartWith(items map[int64]int64) cart.Cart {
	c := cart.New()
	for id, qty := range items {
		c.Add(id, qty)
	}
	return c
}

type checkoutFixture struct {
	tx        *TxManagerMock
	store     *CartStoreMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	products  *ProductRepoMock
	cats      *CategoryRepoMock
	inventory *InventoryRepoMock
	pickups   *PickupPointRepoMock
	zones     *DeliveryZoneRepoMock
	uc        *usecase.CheckoutUsecase
	payments  *usecase.PaymentUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		tx:        new(TxManagerMock),
		store:     new(CartStoreMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		products:  new(ProductRepoMock),
		cats:      new(CategoryRepoMock),
		inventory: new(InventoryRepoMock),
		pickups:   new(PickupPointRepoMock),
		zones:     new(DeliveryZoneRepoMock),
	}
	f.tx.Repos = &TxReposStub{
		orders:        f.orders,
		orderItems:    f.items,
		products:      f.products,
		categories:    f.cats,
		inventory:     f.inventory,
		pickupPoints:  f.pickups,
		deliveryZones: f.zones,
		notifications: new(NotificationRepoMock),
	}

	clock := fixedClock{t: testNow}
	m := metrics.New(prometheus.NewRegistry())
	customers := new(CustomerRepoMock)
	gw := &GatewayMock{configured: false}
	verifier := payment.NewVerifier("", true)
	f.payments = usecase.NewPaymentUsecase(f.tx, f.orders, customers, gw, verifier, nil, m, clock, "")
	f.uc = usecase.NewCheckoutUsecase(f.tx, f.store, f.payments, nil, m, clock)
	return f
}

func activeProduct(id int64, categoryID int64, price string) model.Product {
	return model.Product{
		ID:         id,
		Name:       "Tomate Organico",
		Price:      d(price),
		Stock:      d("1000"),
		Unit:       "kg",
		CategoryID: categoryID,
		IsActive:   true,
	}
}

func pickupInput() usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		PaymentMethod: "cash",
		DeliveryType:  "pickup",
		PickupPointID: ptr(int64(9)),
	}
}

func TestCheckout_PlaceOrder_Unauthorized(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 0, in)
	assertErrContains(t, err, "unauthorized")
}

func TestCheckout_PlaceOrder_InvalidPaymentMethod(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.PaymentMethod = "boleto"
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "invalid payment_method")
}

func TestCheckout_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.store.On("Get", mock.Anything, int64(7)).Return(cart.New(), nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "cart empty")
}

func TestCheckout_PlaceOrder_InvalidCardNumber(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.PaymentMethod = "card"
	in.CardNumber = "4111111111111112" // Luhn NG
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "invalid card number")
}

func TestCheckout_PlaceOrder_CardWithoutEncryptionKey(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.PaymentMethod = "card"
	in.CardNumber = "4111111111111111"
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "card payments unavailable")
}

func TestCheckout_PlaceOrder_Success_PickupCash(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	f.items.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.Order.ID)
	assert.Equal(t, "AWAITING_CONFIRMATION", out.Order.Status)
	assert.Equal(t, "PENDING", out.Order.PaymentStatus)
	assert.True(t, out.Order.Total.Equal(d("30.00")), "total=%s", out.Order.Total)
	assert.True(t, out.Order.DeliveryFee.IsZero())
	if assert.Len(t, out.Order.Items, 1) {
		assert.Equal(t, "Tomate Organico", out.Order.Items[0].Name)
		assert.True(t, out.Order.Items[0].UnitPrice.Equal(d("10.00")))
	}
	assert.Nil(t, out.Pix)
	f.store.AssertCalled(t, "Clear", mock.Anything, int64(7))
}

func TestCheckout_PlaceOrder_PromoPriceSnapshot(t *testing.T) {
	f := newCheckoutFixture()

	p := activeProduct(1, 5, "10.00")
	p.PromoPrice = ptr(d("8.00"))
	p.PromoStart = ptr(testNow.Add(-time.Hour))
	p.PromoEnd = ptr(testNow.Add(time.Hour))

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 2}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(p, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(2)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(43), nil)
	f.items.On("CreateBulk", mock.Anything, int64(43), mock.Anything).Return(nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.True(t, out.Order.Total.Equal(d("16.00")), "total=%s", out.Order.Total)
	assert.True(t, out.Order.Items[0].UnitPrice.Equal(d("8.00")))
}

func TestCheckout_PlaceOrder_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(false, nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "insufficient stock")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_PlaceOrder_CategoryMinimumNotMet(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 10}), nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "1.50"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(10)).Return(true, nil)
	// 10個 × 1.50 = 15.00 は最低30.00に届かない
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{
		5: {ID: 5, Name: "Cestas", MinOrderValue: ptr(d("30.00"))},
	}, nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "minimum order value")
	assertErrContains(t, err, "Cestas")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_PlaceOrder_IdempotentReplay(t *testing.T) {
	f := newCheckoutFixture()

	existing := model.Order{
		ID:         42,
		CustomerID: 7,
		Status:     model.OrderStatusAwaitingConfirmation,
		Total:      d("30.00"),
	}

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(existing, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.Order.ID)
	// 再実行では在庫もカートも触らない
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCheckout_PlaceOrder_DeliveryFeeAndCEP(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.zones.On("FindByID", mock.Anything, int64(3)).Return(model.DeliveryZone{ID: 3, Region: "Centro", Fee: d("8.00"), IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(44), nil)
	f.items.On("CreateBulk", mock.Anything, int64(44), mock.Anything).Return(nil)

	in := usecase.PlaceOrderInput{
		PaymentMethod:  "cash",
		DeliveryType:   "delivery",
		DeliveryZoneID: ptr(int64(3)),
		Address: &usecase.DeliveryAddressInput{
			Street: "Rua das Flores",
			Number: "120",
			CEP:    "58000000", // ハイフン無しも通す
		},
		IdempotencyKey: "k1",
	}
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.True(t, out.Order.Total.Equal(d("38.00")), "total=%s", out.Order.Total)
	assert.True(t, out.Order.DeliveryFee.Equal(d("8.00")))
	assert.True(t, strings.Contains(out.Order.Notes, "58000-000"), "notes=%q", out.Order.Notes)
}

func TestCheckout_PlaceOrder_InvalidCEP(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.zones.On("FindByID", mock.Anything, int64(3)).Return(model.DeliveryZone{ID: 3, Fee: d("8.00"), IsActive: true}, nil)

	in := usecase.PlaceOrderInput{
		PaymentMethod:  "cash",
		DeliveryType:   "delivery",
		DeliveryZoneID: ptr(int64(3)),
		Address: &usecase.DeliveryAddressInput{
			Street: "Rua das Flores",
			Number: "120",
			CEP:    "580",
		},
		IdempotencyKey: "k1",
	}
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "invalid cep")
}

func TestCheckout_PlaceOrder_InactivePickupPoint(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: false}, nil)

	in := pickupInput()
	in.IdempotencyKey = "k1"
	_, err := f.uc.PlaceOrder(context.Background(), 7, in)
	assertErrContains(t, err, "pickup point unavailable")
}

func TestCheckout_PlaceOrder_DeliveryWithoutAddress(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.zones.On("FindByID", mock.Anything, int64(3)).Return(model.DeliveryZone{ID: 3, Region: "Centro", Fee: d("8.00"), IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(46), nil)
	f.items.On("CreateBulk", mock.Anything, int64(46), mock.Anything).Return(nil)

	// 住所・CEPは任意。無くてもチェックアウトは通る
	in := usecase.PlaceOrderInput{
		PaymentMethod:  "cash",
		DeliveryType:   "delivery",
		DeliveryZoneID: ptr(int64(3)),
		IdempotencyKey: "k1",
	}
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.True(t, out.Order.Total.Equal(d("38.00")), "total=%s", out.Order.Total)
	assert.Empty(t, out.Order.Notes)
}

func TestCheckout_PlaceOrder_AddressWithoutCEP(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.zones.On("FindByID", mock.Anything, int64(3)).Return(model.DeliveryZone{ID: 3, Region: "Centro", Fee: d("8.00"), IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(47), nil)
	f.items.On("CreateBulk", mock.Anything, int64(47), mock.Anything).Return(nil)

	in := usecase.PlaceOrderInput{
		PaymentMethod:  "cash",
		DeliveryType:   "delivery",
		DeliveryZoneID: ptr(int64(3)),
		Address: &usecase.DeliveryAddressInput{
			Street: "Rua das Flores",
			Number: "120",
		},
		IdempotencyKey: "k1",
	}
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	assert.True(t, strings.Contains(out.Order.Notes, "Rua das Flores, 120"), "notes=%q", out.Order.Notes)
}

func TestCheckout_PlaceOrder_PixGetsSimulatedIntent(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(45), nil)
	f.items.On("CreateBulk", mock.Anything, int64(45), mock.Anything).Return(nil)

	// チェックアウト後のPIX発行が読む
	f.orders.On("FindByID", mock.Anything, int64(45)).Return(model.Order{
		ID:            45,
		CustomerID:    7,
		PaymentMethod: model.PaymentMethodPix,
		PaymentStatus: model.PaymentStatusPending,
		Total:         d("30.00"),
	}, nil)
	f.orders.On("Update", mock.Anything, mock.Anything).Return(nil)

	in := pickupInput()
	in.PaymentMethod = "pix"
	in.IdempotencyKey = "k1"
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	if assert.NotNil(t, out.Pix) {
		assert.True(t, out.Pix.Simulated)
		assert.True(t, strings.HasPrefix(out.Pix.PaymentID, "SIM-45-"), "payment_id=%s", out.Pix.PaymentID)
		assert.NotEmpty(t, out.Pix.PixCode)
		if assert.NotNil(t, out.Pix.ExpiresAt) {
			assert.Equal(t, testNow.Add(30*time.Minute), *out.Pix.ExpiresAt)
		}
	}
}

func TestCheckout_PlaceOrder_PixStartsAwaitingConfirmation(t *testing.T) {
	f := newCheckoutFixture()

	f.store.On("Get", mock.Anything, int64(7)).Return(cartWith(map[int64]int64{1: 3}), nil)
	f.store.On("Clear", mock.Anything, int64(7)).Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k1").Return(model.Order{}, false, nil)
	f.pickups.On("FindByID", mock.Anything, int64(9)).Return(model.PickupPoint{ID: 9, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 5, "10.00"), nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), decimal.NewFromInt(3)).Return(true, nil)
	f.cats.On("FindByIDs", mock.Anything, []int64{5}).Return(map[int64]model.Category{5: {ID: 5, Name: "Frutas"}}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(45), nil)
	f.items.On("CreateBulk", mock.Anything, int64(45), mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(45)).Return(model.Order{
		ID:            45,
		CustomerID:    7,
		Status:        model.OrderStatusAwaitingConfirmation,
		PaymentMethod: model.PaymentMethodPix,
		PaymentStatus: model.PaymentStatusPending,
		Total:         d("30.00"),
	}, nil)
	f.orders.On("Update", mock.Anything, mock.Anything).Return(nil)

	in := pickupInput()
	in.PaymentMethod = "pix"
	in.IdempotencyKey = "k1"
	out, err := f.uc.PlaceOrder(context.Background(), 7, in)

	assert.NoError(t, err)
	// PIXでも確認待ちで作成される。支払い待ちへの遷移はWebhook側の仕事
	assert.Equal(t, "AWAITING_CONFIRMATION", out.Order.Status)
	for _, call := range f.orders.Calls {
		switch call.Method {
		case "Create":
			created := call.Arguments.Get(1).(model.Order)
			assert.Equal(t, model.OrderStatusAwaitingConfirmation, created.Status)
		case "Update":
			saved := call.Arguments.Get(1).(model.Order)
			assert.Equal(t, model.OrderStatusAwaitingConfirmation, saved.Status)
		}
	}
}
