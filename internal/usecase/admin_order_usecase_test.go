package usecase_test

import (
	"context"
	"testing"

	"agrofeira/internal/domain/model"
	repo "agrofeira/internal/repository"
	"agrofeira/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type adminFixture struct {
	tx            *TxManagerMock
	orders        *OrderRepoMock
	items         *OrderItemRepoMock
	inventory     *InventoryRepoMock
	notifications *NotificationRepoMock
	customers     *CustomerRepoMock
	audit         *AuditRepoMock
	notifier      *NotifierMock
	uc            *usecase.AdminOrderUsecase
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		tx:            new(TxManagerMock),
		orders:        new(OrderRepoMock),
		items:         new(OrderItemRepoMock),
		inventory:     new(InventoryRepoMock),
		notifications: new(NotificationRepoMock),
		customers:     new(CustomerRepoMock),
		audit:         new(AuditRepoMock),
		notifier:      new(NotifierMock),
	}
	f.tx.Repos = &TxReposStub{
		orders:        f.orders,
		orderItems:    f.items,
		inventory:     f.inventory,
		notifications: f.notifications,
		customers:     f.customers,
	}
	f.uc = usecase.NewAdminOrderUsecase(f.tx, f.audit, f.customers, f.notifier, fixedClock{t: testNow})
	return f
}

func TestAdminOrder_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newAdminFixture()

	// 決済系の遷移は管理者からは直接付けられない
	_, err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.AdminUpdateOrderStatusInput{Status: "PAYMENT_REJECTED"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrder_UpdateStatus_TerminalGuard(t *testing.T) {
	f := newAdminFixture()

	o := awaitingOrder(testNow)
	o.Status = model.OrderStatusCancelled
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(o, nil)

	_, err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.AdminUpdateOrderStatusInput{Status: "PREPARING"})
	assertErrContains(t, err, "cannot change cancelled order")
}

func TestAdminOrder_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newAdminFixture()

	o := awaitingOrder(testNow)
	o.Status = model.OrderStatusPreparing
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(o, nil)

	out, err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.AdminUpdateOrderStatusInput{Status: "PREPARING"})

	assert.NoError(t, err)
	assert.Equal(t, "PREPARING", out.Status)
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrder_UpdateStatus_CancelRestoresStockAndAudits(t *testing.T) {
	f := newAdminFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(awaitingOrder(testNow), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{ProductID: 1, Quantity: d("3")},
	}, nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(1), d("3")).Return(nil)
	f.orders.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.customers.On("FindByID", mock.Anything, int64(7)).Return(testCustomer(), nil)
	f.notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.AdminUpdateOrderStatusInput{Status: "CANCELLED"})

	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	f.inventory.AssertCalled(t, "IncreaseStock", mock.Anything, int64(1), d("3"))

	auditLog := f.audit.Calls[0].Arguments.Get(1).(model.AuditLog)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, auditLog.Action)
	assert.Equal(t, int64(42), auditLog.ResourceID)
	assert.Contains(t, auditLog.BeforeJSON, "AWAITING_CONFIRMATION")
	assert.Contains(t, auditLog.AfterJSON, "CANCELLED")

	f.notifications.AssertNumberOfCalls(t, "Create", 1)
	f.notifier.AssertNumberOfCalls(t, "OrderStatusChanged", 1)
}

func TestAdminOrder_UpdateStatus_ConfirmCashPayment(t *testing.T) {
	f := newAdminFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(awaitingOrder(testNow), nil)
	f.orders.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.customers.On("FindByID", mock.Anything, int64(7)).Return(testCustomer(), nil)
	f.notifier.On("OrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.AdminUpdateOrderStatusInput{Status: "PAYMENT_CONFIRMED"})

	assert.NoError(t, err)
	// 現金払いの確認で支払いも承認される
	assert.Equal(t, "APPROVED", out.PaymentStatus)
	assert.NotNil(t, out.PaidAt)
}

func TestAdminOrder_Delete_OnlyCancelled(t *testing.T) {
	f := newAdminFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(awaitingOrder(testNow), nil)

	err := f.uc.Delete(context.Background(), 1, 42)
	assertErrContains(t, err, "only cancelled orders")
}

func TestAdminOrder_List_PassesFilter(t *testing.T) {
	f := newAdminFixture()

	filter := repo.AdminOrderListFilter{Page: 2, Limit: 10, Status: "PREPARING"}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAdmin", mock.Anything, filter).Return([]model.Order{awaitingOrder(testNow)}, int64(1), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := f.uc.List(context.Background(), filter)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Orders, 1)
}
