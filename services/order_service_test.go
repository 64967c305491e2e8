package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
	"github.com/fiskryeziu/hotdrop/repository"
)

// fakeNotifier counts what the service tells the realtime layer.
type fakeNotifier struct {
	created       []*entity.Order
	statusChanged []*entity.Order
}

func (f *fakeNotifier) OrderCreated(o *entity.Order)       { f.created = append(f.created, o) }
func (f *fakeNotifier) OrderStatusChanged(o *entity.Order) { f.statusChanged = append(f.statusChanged, o) }

func newTestService(t *testing.T) (*OrderService, *fakeNotifier, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{}, &entity.Product{},
		&entity.Order{}, &entity.OrderItem{},
	))

	notifier := &fakeNotifier{}
	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		notifier,
		zap.NewNop(),
	)
	return svc, notifier, db
}

func seedOrder(t *testing.T, db *gorm.DB, status entity.Status) *entity.Order {
	t.Helper()
	o := &entity.Order{UserID: 1, Status: status, Total: 999, DeliveryAddress: "1 Main St"}
	require.NoError(t, db.Create(o).Error)
	return o
}

func TestCreateOrderNotifiesAdminsOnce(t *testing.T) {
	svc, notifier, db := newTestService(t)

	p := entity.Product{Name: "Margherita", Price: 799}
	require.NoError(t, db.Create(&p).Error)

	order, err := svc.Create(1, &CreateOrderReq{
		Items:           []OrderItemIn{{ProductID: p.ID, Qty: 2}},
		DeliveryAddress: "1 Main St",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, int64(2*799), order.Subtotal)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, order.ID, notifier.created[0].ID)

	var count int64
	db.Model(&entity.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, notifier, _ := newTestService(t)

	_, err := svc.Create(1, &CreateOrderReq{
		Items:           []OrderItemIn{{ProductID: 999, Qty: 1}},
		DeliveryAddress: "1 Main St",
	})
	assert.Error(t, err)
	assert.Empty(t, notifier.created, "no notification on failed create")
}

func TestUpdateStatusForbiddenForCustomer(t *testing.T) {
	svc, notifier, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusPending)

	_, err := svc.UpdateStatus(o.ID, "preparing", entity.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	var stored entity.Order
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.Equal(t, entity.StatusPending, stored.Status, "status unchanged")
	assert.Empty(t, notifier.statusChanged, "zero broadcasts")
}

func TestUpdateStatusRejectsUnknownValueBeforePersistence(t *testing.T) {
	svc, notifier, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusPending)

	_, err := svc.UpdateStatus(o.ID, "frobnicated", entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var stored entity.Order
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Empty(t, notifier.statusChanged)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	svc, notifier, _ := newTestService(t)

	_, err := svc.UpdateStatus(12345, "preparing", entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, notifier.statusChanged)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc, notifier, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusPending)

	_, err := svc.UpdateStatus(o.ID, "delivered", entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, notifier.statusChanged)
}

func TestUpdateStatusCommitsAndNotifiesOnce(t *testing.T) {
	svc, notifier, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusPending)

	updated, err := svc.UpdateStatus(o.ID, "preparing", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPreparing, updated.Status)

	var stored entity.Order
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.Equal(t, entity.StatusPreparing, stored.Status)

	require.Len(t, notifier.statusChanged, 1)
	assert.Equal(t, entity.StatusPreparing, notifier.statusChanged[0].Status)
}

func TestUpdateStatusDeliveryRoleMayAdvance(t *testing.T) {
	svc, notifier, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusOutForDelivery)

	updated, err := svc.UpdateStatus(o.ID, "delivered", entity.RoleDelivery)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, updated.Status)
	require.Len(t, notifier.statusChanged, 1)
}

func TestClaimDelivery(t *testing.T) {
	svc, _, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusReady)

	claimed, err := svc.ClaimDelivery(o.ID, 42, entity.RoleDelivery)
	require.NoError(t, err)
	require.NotNil(t, claimed.DriverID)
	assert.EqualValues(t, 42, *claimed.DriverID)

	// Second driver loses the race.
	_, err = svc.ClaimDelivery(o.ID, 43, entity.RoleDelivery)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestClaimDeliveryRequiresReadyOrder(t *testing.T) {
	svc, _, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusPending)

	_, err := svc.ClaimDelivery(o.ID, 42, entity.RoleDelivery)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestClaimDeliveryForbiddenForCustomer(t *testing.T) {
	svc, _, db := newTestService(t)
	o := seedOrder(t, db, entity.StatusReady)

	_, err := svc.ClaimDelivery(o.ID, 42, entity.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListDeliverable(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, entity.StatusReady)
	seedOrder(t, db, entity.StatusOutForDelivery)
	seedOrder(t, db, entity.StatusPending)
	seedOrder(t, db, entity.StatusDelivered)

	orders, err := svc.ListDeliverable()
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
