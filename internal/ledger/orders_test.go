package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingPublisher captures events so tests can assert the ledger
// notifies on creation and status changes.
type recordingPublisher struct {
	m       sync.Mutex
	created []string
	changed []domain.StatusEvent
}

func (p *recordingPublisher) OrderCreated(_ context.Context, order *domain.Order) {
	p.m.Lock()
	defer p.m.Unlock()
	p.created = append(p.created, order.ID)
}

func (p *recordingPublisher) OrderStatusChanged(_ context.Context, _ *domain.Order, event domain.StatusEvent) {
	p.m.Lock()
	defer p.m.Unlock()
	p.changed = append(p.changed, event)
}

func newTestOrders(t *testing.T) (*OrderLedger, *recordingStore, *recordingPublisher) {
	t.Helper()
	store := newRecordingStore()
	publisher := &recordingPublisher{}
	orders := NewOrderLedger(store, publisher, zap.NewNop())
	orders.Bind(context.Background(), testIdentity("user-1"))
	return orders, store, publisher
}

func testLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: "A", Title: "Product A", Price: 10, Quantity: 2},
		{ProductID: "B", Title: "Product B", Price: 5, Quantity: 1},
	}
}

func testAddress() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "5551234",
		Address:   "1 Analytical Way",
		City:      "London",
		State:     "LDN",
		ZipCode:   "00001",
		Country:   "United Kingdom",
	}
}

func TestCreateOrder_SeedsProcessingHistory(t *testing.T) {
	orders, _, publisher := newTestOrders(t)

	order, err := orders.CreateOrder(context.Background(), testLines(), 37.5, testAddress())
	require.NoError(t, err)
	require.NotNil(t, order)

	require.NotEmpty(t, order.StatusHistory)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, order.Status, order.StatusHistory[len(order.StatusHistory)-1].Status)
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
	assert.NotEmpty(t, order.TrackingNumber)
	assert.InDelta(t, 37.5, order.TotalAmount, 1e-9)

	expectedDelivery := order.CreatedAt.Add(7 * 24 * time.Hour)
	assert.Equal(t, expectedDelivery, order.EstimatedDelivery)

	publisher.m.Lock()
	defer publisher.m.Unlock()
	assert.Equal(t, []string{order.ID}, publisher.created)
}

func TestCreateOrder_WithoutIdentityFails(t *testing.T) {
	store := newRecordingStore()
	orders := NewOrderLedger(store, &recordingPublisher{}, zap.NewNop())

	order, err := orders.CreateOrder(context.Background(), testLines(), 37.5, testAddress())
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Nil(t, order)
	assert.Equal(t, 0, store.writeCount(), "a failed create must not mutate anything")
}

func TestCreateOrder_MostRecentFirst(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	first, err := orders.CreateOrder(ctx, testLines(), 10, testAddress())
	require.NoError(t, err)
	second, err := orders.CreateOrder(ctx, testLines(), 20, testAddress())
	require.NoError(t, err)

	list := orders.UserOrders()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCreateOrder_UniqueIDsAndTrackingNumbers(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	ids := map[string]bool{}
	tracking := map[string]bool{}
	for i := 0; i < 50; i++ {
		order, err := orders.CreateOrder(ctx, testLines(), 10, testAddress())
		require.NoError(t, err)
		require.False(t, ids[order.ID])
		require.False(t, tracking[order.TrackingNumber])
		ids[order.ID] = true
		tracking[order.TrackingNumber] = true
	}
}

func TestCreateOrder_ItemsSnapshotIsImmutable(t *testing.T) {
	orders, _, _ := newTestOrders(t)

	lines := testLines()
	order, err := orders.CreateOrder(context.Background(), lines, 37.5, testAddress())
	require.NoError(t, err)

	// Mutating the caller's slice after creation must not leak into the
	// recorded order.
	lines[0].Quantity = 99

	stored, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestReturnedOrders_DoNotAliasLedgerState(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	// Writing through any returned order must not reach the ledger.
	order.Items[0].Quantity = 99
	order.StatusHistory[0].Status = domain.OrderStatusDelivered

	fetched, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	fetched.Items[1].Price = 0
	fetched.StatusHistory[0].Description = "tampered"

	list := orders.UserOrders()
	require.Len(t, list, 1)
	list[0].Items[0].Quantity = 7

	stored, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.InDelta(t, 5, stored.Items[1].Price, 1e-9)
	assert.Equal(t, domain.OrderStatusProcessing, stored.StatusHistory[0].Status)
	assert.Equal(t, "Order received and is being processed", stored.StatusHistory[0].Description)
}

func TestGetOrder_UnknownID(t *testing.T) {
	orders, _, _ := newTestOrders(t)

	_, err := orders.GetOrder("ORD-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUserOrders_NoIdentityReturnsEmpty(t *testing.T) {
	orders := NewOrderLedger(newRecordingStore(), &recordingPublisher{}, zap.NewNop())
	assert.Empty(t, orders.UserOrders())
}

func TestUpdateStatus_AppendsHistory(t *testing.T) {
	orders, _, publisher := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	err = orders.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped, "Package left the warehouse")
	require.NoError(t, err)

	updated, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, updated.Status, updated.StatusHistory[1].Status)
	assert.Equal(t, "Package left the warehouse", updated.StatusHistory[1].Description)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	publisher.m.Lock()
	defer publisher.m.Unlock()
	require.Len(t, publisher.changed, 1)
	assert.Equal(t, domain.OrderStatusShipped, publisher.changed[0].Status)
}

func TestUpdateStatus_HistoryGrowsByOnePerCall(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	transitions := []struct {
		status domain.OrderStatus
		desc   string
	}{
		{domain.OrderStatusShipped, "shipped"},
		{domain.OrderStatusDelivered, "delivered"},
	}

	expected := 1
	for _, tr := range transitions {
		require.NoError(t, orders.UpdateStatus(ctx, order.ID, tr.status, tr.desc))
		expected++

		updated, err := orders.GetOrder(order.ID)
		require.NoError(t, err)
		assert.Len(t, updated.StatusHistory, expected)
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	orders, _, _ := newTestOrders(t)

	err := orders.UpdateStatus(context.Background(), "ORD-missing", domain.OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	// processing -> delivered skips the shipped step
	err = orders.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	unchanged, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, unchanged.Status)
	assert.Len(t, unchanged.StatusHistory, 1)
}

func TestUpdateStatus_CancelFromProcessing(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled, "Customer request"))

	cancelled, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestTracking_ReturnsCurrentView(t *testing.T) {
	orders, _, _ := newTestOrders(t)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)
	require.NoError(t, orders.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped, "shipped"))

	tracking, err := orders.Tracking(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, tracking.CurrentStatus)
	assert.Len(t, tracking.History, 2)
	assert.Equal(t, order.TrackingNumber, tracking.TrackingNumber)
	assert.Equal(t, order.EstimatedDelivery, tracking.EstimatedDelivery)
}

func TestTracking_UnknownOrder(t *testing.T) {
	orders, _, _ := newTestOrders(t)

	_, err := orders.Tracking("ORD-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrders_SnapshotSurvivesRebind(t *testing.T) {
	store := newRecordingStore()
	ctx := context.Background()

	orders := NewOrderLedger(store, &recordingPublisher{}, zap.NewNop())
	orders.Bind(ctx, testIdentity("user-1"))
	order, err := orders.CreateOrder(ctx, testLines(), 37.5, testAddress())
	require.NoError(t, err)

	reloaded := NewOrderLedger(store, &recordingPublisher{}, zap.NewNop())
	reloaded.Bind(ctx, testIdentity("user-1"))

	stored, err := reloaded.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
	assert.Len(t, stored.Items, 2)
}
