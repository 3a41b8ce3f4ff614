package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/events"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryEstimate = 7 * 24 * time.Hour

// OrderLedger is the append-only, per-identity collection of placed
// orders, most recent first. Orders are permanent once created; the only
// mutation path is appending to an order's status history.
type OrderLedger struct {
	mu       sync.RWMutex
	identity *domain.Identity
	orders   []domain.Order
	store    storage.Store
	events   events.Publisher
	logger   *zap.Logger
}

func NewOrderLedger(store storage.Store, publisher events.Publisher, logger *zap.Logger) *OrderLedger {
	return &OrderLedger{
		store:  store,
		events: publisher,
		logger: logger,
	}
}

func ordersKey(identityID string) string {
	return fmt.Sprintf("orders:%s", identityID)
}

func (l *OrderLedger) Bind(ctx context.Context, identity *domain.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.identity = identity
	l.orders = nil
	if identity == nil {
		return
	}

	raw, err := l.store.Read(ctx, ordersKey(identity.ID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			l.logger.Warn("failed to load orders snapshot",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal([]byte(raw), &l.orders); err != nil {
		l.logger.Warn("failed to decode orders snapshot",
			zap.String("identity_id", identity.ID),
			zap.Error(err))
		l.orders = nil
	}
}

// CreateOrder records a new order from the given cart snapshot. It fails
// without mutating anything when no identity is bound.
func (l *OrderLedger) CreateOrder(ctx context.Context, lines []domain.CartLine, totalAmount float64, shippingAddress domain.ShippingInfo) (*domain.Order, error) {
	l.mu.Lock()

	if l.identity == nil {
		l.mu.Unlock()
		return nil, ErrNoIdentity
	}
	identityID := l.identity.ID

	items := make([]domain.CartLine, len(lines))
	copy(items, lines)

	now := time.Now()
	order := domain.Order{
		ID:                newOrderID(),
		Items:             items,
		TotalAmount:       totalAmount,
		ShippingAddress:   shippingAddress,
		Status:            domain.OrderStatusProcessing,
		CreatedAt:         now,
		UpdatedAt:         now,
		TrackingNumber:    newTrackingNumber(),
		EstimatedDelivery: now.Add(deliveryEstimate),
		StatusHistory: []domain.StatusEvent{
			{
				Status:      domain.OrderStatusProcessing,
				Timestamp:   now,
				Description: "Order received and is being processed",
			},
		},
	}

	// Most recent first
	l.orders = append([]domain.Order{order}, l.orders...)
	l.persist(ctx)
	l.mu.Unlock()

	l.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("identity_id", identityID),
		zap.Float64("total_amount", totalAmount))
	l.events.OrderCreated(ctx, &order)

	created := cloneOrder(order)
	return &created, nil
}

func (l *OrderLedger) GetOrder(orderID string) (*domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, order := range l.orders {
		if order.ID == orderID {
			o := cloneOrder(order)
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// UserOrders returns the bound identity's orders, most recent first, or
// nothing when no identity is bound.
func (l *OrderLedger) UserOrders() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.identity == nil {
		return nil
	}
	orders := make([]domain.Order, len(l.orders))
	for i, order := range l.orders {
		orders[i] = cloneOrder(order)
	}
	return orders
}

// cloneOrder copies the order's slices so callers cannot reach back into
// the ledger's state; items are immutable after creation and the history
// is append-only through UpdateStatus alone.
func cloneOrder(order domain.Order) domain.Order {
	order.Items = append([]domain.CartLine(nil), order.Items...)
	order.StatusHistory = append([]domain.StatusEvent(nil), order.StatusHistory...)
	return order
}

// UpdateStatus appends a status event to the order's history and brings
// the order's status and updated-at along with it. Transitions outside
// the allowed progression are rejected without mutating the order.
func (l *OrderLedger) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, description string) error {
	l.mu.Lock()

	idx := -1
	for i := range l.orders {
		if l.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ErrOrderNotFound
	}

	order := &l.orders[idx]
	if !domain.CanTransitionTo(order.Status, status) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, status)
	}

	now := time.Now()
	event := domain.StatusEvent{
		Status:      status,
		Timestamp:   now,
		Description: description,
	}
	order.StatusHistory = append(order.StatusHistory, event)
	order.Status = status
	order.UpdatedAt = now
	l.persist(ctx)

	updated := cloneOrder(*order)
	l.mu.Unlock()

	l.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status.String()))
	l.events.OrderStatusChanged(ctx, &updated, event)
	return nil
}

// Tracking returns the tracking view for the order.
func (l *OrderLedger) Tracking(orderID string) (*domain.OrderTracking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, order := range l.orders {
		if order.ID == orderID {
			history := make([]domain.StatusEvent, len(order.StatusHistory))
			copy(history, order.StatusHistory)
			return &domain.OrderTracking{
				CurrentStatus:     order.Status,
				History:           history,
				EstimatedDelivery: order.EstimatedDelivery,
				TrackingNumber:    order.TrackingNumber,
			}, nil
		}
	}
	return nil, ErrOrderNotFound
}

func newOrderID() string {
	return fmt.Sprintf("ORD-%s", uuid.NewString())
}

func newTrackingNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TRK" + raw[:9]
}

func (l *OrderLedger) persist(ctx context.Context) {
	if l.identity == nil {
		return
	}

	raw, err := json.Marshal(l.orders)
	if err != nil {
		l.logger.Error("failed to marshal orders snapshot", zap.Error(err))
		return
	}

	if err := l.store.Write(ctx, ordersKey(l.identity.ID), string(raw)); err != nil {
		l.logger.Warn("failed to persist orders snapshot",
			zap.String("identity_id", l.identity.ID),
			zap.Error(err))
	}
}
