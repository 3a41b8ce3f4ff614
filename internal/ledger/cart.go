package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
	"go.uber.org/zap"
)

// CartLedger maps product identity to a line item for the bound identity.
// Every mutation rewrites the full snapshot to the store; a crash between
// mutation and write loses at most the latest mutation (last-write-wins).
type CartLedger struct {
	mu       sync.RWMutex
	identity *domain.Identity
	cart     domain.Cart
	store    storage.Store
	logger   *zap.Logger
}

func NewCartLedger(store storage.Store, logger *zap.Logger) *CartLedger {
	return &CartLedger{
		store:  store,
		logger: logger,
	}
}

func cartKey(identityID string) string {
	return fmt.Sprintf("cart:%s", identityID)
}

// Bind swaps the ledger to a new identity scope, discarding the previous
// contents and loading the identity's persisted snapshot. A nil identity
// leaves the ledger unbound and empty.
func (l *CartLedger) Bind(ctx context.Context, identity *domain.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.identity = identity
	l.cart = domain.Cart{}
	if identity == nil {
		return
	}

	raw, err := l.store.Read(ctx, cartKey(identity.ID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			l.logger.Warn("failed to load cart snapshot",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal([]byte(raw), &l.cart); err != nil {
		l.logger.Warn("failed to decode cart snapshot",
			zap.String("identity_id", identity.ID),
			zap.Error(err))
		l.cart = domain.Cart{}
	}
}

// AddItem inserts a new line or increments the quantity of an existing
// line for the same product. It never fails for well-formed input.
func (l *CartLedger) AddItem(ctx context.Context, product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.cart.Lines {
		if l.cart.Lines[i].ProductID == product.ID {
			l.cart.Lines[i].Quantity += quantity
			l.persist(ctx)
			return
		}
	}

	l.cart.Lines = append(l.cart.Lines, domain.CartLine{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	})
	l.persist(ctx)
}

// RemoveItem deletes the line if present; absent lines are a no-op, not
// an error.
func (l *CartLedger) RemoveItem(ctx context.Context, productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, line := range l.cart.Lines {
		if line.ProductID == productID {
			l.cart.Lines = append(l.cart.Lines[:i], l.cart.Lines[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line, identically to RemoveItem.
func (l *CartLedger) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(ctx, productID)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.cart.Lines {
		if l.cart.Lines[i].ProductID == productID {
			l.cart.Lines[i].Quantity = quantity
			l.persist(ctx)
			return
		}
	}
}

func (l *CartLedger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cart.Lines = nil
	l.persist(ctx)
}

// Lines returns a snapshot copy of the current line items.
func (l *CartLedger) Lines() []domain.CartLine {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := make([]domain.CartLine, len(l.cart.Lines))
	copy(lines, l.cart.Lines)
	return lines
}

func (l *CartLedger) ItemCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cart.ItemCount()
}

func (l *CartLedger) Subtotal() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cart.Subtotal()
}

// persist writes the full snapshot. Write failures are best-effort: they
// are logged and the in-memory state stays authoritative. Callers must
// hold l.mu.
func (l *CartLedger) persist(ctx context.Context) {
	if l.identity == nil {
		return
	}

	l.cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(&l.cart)
	if err != nil {
		l.logger.Error("failed to marshal cart snapshot", zap.Error(err))
		return
	}

	if err := l.store.Write(ctx, cartKey(l.identity.ID), string(raw)); err != nil {
		l.logger.Warn("failed to persist cart snapshot",
			zap.String("identity_id", l.identity.ID),
			zap.Error(err))
	}
}
