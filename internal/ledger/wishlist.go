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

// WishlistLedger is the set of saved products for the bound identity,
// independent of the cart. Same persistence discipline as the cart: every
// mutation rewrites the identity-scoped snapshot.
type WishlistLedger struct {
	mu       sync.RWMutex
	identity *domain.Identity
	entries  []domain.WishlistEntry
	store    storage.Store
	logger   *zap.Logger
}

func NewWishlistLedger(store storage.Store, logger *zap.Logger) *WishlistLedger {
	return &WishlistLedger{
		store:  store,
		logger: logger,
	}
}

func wishlistKey(identityID string) string {
	return fmt.Sprintf("wishlist:%s", identityID)
}

func (l *WishlistLedger) Bind(ctx context.Context, identity *domain.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.identity = identity
	l.entries = nil
	if identity == nil {
		return
	}

	raw, err := l.store.Read(ctx, wishlistKey(identity.ID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			l.logger.Warn("failed to load wishlist snapshot",
				zap.String("identity_id", identity.ID),
				zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal([]byte(raw), &l.entries); err != nil {
		l.logger.Warn("failed to decode wishlist snapshot",
			zap.String("identity_id", identity.ID),
			zap.Error(err))
		l.entries = nil
	}
}

// Add saves the product. Re-adding a product already on the list is a
// no-op.
func (l *WishlistLedger) Add(ctx context.Context, product domain.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.ProductID == product.ID {
			return
		}
	}

	l.entries = append(l.entries, domain.WishlistEntry{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		AddedAt:   time.Now(),
	})
	l.persist(ctx)
}

func (l *WishlistLedger) Remove(ctx context.Context, productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, entry := range l.entries {
		if entry.ProductID == productID {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

func (l *WishlistLedger) Contains(productID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

func (l *WishlistLedger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.persist(ctx)
}

func (l *WishlistLedger) Entries() []domain.WishlistEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]domain.WishlistEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// MoveToCart transfers the entry into the cart as a quantity-1 line and
// removes it from the wishlist. This is the only interaction between the
// two ledgers.
func (l *WishlistLedger) MoveToCart(ctx context.Context, productID string, cart *CartLedger) error {
	l.mu.Lock()
	var moved *domain.WishlistEntry
	for i, entry := range l.entries {
		if entry.ProductID == productID {
			e := entry
			moved = &e
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			l.persist(ctx)
			break
		}
	}
	l.mu.Unlock()

	if moved == nil {
		return ErrEntryNotFound
	}

	cart.AddItem(ctx, domain.Product{
		ID:       moved.ProductID,
		Title:    moved.Title,
		Price:    moved.Price,
		ImageURL: moved.ImageURL,
	}, 1)
	return nil
}

func (l *WishlistLedger) persist(ctx context.Context) {
	if l.identity == nil {
		return
	}

	raw, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.Error("failed to marshal wishlist snapshot", zap.Error(err))
		return
	}

	if err := l.store.Write(ctx, wishlistKey(l.identity.ID), string(raw)); err != nil {
		l.logger.Warn("failed to persist wishlist snapshot",
			zap.String("identity_id", l.identity.ID),
			zap.Error(err))
	}
}
