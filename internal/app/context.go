package app

import (
	"context"
	"sync"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/checkout"
	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/events"
	"github.com/diamondnunstraw/kartcentral/internal/identity"
	"github.com/diamondnunstraw/kartcentral/internal/ledger"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
	"go.uber.org/zap"
)

const bindTimeout = 5 * time.Second

// Context owns the three ledgers and the active checkout session for the
// current identity. It is passed explicitly to whatever needs it, never
// held as a process-wide singleton. An identity change atomically swaps
// the ledger scope and discards any in-flight checkout session.
type Context struct {
	mu       sync.Mutex
	provider identity.Provider
	cart     *ledger.CartLedger
	wishlist *ledger.WishlistLedger
	orders   *ledger.OrderLedger
	session  *checkout.Session
	logger   *zap.Logger

	unsubscribe func()
}

func New(provider identity.Provider, store storage.Store, publisher events.Publisher, logger *zap.Logger) *Context {
	a := &Context{
		provider: provider,
		cart:     ledger.NewCartLedger(store, logger),
		wishlist: ledger.NewWishlistLedger(store, logger),
		orders:   ledger.NewOrderLedger(store, publisher, logger),
		logger:   logger,
	}

	a.bind(provider.Current())
	a.unsubscribe = provider.OnChange(a.onIdentityChange)
	return a
}

func (a *Context) Cart() *ledger.CartLedger { return a.cart }

func (a *Context) Wishlist() *ledger.WishlistLedger { return a.wishlist }

func (a *Context) Orders() *ledger.OrderLedger { return a.orders }

func (a *Context) Identity() identity.Provider { return a.provider }

// BeginCheckout starts a new checkout session over the current cart. An
// already-active session is resumed rather than restarted.
func (a *Context) BeginCheckout() (*checkout.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s := a.activeSession(); s != nil {
		return s, nil
	}
	if a.cart.ItemCount() == 0 {
		return nil, checkout.ErrEmptyCart
	}

	a.session = checkout.NewSession(a.cart, a.orders, a.provider, a.logger)
	return a.session, nil
}

// Checkout returns the active session, or nil when none is in flight.
func (a *Context) Checkout() *checkout.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeSession()
}

// activeSession abandons a session whose cart has emptied out from under
// it, so an emptied cart immediately hands control back to the cart view.
// Callers must hold a.mu.
func (a *Context) activeSession() *checkout.Session {
	if a.session != nil && a.cart.ItemCount() == 0 {
		a.logger.Info("cart emptied, abandoning checkout session")
		a.session = nil
	}
	return a.session
}

// EndCheckout discards the active session.
func (a *Context) EndCheckout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
}

func (a *Context) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// onIdentityChange swaps the ledger scope under the lock so two
// near-simultaneous identity changes cannot interleave their Bind calls
// and leave the ledgers on mixed scopes.
func (a *Context) onIdentityChange(id *domain.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Any unsaved checkout session belongs to the old scope.
	a.session = nil

	if id != nil {
		a.logger.Info("identity changed, reloading ledgers", zap.String("identity_id", id.ID))
	} else {
		a.logger.Info("identity cleared, resetting ledgers")
	}
	a.bind(id)
}

func (a *Context) bind(id *domain.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), bindTimeout)
	defer cancel()

	a.cart.Bind(ctx, id)
	a.wishlist.Bind(ctx, id)
	a.orders.Bind(ctx, id)
}
