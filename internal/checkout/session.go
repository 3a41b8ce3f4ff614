package checkout

import (
	"context"
	"sync"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/identity"
	"github.com/diamondnunstraw/kartcentral/internal/ledger"
	"go.uber.org/zap"
)

// Session drives the three-step capture of shipping and payment info and,
// on completion, turns the cart contents into an order. It is transient:
// it is discarded on success, on identity change, or when the cart
// empties out from under it.
type Session struct {
	mu       sync.Mutex
	step     domain.CheckoutStep
	shipping domain.ShippingInfo
	payment  domain.PaymentInfo

	cart     *ledger.CartLedger
	orders   *ledger.OrderLedger
	provider identity.Provider
	logger   *zap.Logger
}

func NewSession(cart *ledger.CartLedger, orders *ledger.OrderLedger, provider identity.Provider, logger *zap.Logger) *Session {
	return &Session{
		step:     domain.StepShipping,
		shipping: domain.ShippingInfo{Country: "United States"},
		cart:     cart,
		orders:   orders,
		provider: provider,
		logger:   logger,
	}
}

func (s *Session) Step() domain.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// ShippingInfo returns the captured shipping fields. Backward transitions
// never lose previously entered data, so the bag is always readable.
func (s *Session) ShippingInfo() domain.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Session) PaymentInfo() domain.PaymentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

// SubmitShipping validates the shipping fields and advances to the
// payment step. On a validation failure the step does not move and the
// submitted fields are kept for correction.
func (s *Session) SubmitShipping(info domain.ShippingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepShipping {
		return ErrWrongStep
	}

	s.shipping = info
	if err := validateShipping(info); err != nil {
		return err
	}

	s.step = domain.StepPayment
	return nil
}

// SubmitPayment validates the payment fields and advances to review.
func (s *Session) SubmitPayment(info domain.PaymentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepPayment {
		return ErrWrongStep
	}

	s.payment = info
	if err := validatePayment(info); err != nil {
		return err
	}

	s.step = domain.StepReview
	return nil
}

// Back steps to the previous screen without dropping any captured data.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step > domain.StepShipping {
		s.step--
	}
}

// Totals derives the order totals from the live cart.
func (s *Session) Totals() domain.Totals {
	return domain.CalculateTotals(s.cart.Subtotal())
}

// PlaceOrder completes checkout from the review step. The cart snapshot
// is captured first, then a guest identity is created if none is present,
// then the order is recorded, and only after that is the cart cleared.
// The ordering matters for crash-safety: the order must be durable before
// the cart is emptied.
func (s *Session) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepReview {
		return nil, ErrWrongStep
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		// The cart was emptied while checkout was active; abandon the
		// session and hand control back to the cart view.
		return nil, ErrEmptyCart
	}

	totals := domain.CalculateTotals(s.cart.Subtotal())

	if s.provider.Current() == nil {
		guest := s.provider.CreateGuest()
		s.logger.Info("guest checkout", zap.String("identity_id", guest.ID))
	}

	order, err := s.orders.CreateOrder(ctx, lines, totals.Total, s.shipping)
	if err != nil {
		return nil, err
	}

	s.cart.Clear(ctx)
	return order, nil
}
