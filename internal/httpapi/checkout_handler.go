package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diamondnunstraw/kartcentral/internal/checkout"
	"github.com/diamondnunstraw/kartcentral/internal/domain"
)

type CheckoutStateDTO struct {
	Step     domain.CheckoutStep `json:"step"`
	Shipping domain.ShippingInfo `json:"shipping"`
	Totals   domain.Totals       `json:"totals"`
}

// GetCheckout reads the active session. It never starts one: session
// creation is reserved for the POST endpoints.
func (s *Server) GetCheckout(w http.ResponseWriter, r *http.Request) {
	session := s.app.Checkout()
	if session == nil {
		s.respondError(w, http.StatusConflict, "no_session", "no checkout session is active")
		return
	}

	s.respondJSON(w, http.StatusOK, CheckoutStateDTO{
		Step:     session.Step(),
		Shipping: session.ShippingInfo(),
		Totals:   session.Totals(),
	})
}

func (s *Server) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	session, err := s.app.BeginCheckout()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var info domain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := session.SubmitShipping(info); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"step": session.Step()})
}

func (s *Server) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	session := s.app.Checkout()
	if session == nil {
		s.respondError(w, http.StatusConflict, "no_session", "no checkout session is active")
		return
	}

	var info domain.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := session.SubmitPayment(info); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"step": session.Step()})
}

func (s *Server) CheckoutBack(w http.ResponseWriter, r *http.Request) {
	session := s.app.Checkout()
	if session == nil {
		s.respondError(w, http.StatusConflict, "no_session", "no checkout session is active")
		return
	}

	session.Back()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"step": session.Step()})
}

func (s *Server) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	session := s.app.Checkout()
	if session == nil {
		s.respondError(w, http.StatusConflict, "no_session", "no checkout session is active")
		return
	}

	order, err := session.PlaceOrder(ctx)
	if err != nil {
		// An emptied cart abandons the session entirely.
		if errors.Is(err, checkout.ErrEmptyCart) {
			s.app.EndCheckout()
		}
		s.handleDomainError(w, err)
		return
	}

	s.app.EndCheckout()
	s.respondJSON(w, http.StatusCreated, order)
}
