package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Lines     interface{} `json:"lines"`
	ItemCount int         `json:"item_count"`
	Subtotal  float64     `json:"subtotal"`
}

func (s *Server) cartResponse() CartResponseDTO {
	cart := s.app.Cart()
	return CartResponseDTO{
		Lines:     cart.Lines(),
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) AddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		s.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The ledger stores display fields, so the line is built from the
	// catalog record rather than trusting the request body.
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.app.Cart().AddItem(ctx, product, req.Quantity)
	s.respondJSON(w, http.StatusCreated, s.cartResponse())
}

func (s *Server) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		s.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	// Zero or negative quantity removes the line.
	s.app.Cart().UpdateQuantity(ctx, productID, req.Quantity)
	s.respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	s.app.Cart().RemoveItem(ctx, productID)
	s.respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	s.app.Cart().Clear(ctx)
	s.respondJSON(w, http.StatusOK, s.cartResponse())
}
