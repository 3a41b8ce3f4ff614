package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AddWishlistItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

func (s *Server) GetWishlist(w http.ResponseWriter, r *http.Request) {
	entries := s.app.Wishlist().Entries()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var req AddWishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.app.Wishlist().Add(ctx, product)
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"entries": s.app.Wishlist().Entries(),
	})
}

func (s *Server) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	s.app.Wishlist().Remove(ctx, productID)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.app.Wishlist().Entries(),
	})
}

func (s *Server) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	s.app.Wishlist().Clear(ctx)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.app.Wishlist().Entries(),
	})
}

func (s *Server) MoveWishlistItemToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if err := s.app.Wishlist().MoveToCart(ctx, productID, s.app.Cart()); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.app.Wishlist().Entries(),
		"cart":    s.cartResponse(),
	})
}
