package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/go-chi/chi/v5"
)

type UpdateStatusRequestDTO struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := s.app.Orders().UserOrders()
	if orders == nil {
		orders = []domain.Order{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	order, err := s.app.Orders().GetOrder(orderID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, order)
}

func (s *Server) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	tracking, err := s.app.Orders().Tracking(orderID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tracking)
}

func (s *Server) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Status == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_status", "status is required")
		return
	}

	err := s.app.Orders().UpdateStatus(ctx, orderID, domain.OrderStatus(req.Status), req.Description)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	order, err := s.app.Orders().GetOrder(orderID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, order)
}
