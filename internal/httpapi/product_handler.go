package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/diamondnunstraw/kartcentral/internal/catalog"
	"github.com/go-chi/chi/v5"
)

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	opts := catalog.ListOptions{}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		if sort != catalog.SortAscending && sort != catalog.SortDescending {
			s.respondError(w, http.StatusBadRequest, "invalid_sort", "sort must be asc or desc")
			return
		}
		opts.Sort = sort
	}

	products, err := s.loader.Refresh(ctx, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products":    products,
		"total_count": len(products),
	})
}

func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) ListByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	category := chi.URLParam(r, "category")
	products, err := s.catalog.ListByCategory(ctx, category)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products":    products,
		"total_count": len(products),
	})
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}
