package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diamondnunstraw/kartcentral/internal/catalog"
	"github.com/diamondnunstraw/kartcentral/internal/checkout"
	"github.com/diamondnunstraw/kartcentral/internal/identity"
	"github.com/diamondnunstraw/kartcentral/internal/ledger"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleDomainError maps the known error taxonomy onto HTTP statuses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case checkout.IsValidation(err):
		s.respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		s.respondError(w, http.StatusConflict, "cart_empty", err.Error())
	case errors.Is(err, checkout.ErrWrongStep):
		s.respondError(w, http.StatusConflict, "wrong_step", err.Error())
	case errors.Is(err, ledger.ErrNoIdentity):
		s.respondError(w, http.StatusUnauthorized, "no_identity", err.Error())
	case errors.Is(err, ledger.ErrOrderNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledger.ErrEntryNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledger.ErrIllegalTransition):
		s.respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		// Retryable: the client is expected to offer a manual retry.
		s.respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, identity.ErrEmailTaken):
		s.respondError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, identity.ErrNotSignedIn):
		s.respondError(w, http.StatusConflict, "not_signed_in", err.Error())
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
