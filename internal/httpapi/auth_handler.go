package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
)

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) CurrentIdentity(w http.ResponseWriter, r *http.Request) {
	id := s.app.Identity().Current()
	if id == nil {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"identity": nil})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"identity": id})
}

func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var creds CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	id, err := s.app.Identity().SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"identity": id})
}

func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var creds CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_credentials", "email and password are required")
		return
	}

	id, err := s.app.Identity().SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"identity": id})
}

func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	if err := s.app.Identity().SignOut(ctx); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) GuestCheckout(w http.ResponseWriter, r *http.Request) {
	id := s.app.Identity().CreateGuest()
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"identity": id})
}
