package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobtracker/jobtracker-go/internal/middleware"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleListUsers handles GET /api/auth requests (admin only).
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleMe handles GET /api/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	writeJSON(w, http.StatusOK, user.Response())
}

// HandleDeleteUser handles DELETE /api/auth/{id} requests. Users may delete
// themselves; admins may delete anyone.
func (h *AuthHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id"), caller); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "User and associated data removed successfully")
}
