package handler

import (
	"net/http"

	"github.com/Dan9191/bank-cards/internal/middleware"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toJwtResponse(pair))
}

// Refresh exchanges a refresh token for a new access token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toJwtResponse(pair))
}

// Logout revokes the caller's refresh tokens
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	if err := h.auth.Logout(r.Context(), p.UserID); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
