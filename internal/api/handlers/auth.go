package handlers

import (
	"net/http"

	"github.com/oyilmaz/ratehub/internal/api/httpx"
	"github.com/oyilmaz/ratehub/internal/api/validate"
	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/services"
)

type AuthHandler struct {
	Svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type signupReq struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid signup request", errs))
		return
	}
	if err := h.Svc.Signup(r.Context(), req.Username, req.Email); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"email":    req.Email,
		"username": req.Username,
	})
}

type tokenReq struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid token request", errs))
		return
	}
	token, err := h.Svc.Token(r.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
