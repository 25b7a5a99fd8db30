package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oyilmaz/ratehub/internal/api/httpx"
	"github.com/oyilmaz/ratehub/internal/api/validate"
	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/middleware"
	"github.com/oyilmaz/ratehub/internal/models"
	"github.com/oyilmaz/ratehub/internal/services"
)

type UsersHandler struct {
	Svc *services.UserService
}

func NewUsersHandler(svc *services.UserService) *UsersHandler {
	return &UsersHandler{Svc: svc}
}

type createUserReq struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type patchUserReq struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (req patchUserReq) patch() services.UserPatch {
	p := services.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		p.Role = &role
	}
	return p
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	users, total, err := h.Svc.List(r.Context(), middleware.ActorFrom(r.Context()), limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: users})
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid user", errs))
		return
	}
	u, err := h.Svc.Create(r.Context(), middleware.ActorFrom(r.Context()), models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Get(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchUserReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid user", errs))
		return
	}
	u, err := h.Svc.Update(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "username"), req.patch())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "username")); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Me(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req patchUserReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid profile", errs))
		return
	}
	u, err := h.Svc.UpdateMe(r.Context(), middleware.ActorFrom(r.Context()), req.patch())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
