package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oyilmaz/ratehub/internal/api/httpx"
	"github.com/oyilmaz/ratehub/internal/api/validate"
	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/middleware"
	"github.com/oyilmaz/ratehub/internal/services"
)

// CatalogHandler serves the two admin-curated slug collections. Categories
// and genres have the same surface, so one handler covers both.
type CatalogHandler struct {
	Svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Svc: svc}
}

type slugEntityReq struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, total, err := h.Svc.ListCategories(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: items})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req slugEntityReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid category", errs))
		return
	}
	c, err := h.Svc.CreateCategory(r.Context(), middleware.ActorFrom(r.Context()), req.Name, req.Slug)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteCategory(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "slug")); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, total, err := h.Svc.ListGenres(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: items})
}

func (h *CatalogHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req slugEntityReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid genre", errs))
		return
	}
	g, err := h.Svc.CreateGenre(r.Context(), middleware.ActorFrom(r.Context()), req.Name, req.Slug)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, g)
}

func (h *CatalogHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteGenre(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "slug")); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
