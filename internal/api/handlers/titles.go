package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oyilmaz/ratehub/internal/api/httpx"
	"github.com/oyilmaz/ratehub/internal/api/validate"
	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/middleware"
	repo "github.com/oyilmaz/ratehub/internal/repository"
	"github.com/oyilmaz/ratehub/internal/services"
)

type TitlesHandler struct {
	Svc *services.CatalogService
}

func NewTitlesHandler(svc *services.CatalogService) *TitlesHandler {
	return &TitlesHandler{Svc: svc}
}

type createTitleReq struct {
	Name        string   `json:"name" validate:"required"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Genre       []string `json:"genre"`
}

type patchTitleReq struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (h *TitlesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	f := repo.TitleFilter{
		Category: r.URL.Query().Get("category"),
		Genre:    r.URL.Query().Get("genre"),
		Name:     r.URL.Query().Get("name"),
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Year = n
		}
	}
	items, total, err := h.Svc.ListTitles(r.Context(), f, limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: items})
}

func (h *TitlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTitleReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid title", errs))
		return
	}
	t, err := h.Svc.CreateTitle(r.Context(), middleware.ActorFrom(r.Context()), services.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *TitlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.GetTitle(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TitlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchTitleReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	t, err := h.Svc.UpdateTitle(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "titleID"), services.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TitlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteTitle(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "titleID")); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
