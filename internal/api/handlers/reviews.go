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

type ReviewsHandler struct {
	Svc *services.ReviewService
}

func NewReviewsHandler(svc *services.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{Svc: svc}
}

type createReviewReq struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,gte=1,lte=10"`
}

type patchReviewReq struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, total, err := h.Svc.List(r.Context(), chi.URLParam(r, "titleID"), limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: items})
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid review", errs))
		return
	}
	rev, err := h.Svc.Create(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "titleID"), req.Text, req.Score)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rev)
}

func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rev, err := h.Svc.Get(r.Context(), chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rev)
}

func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchReviewReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid review", errs))
		return
	}
	rev, err := h.Svc.Update(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"),
		services.ReviewPatch{Text: req.Text, Score: req.Score})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rev)
}

func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.Delete(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
