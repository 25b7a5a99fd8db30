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

type CommentsHandler struct {
	Svc *services.CommentService
}

func NewCommentsHandler(svc *services.CommentService) *CommentsHandler {
	return &CommentsHandler{Svc: svc}
}

type createCommentReq struct {
	Text string `json:"text" validate:"required"`
}

type patchCommentReq struct {
	Text *string `json:"text"`
}

func scope(r *http.Request) (titleID, reviewID string) {
	return chi.URLParam(r, "titleID"), chi.URLParam(r, "reviewID")
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	titleID, reviewID := scope(r)
	items, total, err := h.Svc.List(r.Context(), titleID, reviewID, limit, offset)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: total, Results: items})
}

func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.WriteAppError(w, apperr.Validation("invalid comment", errs))
		return
	}
	titleID, reviewID := scope(r)
	c, err := h.Svc.Create(r.Context(), middleware.ActorFrom(r.Context()), titleID, reviewID, req.Text)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID := scope(r)
	c, err := h.Svc.Get(r.Context(), titleID, reviewID, chi.URLParam(r, "commentID"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchCommentReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	titleID, reviewID := scope(r)
	c, err := h.Svc.Update(r.Context(), middleware.ActorFrom(r.Context()), titleID, reviewID,
		chi.URLParam(r, "commentID"), services.CommentPatch{Text: req.Text})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID := scope(r)
	err := h.Svc.Delete(r.Context(), middleware.ActorFrom(r.Context()), titleID, reviewID,
		chi.URLParam(r, "commentID"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
