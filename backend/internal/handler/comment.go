package handler

import (
	"net/http"

	"github.com/itchan-dev/bloghub/shared/api"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/itchan-dev/bloghub/shared/utils"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(r, "postId")
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.CommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comment.Create(r.Context(), mw.GetActorFromContext(r), postId, body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, comment, "Comment created")
}

func (h *Handler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(r, "postId")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.comment.ListByPost(r.Context(), mw.GetActorFromContext(r), postId, pagination(r))
	writePage(w, r, page, err)
}

func (h *Handler) ListOwnComments(w http.ResponseWriter, r *http.Request) {
	page, err := h.comment.ListOwn(r.Context(), mw.GetActorFromContext(r), pagination(r))
	writePage(w, r, page, err)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.CommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comment.Update(r.Context(), mw.GetActorFromContext(r), id, body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, comment, "Comment updated")
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comment.Delete(r.Context(), mw.GetActorFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Comment deleted")
}
