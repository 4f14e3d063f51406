package handler

import (
	"net/http"

	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/domain"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/itchan-dev/bloghub/shared/utils"
)

func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var body api.CreateBlogRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.blog.Create(r.Context(), mw.GetActorFromContext(r), body.ToDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, blog, "Blog created")
}

func (h *Handler) GetPublicBlog(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.blog.GetPublic(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, blog, "")
}

func (h *Handler) GetOwnBlog(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.blog.GetOwn(r.Context(), mw.GetActorFromContext(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, blog, "")
}

func (h *Handler) ListPublicBlogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.blog.ListPublic(r.Context(), search(r), pagination(r))
	writePage(w, r, page, err)
}

func (h *Handler) ListOwnBlogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.blog.ListOwn(r.Context(), mw.GetActorFromContext(r), search(r), pagination(r))
	writePage(w, r, page, err)
}

func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.BlogPatch
	if r.Method == http.MethodPut {
		var body api.CreateBlogRequest
		err = utils.DecodeValidate(r.Body, &body)
		patch = body.ToPatch()
	} else {
		var body api.UpdateBlogRequest
		err = utils.DecodeValidate(r.Body, &body)
		patch = body.ToPatch()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.blog.Update(r.Context(), mw.GetActorFromContext(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, blog, "Blog updated")
}

func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.blog.Delete(r.Context(), mw.GetActorFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Blog deleted")
}

// writePage writes a list envelope, or the error if the listing failed.
func writePage[T any](w http.ResponseWriter, r *http.Request, page domain.Page[T], err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.NewPageResponse(page.Items, page.Pagination, page.TotalRecords, requestURL(r)))
}
