package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/domain"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/itchan-dev/bloghub/shared/utils"
)

func (h *Handler) postResponse(p domain.Post) api.PostResponse {
	return api.PostResponse{Post: p, TextHtml: h.text.RenderPost(p.Text)}
}

func (h *Handler) writePosts(w http.ResponseWriter, r *http.Request, page domain.Page[domain.Post], err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]api.PostResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, h.postResponse(p))
	}
	utils.WriteJSON(w, http.StatusOK, api.NewPageResponse(items, page.Pagination, page.TotalRecords, requestURL(r)))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	blogId, err := parseIdParam(r, "blogId")
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.CreatePostRequest
	cover, cleanup, err := h.decodeWithImage(w, r, &body, "cover")
	defer cleanup()
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.post.Create(r.Context(), mw.GetActorFromContext(r), domain.PostCreationData{
		Title:      body.Title,
		Subtitle:   body.Subtitle,
		Text:       body.Text,
		IsPublic:   *body.IsPublic,
		BlogId:     blogId,
		CoverImage: cover,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, h.postResponse(post), "Post created")
}

func (h *Handler) GetPublicPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.post.GetPublic(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, h.postResponse(post), "")
}

func (h *Handler) GetOwnPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.post.GetOwn(r.Context(), mw.GetActorFromContext(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, h.postResponse(post), "")
}

func (h *Handler) ListPublicPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.post.ListPublic(r.Context(), search(r), pagination(r))
	h.writePosts(w, r, page, err)
}

func (h *Handler) ListPublicPostsByBlog(w http.ResponseWriter, r *http.Request) {
	blogId, err := parseIdParam(r, "blogId")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.post.ListPublicByBlog(r.Context(), blogId, search(r), pagination(r))
	h.writePosts(w, r, page, err)
}

func (h *Handler) ListOwnPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.post.ListOwn(r.Context(), mw.GetActorFromContext(r), search(r), pagination(r))
	h.writePosts(w, r, page, err)
}

func (h *Handler) ListOwnPostsByBlog(w http.ResponseWriter, r *http.Request) {
	blogId, err := parseIdParam(r, "blogId")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.post.ListOwnByBlog(r.Context(), mw.GetActorFromContext(r), blogId, search(r), pagination(r))
	h.writePosts(w, r, page, err)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var (
		patch   domain.PostPatch
		cover   *domain.Upload
		cleanup func()
	)
	if r.Method == http.MethodPut {
		var body api.CreatePostRequest
		cover, cleanup, err = h.decodeWithImage(w, r, &body, "cover")
		patch = body.ToPatch()
	} else {
		var body api.UpdatePostRequest
		cover, cleanup, err = h.decodeWithImage(w, r, &body, "cover")
		patch = body.ToPatch()
	}
	defer cleanup()
	if err != nil {
		writeError(w, err)
		return
	}
	patch.CoverImage = cover

	post, err := h.post.Update(r.Context(), mw.GetActorFromContext(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, h.postResponse(post), "Post updated")
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.post.Delete(r.Context(), mw.GetActorFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Post deleted")
}

// CoverPicture serves a cover image to anyone who may read its post.
func (h *Handler) CoverPicture(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.post.CoverPicture(r.Context(), mw.GetActorFromContext(r), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, name, rc)
}
