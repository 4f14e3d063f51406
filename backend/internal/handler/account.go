package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/itchan-dev/bloghub/shared/utils"
)

func (h *Handler) AccountData(w http.ResponseWriter, r *http.Request) {
	user, err := h.account.AccountData(r.Context(), mw.GetActorFromContext(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, api.NewUserView(user), "")
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	patch, cleanup, err := h.accountPatch(w, r)
	defer cleanup()
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.account.UpdateAccount(r.Context(), mw.GetActorFromContext(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, api.NewUserView(user), "Account updated")
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.account.DeleteAccount(r.Context(), mw.GetActorFromContext(r)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Account deleted")
}

func (h *Handler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.account.ProfilePicture(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, name, rc)
}

// accountPatch reads the update form. PUT must carry name and email, PATCH may
// carry any subset.
func (h *Handler) accountPatch(w http.ResponseWriter, r *http.Request) (domain.AccountPatch, func(), error) {
	var name, email, password string
	picture, cleanup, err := h.accountForm(w, r, &name, &email, &password)
	if err != nil {
		return domain.AccountPatch{}, cleanup, err
	}

	var body any = &api.UpdateAccountRequest{Name: name, Email: email, Password: password}
	if r.Method == http.MethodPut {
		body = &api.ReplaceAccountRequest{Name: name, Email: email, Password: password}
	}
	if err := utils.Validate(body); err != nil {
		return domain.AccountPatch{}, cleanup, err
	}

	return domain.AccountPatch{
		Name:           name,
		Email:          email,
		Password:       password,
		ProfilePicture: picture,
	}, cleanup, nil
}

// Admin

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.account.ListUsers(r.Context(), mw.GetActorFromContext(r), pagination(r))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]api.UserView, 0, len(page.Items))
	for _, u := range page.Items {
		views = append(views, api.NewUserView(u))
	}
	utils.WriteJSON(w, http.StatusOK, api.NewPageResponse(views, page.Pagination, page.TotalRecords, requestURL(r)))
}

func (h *Handler) FindUserByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || email == "" {
		writeError(w, errors.Validation("Invalid email"))
		return
	}

	user, err := h.account.FindByEmail(r.Context(), mw.GetActorFromContext(r), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, api.NewUserView(user), "")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.account.DeleteUser(r.Context(), mw.GetActorFromContext(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "User deleted")
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	patch, cleanup, err := h.accountPatch(w, r)
	defer cleanup()
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.account.UpdateUser(r.Context(), mw.GetActorFromContext(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, api.NewUserView(user), "User updated")
}
