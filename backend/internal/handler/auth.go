package handler

import (
	"net/http"

	"github.com/itchan-dev/bloghub/shared/api"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	picture, cleanup, err := h.accountForm(w, r, &body.Name, &body.Email, &body.Password)
	defer cleanup()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := utils.Validate(&body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), domain.Registration{
		Name:           body.Name,
		Email:          body.Email,
		Password:       body.Password,
		ProfilePicture: picture,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Registered. You can login now"
	if h.cfg.Public.RequireEmailConfirmation {
		message = "Registered. Check your email for the confirmation code"
	}
	writeOK(w, http.StatusCreated, api.NewUserView(user), message)
}

func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var body api.ConfirmEmailRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ConfirmEmail(r.Context(), body.Email, body.Code); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Email confirmed. You can login now")
}

func (h *Handler) ResendConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var body api.EmailRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ResendConfirmationCode(r.Context(), body.Email); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Confirmation code sent")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.auth.Login(r.Context(), domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, http.StatusOK, api.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      api.NewUserView(session.User),
	}, "You logged in")
}

func (h *Handler) RequestPasswordCode(w http.ResponseWriter, r *http.Request) {
	var body api.EmailRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.RequestPasswordCode(r.Context(), body.Email); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Password reset code sent")
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body api.ChangeForgottenPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), body.Email, body.Code, body.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil, "Password changed")
}
