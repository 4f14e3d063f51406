package api

import (
	"time"

	"github.com/itchan-dev/bloghub/shared/domain"
)

// Request DTOs

// RegisterRequest is read from multipart form fields, next to the optional "profilePicture" file.
type RegisterRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  int64  `json:"code" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangeForgottenPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        int64  `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UpdateAccountRequest is read from multipart form fields; empty means "keep".
type UpdateAccountRequest struct {
	Name     string `validate:"omitempty,max=100"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"omitempty,min=6"`
}

// Response DTOs

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

// UserView is the public projection of a user; the password hash never leaves the service.
type UserView struct {
	Id               domain.UserId     `json:"id"`
	Name             string            `json:"name"`
	Email            domain.Email      `json:"email"`
	IsEmailConfirmed bool              `json:"isEmailConfirmed"`
	ProfilePicture   *domain.FileName  `json:"profilePicture,omitempty"`
	Roles            []domain.RoleName `json:"roles"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func NewUserView(u domain.User) UserView {
	roles := u.Roles
	if roles == nil {
		roles = []domain.RoleName{}
	}
	return UserView{
		Id:               u.Id,
		Name:             u.Name,
		Email:            u.Email,
		IsEmailConfirmed: u.IsEmailConfirmed,
		ProfilePicture:   u.ProfilePicture,
		Roles:            roles,
		CreatedAt:        u.CreatedAt,
	}
}

// ReplaceAccountRequest is the PUT form: name and email must be sent.
type ReplaceAccountRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"omitempty,min=6"`
}
