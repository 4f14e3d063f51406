package domain

import (
	"io"
	"slices"
	"time"
)

type Role struct {
	Id   int64    `json:"id"`
	Name RoleName `json:"name"`
}

type User struct {
	Id               UserId     `json:"id"`
	Name             string     `json:"name"`
	Email            Email      `json:"email"`
	PassHash         string     `json:"-"`
	IsEmailConfirmed bool       `json:"isEmailConfirmed"`
	ProfilePicture   *FileName  `json:"profilePicture,omitempty"`
	Roles            []RoleName `json:"roles"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (u *User) HasRole(role RoleName) bool {
	return slices.Contains(u.Roles, role)
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Actor is the identity resolved from a bearer token. A nil *Actor is anonymous.
type Actor struct {
	Id    UserId
	Roles []RoleName
}

func (a *Actor) IsAdmin() bool {
	return a != nil && slices.Contains(a.Roles, RoleAdmin)
}

// Is reports whether the actor is the given user.
func (a *Actor) Is(id UserId) bool {
	return a != nil && a.Id == id
}

// Upload is a validated file received from a client, not yet stored.
type Upload struct {
	Filename string
	MimeType string
	Size     int64
	Data     io.Reader
}

type Registration struct {
	Name           string
	Email          Email
	Password       Password
	ProfilePicture *Upload
}

type Credentials struct {
	Email    Email
	Password Password
}

// AccountPatch holds account fields to change. Empty strings and a nil picture mean "not provided".
type AccountPatch struct {
	Name           string
	Email          Email
	Password       Password
	ProfilePicture *Upload
}
