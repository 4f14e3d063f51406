package domain

import "time"

type CodePurpose = string

const (
	PurposeConfirmEmail  CodePurpose = "confirm_email"
	PurposeResetPassword CodePurpose = "reset_password"
)

// AuthorizationCode is a short-lived single-use numeric code sent by email.
// Only the hash of the code is stored.
type AuthorizationCode struct {
	Id        int64
	Email     Email
	CodeHash  string
	Purpose   CodePurpose
	ExpiresAt time.Time
}

func (c *AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
