package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/crypto"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

const minPasswordLen = 6

type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	ConfirmEmail(ctx context.Context, email domain.Email, code int64) error
	ResendConfirmationCode(ctx context.Context, email domain.Email) error
	Login(ctx context.Context, creds domain.Credentials) (Session, error)
	RequestPasswordCode(ctx context.Context, email domain.Email) error
	ChangePassword(ctx context.Context, email domain.Email, code int64, newPassword domain.Password) error
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type Auth struct {
	storage AuthStorage
	media   MediaStorage
	email   Email
	jwt     Jwt
	hasher  *crypto.PasswordHasher
	cfg     *config.Public
	now     func() time.Time
}

func NewAuth(storage AuthStorage, media MediaStorage, email Email, jwt Jwt, hasher *crypto.PasswordHasher, cfg *config.Public) *Auth {
	return &Auth{
		storage: storage,
		media:   media,
		email:   email,
		jwt:     jwt,
		hasher:  hasher,
		cfg:     cfg,
		now:     time.Now,
	}
}

func normalizeEmail(email domain.Email) domain.Email {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. A confirmed account with the same email is a
// conflict; an unconfirmed one is replaced. When confirmation is required a
// code is emailed, and a failed delivery rolls the registration back.
func (a *Auth) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	email := normalizeEmail(reg.Email)
	if err := a.email.IsCorrect(email); err != nil {
		return domain.User{}, err
	}
	if len(reg.Password) < minPasswordLen {
		return domain.User{}, errors.Validation("Password must be at least %d characters long", minPasswordLen)
	}

	existing, err := a.storage.UserByEmail(ctx, email)
	switch {
	case err == nil && existing.IsEmailConfirmed:
		return domain.User{}, errors.Conflict("User with this email already exists")
	case err == nil:
		released, err := a.storage.DeleteUser(ctx, existing.Id)
		if err != nil {
			return domain.User{}, err
		}
		releaseFiles(a.media, released...)
		logger.Log.Info("replaced unconfirmed account", "email", email, "user_id", existing.Id)
	case !errors.IsNotFound(err):
		return domain.User{}, err
	}

	picture, err := saveUpload(a.media, reg.ProfilePicture)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Name:             strings.TrimSpace(reg.Name),
		Email:            email,
		PassHash:         a.hasher.Hash(reg.Password),
		IsEmailConfirmed: !a.cfg.RequireEmailConfirmation,
		ProfilePicture:   picture,
		Roles:            []domain.RoleName{domain.RoleUser},
		CreatedAt:        a.now().UTC(),
	}
	user.Id, err = a.storage.SaveUser(ctx, user)
	if err != nil {
		releaseFile(a.media, picture)
		return domain.User{}, err
	}

	if !a.cfg.RequireEmailConfirmation {
		return user, nil
	}

	if err := a.issueCode(ctx, email, domain.PurposeConfirmEmail); err != nil {
		if _, delErr := a.storage.DeleteUser(ctx, user.Id); delErr != nil {
			logger.Log.Error("failed to roll back registration", "user_id", user.Id, "error", delErr)
		}
		releaseFile(a.media, picture)
		return domain.User{}, err
	}
	return user, nil
}

func (a *Auth) ConfirmEmail(ctx context.Context, email domain.Email, code int64) error {
	email = normalizeEmail(email)
	if _, err := a.storage.UserByEmail(ctx, email); err != nil {
		return err
	}
	if err := a.consumeCode(ctx, email, domain.PurposeConfirmEmail, code); err != nil {
		return err
	}
	// The code is already gone here; a failure leaves the account unconfirmed
	// and the user asks for a new code.
	return a.storage.SetEmailConfirmed(ctx, email)
}

func (a *Auth) ResendConfirmationCode(ctx context.Context, email domain.Email) error {
	email = normalizeEmail(email)
	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailConfirmed {
		return errors.Conflict("Email is already confirmed")
	}
	return a.issueCode(ctx, email, domain.PurposeConfirmEmail)
}

// Login checks credentials and issues an access token.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (Session, error) {
	email := normalizeEmail(creds.Email)

	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !a.hasher.Verify(creds.Password, user.PassHash) {
		return Session{}, errors.Unauthorized("Invalid credentials")
	}
	if a.cfg.RequireEmailConfirmation && !user.IsEmailConfirmed {
		return Session{}, errors.Unauthorized("You need to confirm your email to login!")
	}

	token, expiresAt, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (a *Auth) RequestPasswordCode(ctx context.Context, email domain.Email) error {
	email = normalizeEmail(email)
	if _, err := a.storage.UserByEmail(ctx, email); err != nil {
		return err
	}
	return a.issueCode(ctx, email, domain.PurposeResetPassword)
}

func (a *Auth) ChangePassword(ctx context.Context, email domain.Email, code int64, newPassword domain.Password) error {
	email = normalizeEmail(email)
	if len(newPassword) < minPasswordLen {
		return errors.Validation("Password must be at least %d characters long", minPasswordLen)
	}
	if _, err := a.storage.UserByEmail(ctx, email); err != nil {
		return err
	}
	if err := a.consumeCode(ctx, email, domain.PurposeResetPassword, code); err != nil {
		return err
	}
	return a.storage.UpdatePassword(ctx, email, a.hasher.Hash(newPassword))
}

var codeMessages = map[domain.CodePurpose]struct{ subject, intro string }{
	domain.PurposeConfirmEmail: {
		subject: "Please confirm your email address",
		intro:   "Use the code below to confirm your email address.",
	},
	domain.PurposeResetPassword: {
		subject: "Password reset code",
		intro:   "Use the code below to set a new password.",
	},
}

// issueCode stores a fresh code (replacing earlier ones for the email) and
// mails it. If delivery fails the code is revoked.
func (a *Auth) issueCode(ctx context.Context, email domain.Email, purpose domain.CodePurpose) error {
	code, err := crypto.GenerateCode()
	if err != nil {
		return errors.Internal("Failed to generate code", err)
	}
	hash, err := crypto.HashCode(code)
	if err != nil {
		return errors.Internal("Failed to generate code", err)
	}

	err = a.storage.SaveAuthorizationCode(ctx, domain.AuthorizationCode{
		Email:     email,
		CodeHash:  hash,
		Purpose:   purpose,
		ExpiresAt: a.now().UTC().Add(a.cfg.CodeTTL),
	})
	if err != nil {
		return err
	}

	msg := codeMessages[purpose]
	body := fmt.Sprintf("Hello,\n\n%s\n\n%d\n\nThe code is valid for %s. If you did not request this, please ignore this email.\n",
		msg.intro, code, a.cfg.CodeTTL)

	if err := a.email.Send(email, msg.subject, body); err != nil {
		if delErr := a.storage.DeleteAuthorizationCodes(ctx, email); delErr != nil {
			logger.Log.Error("failed to revoke undelivered code", "email", email, "error", delErr)
		}
		return errors.Internal("Failed to send email with code", err)
	}
	return nil
}

// consumeCode validates code against the latest one issued for email.
// Expired codes are deleted; wrong codes are kept for another attempt.
func (a *Auth) consumeCode(ctx context.Context, email domain.Email, purpose domain.CodePurpose, code int64) error {
	return a.storage.ConsumeAuthorizationCode(ctx, email, purpose, func(stored domain.AuthorizationCode) (bool, error) {
		if stored.Expired(a.now()) {
			return true, errors.Expired("Code expired. Request a new one.")
		}
		if !crypto.CompareCode(stored.CodeHash, code) {
			return false, errors.InvalidCode("Invalid code.")
		}
		return true, nil
	})
}
