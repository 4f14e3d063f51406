package service

import (
	"context"
	"io"
	"strings"

	"github.com/itchan-dev/bloghub/backend/internal/policy"
	"github.com/itchan-dev/bloghub/shared/crypto"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
)

type AccountService interface {
	AccountData(ctx context.Context, actor *domain.Actor) (domain.User, error)
	UpdateAccount(ctx context.Context, actor *domain.Actor, patch domain.AccountPatch) (domain.User, error)
	DeleteAccount(ctx context.Context, actor *domain.Actor) error
	ProfilePicture(ctx context.Context, name domain.FileName) (io.ReadCloser, error)

	ListUsers(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.User], error)
	FindByEmail(ctx context.Context, actor *domain.Actor, email domain.Email) (domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.Actor, id domain.UserId) error
	UpdateUser(ctx context.Context, actor *domain.Actor, id domain.UserId, patch domain.AccountPatch) (domain.User, error)
}

type Account struct {
	storage UserStorage
	media   MediaStorage
	email   Email
	hasher  *crypto.PasswordHasher
}

func NewAccount(storage UserStorage, media MediaStorage, email Email, hasher *crypto.PasswordHasher) *Account {
	return &Account{storage: storage, media: media, email: email, hasher: hasher}
}

func requireActor(actor *domain.Actor) error {
	if actor == nil {
		return errors.Unauthorized("Please sign-in")
	}
	return nil
}

func (a *Account) AccountData(ctx context.Context, actor *domain.Actor) (domain.User, error) {
	if err := requireActor(actor); err != nil {
		return domain.User{}, err
	}
	return a.storage.UserById(ctx, actor.Id)
}

func (a *Account) UpdateAccount(ctx context.Context, actor *domain.Actor, patch domain.AccountPatch) (domain.User, error) {
	if err := requireActor(actor); err != nil {
		return domain.User{}, err
	}
	user, err := a.storage.UserById(ctx, actor.Id)
	if err != nil {
		return domain.User{}, err
	}
	return a.applyPatch(ctx, user, patch)
}

func (a *Account) DeleteAccount(ctx context.Context, actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	released, err := a.storage.DeleteUser(ctx, actor.Id)
	if err != nil {
		return err
	}
	releaseFiles(a.media, released...)
	return nil
}

// ProfilePicture serves any picture that some account references.
func (a *Account) ProfilePicture(ctx context.Context, name domain.FileName) (io.ReadCloser, error) {
	exists, err := a.storage.ProfilePictureExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("File not found")
	}
	return a.media.Read(name)
}

func requireAdmin(actor *domain.Actor) error {
	return policy.Decide(actor, policy.UserResource{}, policy.Read).Err()
}

func (a *Account) ListUsers(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Page[domain.User]{}, err
	}
	users, total, err := a.storage.ListUsers(ctx, p)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return newPage(users, p, total), nil
}

func (a *Account) FindByEmail(ctx context.Context, actor *domain.Actor, email domain.Email) (domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.User{}, err
	}
	return a.storage.UserByEmail(ctx, normalizeEmail(email))
}

// DeleteUser is the admin path. Other admins are protected; an admin
// removing themselves is allowed.
func (a *Account) DeleteUser(ctx context.Context, actor *domain.Actor, id domain.UserId) error {
	if _, err := a.adminTarget(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	released, err := a.storage.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	releaseFiles(a.media, released...)
	return nil
}

func (a *Account) UpdateUser(ctx context.Context, actor *domain.Actor, id domain.UserId, patch domain.AccountPatch) (domain.User, error) {
	user, err := a.adminTarget(ctx, actor, id, policy.Update)
	if err != nil {
		return domain.User{}, err
	}
	return a.applyPatch(ctx, user, patch)
}

func (a *Account) adminTarget(ctx context.Context, actor *domain.Actor, id domain.UserId, op policy.Operation) (domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.User{}, err
	}
	user, err := a.storage.UserById(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := policy.Decide(actor, policy.UserResource{User: user}, op).Err(); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// applyPatch merges the provided fields. A new picture is stored before the
// account is written and the old one is released only after that succeeds.
func (a *Account) applyPatch(ctx context.Context, user domain.User, patch domain.AccountPatch) (domain.User, error) {
	if name := strings.TrimSpace(patch.Name); name != "" {
		user.Name = name
	}
	if patch.Email != "" {
		email := normalizeEmail(patch.Email)
		if err := a.email.IsCorrect(email); err != nil {
			return domain.User{}, err
		}
		if email != user.Email {
			other, err := a.storage.UserByEmail(ctx, email)
			if err == nil && other.Id != user.Id {
				return domain.User{}, errors.Conflict("This email is already in use!")
			}
			if err != nil && !errors.IsNotFound(err) {
				return domain.User{}, err
			}
			user.Email = email
		}
	}
	if patch.Password != "" {
		if len(patch.Password) < minPasswordLen {
			return domain.User{}, errors.Validation("Password must be at least %d characters long", minPasswordLen)
		}
		user.PassHash = a.hasher.Hash(patch.Password)
	}

	oldPicture := user.ProfilePicture
	newPicture, err := saveUpload(a.media, patch.ProfilePicture)
	if err != nil {
		return domain.User{}, err
	}
	if newPicture != nil {
		user.ProfilePicture = newPicture
	}

	if err := a.storage.UpdateUser(ctx, user); err != nil {
		releaseFile(a.media, newPicture)
		return domain.User{}, err
	}
	if newPicture != nil {
		releaseFile(a.media, oldPicture)
	}
	return user, nil
}
