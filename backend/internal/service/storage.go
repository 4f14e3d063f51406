package service

import (
	"context"
	"io"
	"time"

	"github.com/itchan-dev/bloghub/shared/domain"
)

type UserStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	UserByEmail(ctx context.Context, email domain.Email) (domain.User, error)
	UserById(ctx context.Context, id domain.UserId) (domain.User, error)
	ListUsers(ctx context.Context, p domain.Pagination) ([]domain.User, int, error)
	UpdateUser(ctx context.Context, user domain.User) error
	SetEmailConfirmed(ctx context.Context, email domain.Email) error
	UpdatePassword(ctx context.Context, email domain.Email, passHash string) error
	// DeleteUser returns the files that nothing references anymore.
	DeleteUser(ctx context.Context, id domain.UserId) ([]domain.FileName, error)
	ProfilePictureExists(ctx context.Context, name domain.FileName) (bool, error)
}

type CodeStorage interface {
	SaveAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error
	DeleteAuthorizationCodes(ctx context.Context, email domain.Email) error
	ConsumeAuthorizationCode(ctx context.Context, email domain.Email, purpose domain.CodePurpose, check func(domain.AuthorizationCode) (bool, error)) error
}

type AuthStorage interface {
	UserStorage
	CodeStorage
}

type BlogStorage interface {
	CreateBlog(ctx context.Context, data domain.BlogCreationData) (domain.Blog, error)
	Blog(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	ListBlogs(ctx context.Context, filter domain.BlogFilter, p domain.Pagination) ([]domain.Blog, int, error)
	UpdateBlog(ctx context.Context, blog domain.Blog) error
	DeleteBlog(ctx context.Context, id domain.BlogId) ([]domain.FileName, error)
}

type PostStorage interface {
	Blog(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	CreatePost(ctx context.Context, post domain.Post) (domain.Post, error)
	Post(ctx context.Context, id domain.PostId) (domain.Post, error)
	PostByCover(ctx context.Context, name domain.FileName) (domain.Post, error)
	ListPosts(ctx context.Context, filter domain.PostFilter, p domain.Pagination) ([]domain.Post, int, error)
	UpdatePost(ctx context.Context, post domain.Post) error
	DeletePost(ctx context.Context, id domain.PostId) error
}

type CommentStorage interface {
	Blog(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	Post(ctx context.Context, id domain.PostId) (domain.Post, error)
	CreateComment(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error)
	Comment(ctx context.Context, id domain.CommentId) (domain.Comment, error)
	ListComments(ctx context.Context, filter domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error)
	UpdateComment(ctx context.Context, comment domain.Comment) error
	DeleteComment(ctx context.Context, id domain.CommentId) error
}

type MediaStorage interface {
	// Save stores the upload under a generated name and returns it.
	Save(upload *domain.Upload) (domain.FileName, error)
	Read(name domain.FileName) (io.ReadCloser, error)
	// Delete is a no-op for files that are already gone.
	Delete(name domain.FileName) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, time.Time, error)
}

type TextSanitizer interface {
	SanitizeComment(text string) string
}
