package handler

import (
	"context"
	"io"
	"strings"

	"github.com/itchan-dev/bloghub/backend/internal/service"
	"github.com/itchan-dev/bloghub/shared/domain"
)

type MockAuthService struct {
	RegisterFunc               func(ctx context.Context, reg domain.Registration) (domain.User, error)
	ConfirmEmailFunc           func(ctx context.Context, email domain.Email, code int64) error
	ResendConfirmationCodeFunc func(ctx context.Context, email domain.Email) error
	LoginFunc                  func(ctx context.Context, creds domain.Credentials) (service.Session, error)
	RequestPasswordCodeFunc    func(ctx context.Context, email domain.Email) error
	ChangePasswordFunc         func(ctx context.Context, email domain.Email, code int64, newPassword domain.Password) error
}

func (m *MockAuthService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return domain.User{Id: 1, Name: reg.Name, Email: reg.Email}, nil
}

func (m *MockAuthService) ConfirmEmail(ctx context.Context, email domain.Email, code int64) error {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, email, code)
	}
	return nil
}

func (m *MockAuthService) ResendConfirmationCode(ctx context.Context, email domain.Email) error {
	if m.ResendConfirmationCodeFunc != nil {
		return m.ResendConfirmationCodeFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (service.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return service.Session{Token: "test_token"}, nil
}

func (m *MockAuthService) RequestPasswordCode(ctx context.Context, email domain.Email) error {
	if m.RequestPasswordCodeFunc != nil {
		return m.RequestPasswordCodeFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, email domain.Email, code int64, newPassword domain.Password) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, email, code, newPassword)
	}
	return nil
}

type MockAccountService struct {
	AccountDataFunc    func(ctx context.Context, actor *domain.Actor) (domain.User, error)
	UpdateAccountFunc  func(ctx context.Context, actor *domain.Actor, patch domain.AccountPatch) (domain.User, error)
	DeleteAccountFunc  func(ctx context.Context, actor *domain.Actor) error
	ProfilePictureFunc func(ctx context.Context, name domain.FileName) (io.ReadCloser, error)
	ListUsersFunc      func(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.User], error)
	FindByEmailFunc    func(ctx context.Context, actor *domain.Actor, email domain.Email) (domain.User, error)
	DeleteUserFunc     func(ctx context.Context, actor *domain.Actor, id domain.UserId) error
	UpdateUserFunc     func(ctx context.Context, actor *domain.Actor, id domain.UserId, patch domain.AccountPatch) (domain.User, error)
}

func (m *MockAccountService) AccountData(ctx context.Context, actor *domain.Actor) (domain.User, error) {
	if m.AccountDataFunc != nil {
		return m.AccountDataFunc(ctx, actor)
	}
	return domain.User{Id: actor.Id}, nil
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, actor *domain.Actor, patch domain.AccountPatch) (domain.User, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, actor, patch)
	}
	return domain.User{Id: actor.Id, Name: patch.Name}, nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, actor *domain.Actor) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, actor)
	}
	return nil
}

func (m *MockAccountService) ProfilePicture(ctx context.Context, name domain.FileName) (io.ReadCloser, error) {
	if m.ProfilePictureFunc != nil {
		return m.ProfilePictureFunc(ctx, name)
	}
	return io.NopCloser(strings.NewReader("picture")), nil
}

func (m *MockAccountService) ListUsers(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.User], error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, actor, p)
	}
	return domain.Page[domain.User]{Pagination: p}, nil
}

func (m *MockAccountService) FindByEmail(ctx context.Context, actor *domain.Actor, email domain.Email) (domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, actor, email)
	}
	return domain.User{Email: email}, nil
}

func (m *MockAccountService) DeleteUser(ctx context.Context, actor *domain.Actor, id domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actor, id)
	}
	return nil
}

func (m *MockAccountService) UpdateUser(ctx context.Context, actor *domain.Actor, id domain.UserId, patch domain.AccountPatch) (domain.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, actor, id, patch)
	}
	return domain.User{Id: id}, nil
}

type MockBlogService struct {
	CreateFunc     func(ctx context.Context, actor *domain.Actor, data domain.BlogCreationData) (domain.Blog, error)
	GetPublicFunc  func(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	GetOwnFunc     func(ctx context.Context, actor *domain.Actor, id domain.BlogId) (domain.Blog, error)
	ListPublicFunc func(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Blog], error)
	ListOwnFunc    func(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Blog], error)
	UpdateFunc     func(ctx context.Context, actor *domain.Actor, id domain.BlogId, patch domain.BlogPatch) (domain.Blog, error)
	DeleteFunc     func(ctx context.Context, actor *domain.Actor, id domain.BlogId) error
}

func (m *MockBlogService) Create(ctx context.Context, actor *domain.Actor, data domain.BlogCreationData) (domain.Blog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actor, data)
	}
	return domain.Blog{Id: 1, Title: data.Title, OwnerId: actor.Id}, nil
}

func (m *MockBlogService) GetPublic(ctx context.Context, id domain.BlogId) (domain.Blog, error) {
	if m.GetPublicFunc != nil {
		return m.GetPublicFunc(ctx, id)
	}
	return domain.Blog{Id: id, IsPublic: true}, nil
}

func (m *MockBlogService) GetOwn(ctx context.Context, actor *domain.Actor, id domain.BlogId) (domain.Blog, error) {
	if m.GetOwnFunc != nil {
		return m.GetOwnFunc(ctx, actor, id)
	}
	return domain.Blog{Id: id, OwnerId: actor.Id}, nil
}

func (m *MockBlogService) ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Blog], error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, search, p)
	}
	return domain.Page[domain.Blog]{Pagination: p}, nil
}

func (m *MockBlogService) ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Blog], error) {
	if m.ListOwnFunc != nil {
		return m.ListOwnFunc(ctx, actor, search, p)
	}
	return domain.Page[domain.Blog]{Pagination: p}, nil
}

func (m *MockBlogService) Update(ctx context.Context, actor *domain.Actor, id domain.BlogId, patch domain.BlogPatch) (domain.Blog, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, patch)
	}
	return domain.Blog{Id: id}, nil
}

func (m *MockBlogService) Delete(ctx context.Context, actor *domain.Actor, id domain.BlogId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

type MockPostService struct {
	CreateFunc           func(ctx context.Context, actor *domain.Actor, data domain.PostCreationData) (domain.Post, error)
	GetPublicFunc        func(ctx context.Context, id domain.PostId) (domain.Post, error)
	GetOwnFunc           func(ctx context.Context, actor *domain.Actor, id domain.PostId) (domain.Post, error)
	ListPublicFunc       func(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListPublicByBlogFunc func(ctx context.Context, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListOwnFunc          func(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListOwnByBlogFunc    func(ctx context.Context, actor *domain.Actor, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	UpdateFunc           func(ctx context.Context, actor *domain.Actor, id domain.PostId, patch domain.PostPatch) (domain.Post, error)
	DeleteFunc           func(ctx context.Context, actor *domain.Actor, id domain.PostId) error
	CoverPictureFunc     func(ctx context.Context, actor *domain.Actor, name domain.FileName) (io.ReadCloser, error)
}

func (m *MockPostService) Create(ctx context.Context, actor *domain.Actor, data domain.PostCreationData) (domain.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actor, data)
	}
	return domain.Post{Id: 1, Title: data.Title, Text: data.Text, BlogId: data.BlogId}, nil
}

func (m *MockPostService) GetPublic(ctx context.Context, id domain.PostId) (domain.Post, error) {
	if m.GetPublicFunc != nil {
		return m.GetPublicFunc(ctx, id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) GetOwn(ctx context.Context, actor *domain.Actor, id domain.PostId) (domain.Post, error) {
	if m.GetOwnFunc != nil {
		return m.GetOwnFunc(ctx, actor, id)
	}
	return domain.Post{Id: id, OwnerId: actor.Id}, nil
}

func (m *MockPostService) ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, search, p)
	}
	return domain.Page[domain.Post]{Pagination: p}, nil
}

func (m *MockPostService) ListPublicByBlog(ctx context.Context, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if m.ListPublicByBlogFunc != nil {
		return m.ListPublicByBlogFunc(ctx, blogId, search, p)
	}
	return domain.Page[domain.Post]{Pagination: p}, nil
}

func (m *MockPostService) ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if m.ListOwnFunc != nil {
		return m.ListOwnFunc(ctx, actor, search, p)
	}
	return domain.Page[domain.Post]{Pagination: p}, nil
}

func (m *MockPostService) ListOwnByBlog(ctx context.Context, actor *domain.Actor, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if m.ListOwnByBlogFunc != nil {
		return m.ListOwnByBlogFunc(ctx, actor, blogId, search, p)
	}
	return domain.Page[domain.Post]{Pagination: p}, nil
}

func (m *MockPostService) Update(ctx context.Context, actor *domain.Actor, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, patch)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) Delete(ctx context.Context, actor *domain.Actor, id domain.PostId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

func (m *MockPostService) CoverPicture(ctx context.Context, actor *domain.Actor, name domain.FileName) (io.ReadCloser, error) {
	if m.CoverPictureFunc != nil {
		return m.CoverPictureFunc(ctx, actor, name)
	}
	return io.NopCloser(strings.NewReader("cover")), nil
}

type MockCommentService struct {
	CreateFunc     func(ctx context.Context, actor *domain.Actor, postId domain.PostId, text string) (domain.Comment, error)
	ListByPostFunc func(ctx context.Context, actor *domain.Actor, postId domain.PostId, p domain.Pagination) (domain.Page[domain.Comment], error)
	ListOwnFunc    func(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.Comment], error)
	UpdateFunc     func(ctx context.Context, actor *domain.Actor, id domain.CommentId, text string) (domain.Comment, error)
	DeleteFunc     func(ctx context.Context, actor *domain.Actor, id domain.CommentId) error
}

func (m *MockCommentService) Create(ctx context.Context, actor *domain.Actor, postId domain.PostId, text string) (domain.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actor, postId, text)
	}
	return domain.Comment{Id: 1, PostId: postId, Text: text, AuthorId: actor.Id}, nil
}

func (m *MockCommentService) ListByPost(ctx context.Context, actor *domain.Actor, postId domain.PostId, p domain.Pagination) (domain.Page[domain.Comment], error) {
	if m.ListByPostFunc != nil {
		return m.ListByPostFunc(ctx, actor, postId, p)
	}
	return domain.Page[domain.Comment]{Pagination: p}, nil
}

func (m *MockCommentService) ListOwn(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.Comment], error) {
	if m.ListOwnFunc != nil {
		return m.ListOwnFunc(ctx, actor, p)
	}
	return domain.Page[domain.Comment]{Pagination: p}, nil
}

func (m *MockCommentService) Update(ctx context.Context, actor *domain.Actor, id domain.CommentId, text string) (domain.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, text)
	}
	return domain.Comment{Id: id, Text: text, IsUpdated: true}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, actor *domain.Actor, id domain.CommentId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

type paragraphRenderer struct{}

func (paragraphRenderer) RenderPost(text string) string { return "<p>" + text + "</p>" }

type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }
