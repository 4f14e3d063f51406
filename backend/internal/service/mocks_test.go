package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
)

// --- Auth storage ---

type MockAuthStorage struct {
	SaveUserFunc                 func(ctx context.Context, user domain.User) (domain.UserId, error)
	UserByEmailFunc              func(ctx context.Context, email domain.Email) (domain.User, error)
	UserByIdFunc                 func(ctx context.Context, id domain.UserId) (domain.User, error)
	ListUsersFunc                func(ctx context.Context, p domain.Pagination) ([]domain.User, int, error)
	UpdateUserFunc               func(ctx context.Context, user domain.User) error
	SetEmailConfirmedFunc        func(ctx context.Context, email domain.Email) error
	UpdatePasswordFunc           func(ctx context.Context, email domain.Email, passHash string) error
	DeleteUserFunc               func(ctx context.Context, id domain.UserId) ([]domain.FileName, error)
	ProfilePictureExistsFunc     func(ctx context.Context, name domain.FileName) (bool, error)
	SaveAuthorizationCodeFunc    func(ctx context.Context, code domain.AuthorizationCode) error
	DeleteAuthorizationCodesFunc func(ctx context.Context, email domain.Email) error
	ConsumeAuthorizationCodeFunc func(ctx context.Context, email domain.Email, purpose domain.CodePurpose, check func(domain.AuthorizationCode) (bool, error)) error
}

func (m *MockAuthStorage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	return 1, nil
}

func (m *MockAuthStorage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(ctx, email)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAuthStorage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(ctx, id)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockAuthStorage) ListUsers(ctx context.Context, p domain.Pagination) ([]domain.User, int, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, p)
	}
	return []domain.User{}, 0, nil
}

func (m *MockAuthStorage) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, user)
	}
	return nil
}

func (m *MockAuthStorage) SetEmailConfirmed(ctx context.Context, email domain.Email) error {
	if m.SetEmailConfirmedFunc != nil {
		return m.SetEmailConfirmedFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthStorage) UpdatePassword(ctx context.Context, email domain.Email, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, email, passHash)
	}
	return nil
}

func (m *MockAuthStorage) DeleteUser(ctx context.Context, id domain.UserId) ([]domain.FileName, error) {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAuthStorage) ProfilePictureExists(ctx context.Context, name domain.FileName) (bool, error) {
	if m.ProfilePictureExistsFunc != nil {
		return m.ProfilePictureExistsFunc(ctx, name)
	}
	return false, nil
}

func (m *MockAuthStorage) SaveAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	if m.SaveAuthorizationCodeFunc != nil {
		return m.SaveAuthorizationCodeFunc(ctx, code)
	}
	return nil
}

func (m *MockAuthStorage) DeleteAuthorizationCodes(ctx context.Context, email domain.Email) error {
	if m.DeleteAuthorizationCodesFunc != nil {
		return m.DeleteAuthorizationCodesFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthStorage) ConsumeAuthorizationCode(ctx context.Context, email domain.Email, purpose domain.CodePurpose, check func(domain.AuthorizationCode) (bool, error)) error {
	if m.ConsumeAuthorizationCodeFunc != nil {
		return m.ConsumeAuthorizationCodeFunc(ctx, email, purpose, check)
	}
	return errors.InvalidCode("Invalid code.")
}

// codeStore keeps issued codes in memory and consumes them the way the
// database does, so auth flows can be tested end to end.
type codeStore struct {
	codes map[domain.Email]domain.AuthorizationCode
}

func newCodeStore(m *MockAuthStorage) *codeStore {
	cs := &codeStore{codes: map[domain.Email]domain.AuthorizationCode{}}
	m.SaveAuthorizationCodeFunc = func(_ context.Context, code domain.AuthorizationCode) error {
		cs.codes[code.Email] = code
		return nil
	}
	m.DeleteAuthorizationCodesFunc = func(_ context.Context, email domain.Email) error {
		delete(cs.codes, email)
		return nil
	}
	m.ConsumeAuthorizationCodeFunc = func(_ context.Context, email domain.Email, purpose domain.CodePurpose, check func(domain.AuthorizationCode) (bool, error)) error {
		code, ok := cs.codes[email]
		if !ok || code.Purpose != purpose {
			return errors.InvalidCode("Invalid code.")
		}
		consume, err := check(code)
		if consume {
			delete(cs.codes, email)
		}
		return err
	}
	return cs
}

// --- Content storage (blogs, posts, comments) ---

type MockContentStorage struct {
	CreateBlogFunc    func(ctx context.Context, data domain.BlogCreationData) (domain.Blog, error)
	BlogFunc          func(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	ListBlogsFunc     func(ctx context.Context, filter domain.BlogFilter, p domain.Pagination) ([]domain.Blog, int, error)
	UpdateBlogFunc    func(ctx context.Context, blog domain.Blog) error
	DeleteBlogFunc    func(ctx context.Context, id domain.BlogId) ([]domain.FileName, error)
	CreatePostFunc    func(ctx context.Context, post domain.Post) (domain.Post, error)
	PostFunc          func(ctx context.Context, id domain.PostId) (domain.Post, error)
	PostByCoverFunc   func(ctx context.Context, name domain.FileName) (domain.Post, error)
	ListPostsFunc     func(ctx context.Context, filter domain.PostFilter, p domain.Pagination) ([]domain.Post, int, error)
	UpdatePostFunc    func(ctx context.Context, post domain.Post) error
	DeletePostFunc    func(ctx context.Context, id domain.PostId) error
	CreateCommentFunc func(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error)
	CommentFunc       func(ctx context.Context, id domain.CommentId) (domain.Comment, error)
	ListCommentsFunc  func(ctx context.Context, filter domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error)
	UpdateCommentFunc func(ctx context.Context, comment domain.Comment) error
	DeleteCommentFunc func(ctx context.Context, id domain.CommentId) error
}

func (m *MockContentStorage) CreateBlog(ctx context.Context, data domain.BlogCreationData) (domain.Blog, error) {
	if m.CreateBlogFunc != nil {
		return m.CreateBlogFunc(ctx, data)
	}
	return domain.Blog{Id: 1, Title: data.Title, Description: data.Description, IsPublic: data.IsPublic, OwnerId: data.OwnerId}, nil
}

func (m *MockContentStorage) Blog(ctx context.Context, id domain.BlogId) (domain.Blog, error) {
	if m.BlogFunc != nil {
		return m.BlogFunc(ctx, id)
	}
	return domain.Blog{}, errors.NotFound("Blog not found")
}

func (m *MockContentStorage) ListBlogs(ctx context.Context, filter domain.BlogFilter, p domain.Pagination) ([]domain.Blog, int, error) {
	if m.ListBlogsFunc != nil {
		return m.ListBlogsFunc(ctx, filter, p)
	}
	return []domain.Blog{}, 0, nil
}

func (m *MockContentStorage) UpdateBlog(ctx context.Context, blog domain.Blog) error {
	if m.UpdateBlogFunc != nil {
		return m.UpdateBlogFunc(ctx, blog)
	}
	return nil
}

func (m *MockContentStorage) DeleteBlog(ctx context.Context, id domain.BlogId) ([]domain.FileName, error) {
	if m.DeleteBlogFunc != nil {
		return m.DeleteBlogFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContentStorage) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	post.Id = 1
	return post, nil
}

func (m *MockContentStorage) Post(ctx context.Context, id domain.PostId) (domain.Post, error) {
	if m.PostFunc != nil {
		return m.PostFunc(ctx, id)
	}
	return domain.Post{}, errors.NotFound("Post not found")
}

func (m *MockContentStorage) PostByCover(ctx context.Context, name domain.FileName) (domain.Post, error) {
	if m.PostByCoverFunc != nil {
		return m.PostByCoverFunc(ctx, name)
	}
	return domain.Post{}, errors.NotFound("Post not found")
}

func (m *MockContentStorage) ListPosts(ctx context.Context, filter domain.PostFilter, p domain.Pagination) ([]domain.Post, int, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, filter, p)
	}
	return []domain.Post{}, 0, nil
}

func (m *MockContentStorage) UpdatePost(ctx context.Context, post domain.Post) error {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(ctx, post)
	}
	return nil
}

func (m *MockContentStorage) DeletePost(ctx context.Context, id domain.PostId) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, id)
	}
	return nil
}

func (m *MockContentStorage) CreateComment(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, data)
	}
	return domain.Comment{Id: 1, Text: data.Text, AuthorId: data.AuthorId, PostId: data.PostId}, nil
}

func (m *MockContentStorage) Comment(ctx context.Context, id domain.CommentId) (domain.Comment, error) {
	if m.CommentFunc != nil {
		return m.CommentFunc(ctx, id)
	}
	return domain.Comment{}, errors.NotFound("Comment not found")
}

func (m *MockContentStorage) ListComments(ctx context.Context, filter domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, filter, p)
	}
	return []domain.Comment{}, 0, nil
}

func (m *MockContentStorage) UpdateComment(ctx context.Context, comment domain.Comment) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, comment)
	}
	return nil
}

func (m *MockContentStorage) DeleteComment(ctx context.Context, id domain.CommentId) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, id)
	}
	return nil
}

// withBlogs and withPosts serve fixed entities by id.
func (m *MockContentStorage) withBlogs(blogs ...domain.Blog) *MockContentStorage {
	m.BlogFunc = func(_ context.Context, id domain.BlogId) (domain.Blog, error) {
		for _, b := range blogs {
			if b.Id == id {
				return b, nil
			}
		}
		return domain.Blog{}, errors.NotFound("Blog not found")
	}
	return m
}

func (m *MockContentStorage) withPosts(posts ...domain.Post) *MockContentStorage {
	m.PostFunc = func(_ context.Context, id domain.PostId) (domain.Post, error) {
		for _, p := range posts {
			if p.Id == id {
				return p, nil
			}
		}
		return domain.Post{}, errors.NotFound("Post not found")
	}
	return m
}

// --- Collaborators ---

type MockMedia struct {
	SaveFunc func(upload *domain.Upload) (domain.FileName, error)
	ReadFunc func(name domain.FileName) (io.ReadCloser, error)

	Deleted []domain.FileName
}

func (m *MockMedia) Save(upload *domain.Upload) (domain.FileName, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(upload)
	}
	return "stored-" + upload.Filename, nil
}

func (m *MockMedia) Read(name domain.FileName) (io.ReadCloser, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(name)
	}
	return io.NopCloser(strings.NewReader("bytes of " + name)), nil
}

func (m *MockMedia) Delete(name domain.FileName) error {
	m.Deleted = append(m.Deleted, name)
	return nil
}

type MockEmail struct {
	SendFunc      func(recipientEmail, subject, body string) error
	IsCorrectFunc func(email domain.Email) error

	LastBody string
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	m.LastBody = body
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, body)
	}
	return nil
}

func (m *MockEmail) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	if !strings.Contains(email, "@") {
		return errors.Validation("Email is not valid")
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, time.Time, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, time.Time, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "test_token", time.Now().Add(time.Hour), nil
}

type stubSanitizer struct{}

// SanitizeComment drops anything that looks like a tag, enough for service tests.
func (stubSanitizer) SanitizeComment(text string) string {
	if strings.Contains(text, "<") {
		return ""
	}
	return strings.TrimSpace(text)
}

func upload(name string) *domain.Upload {
	return &domain.Upload{Filename: name, MimeType: "image/png", Size: 4, Data: strings.NewReader("data")}
}
