package service

import (
	"context"
	"testing"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreate(t *testing.T) {
	ctx := context.Background()
	open := domain.Post{Id: 10, IsPublic: true, OwnerId: u1.Id, BlogId: publicBlog.Id}
	draft := domain.Post{Id: 11, IsPublic: false, OwnerId: u1.Id, BlogId: publicBlog.Id}
	storage := (&MockContentStorage{}).withBlogs(publicBlog).withPosts(open, draft)
	service := NewComment(storage, stubSanitizer{})

	comment, err := service.Create(ctx, u2, open.Id, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", comment.Text)
	assert.Equal(t, u2.Id, comment.AuthorId)

	_, err = service.Create(ctx, u2, draft.Id, "hi")
	assert.True(t, errors.IsNotFound(err), "cannot comment on unreadable post")

	_, err = service.Create(ctx, u1, draft.Id, "hi")
	assert.True(t, errors.IsNotFound(err), "owner cannot comment own draft")

	_, err = service.Create(ctx, nil, open.Id, "hi")
	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))

	_, err = service.Create(ctx, u2, open.Id, "<script></script>")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestCommentListByPost(t *testing.T) {
	ctx := context.Background()
	draft := domain.Post{Id: 11, IsPublic: false, OwnerId: u1.Id, BlogId: publicBlog.Id}
	storage := (&MockContentStorage{}).withBlogs(publicBlog).withPosts(draft)
	storage.ListCommentsFunc = func(_ context.Context, f domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error) {
		assert.Equal(t, draft.Id, *f.PostId)
		return []domain.Comment{{Id: 1}}, 1, nil
	}
	service := NewComment(storage, stubSanitizer{})

	_, err := service.ListByPost(ctx, nil, draft.Id, domain.NewPagination(1, 10))
	assert.True(t, errors.IsNotFound(err))

	page, err := service.ListByPost(ctx, u1, draft.Id, domain.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestCommentUpdateDelete(t *testing.T) {
	ctx := context.Background()
	comment := domain.Comment{Id: 5, Text: "old", AuthorId: u2.Id, PostId: 10}
	storage := &MockContentStorage{
		CommentFunc: func(context.Context, domain.CommentId) (domain.Comment, error) { return comment, nil },
	}
	service := NewComment(storage, stubSanitizer{})

	updated, err := service.Update(ctx, u2, comment.Id, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Text)
	assert.True(t, updated.IsUpdated)

	_, err = service.Update(ctx, u1, comment.Id, "hijack")
	assert.True(t, errors.IsNotFound(err), "post owner cannot edit others' comments")

	assert.True(t, errors.IsNotFound(service.Delete(ctx, u1, comment.Id)))
	assert.NoError(t, service.Delete(ctx, u2, comment.Id))
}

func TestCommentListOwn(t *testing.T) {
	storage := &MockContentStorage{
		ListCommentsFunc: func(_ context.Context, f domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error) {
			assert.Equal(t, u2.Id, *f.AuthorId)
			assert.Nil(t, f.PostId)
			assert.True(t, f.PublicOnly, "own comments on hidden posts are not listed")
			return nil, 0, nil
		},
	}
	service := NewComment(storage, stubSanitizer{})

	page, err := service.ListOwn(context.Background(), u2, domain.NewPagination(3, 500))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxSize, page.Pagination.Size)
	assert.Equal(t, 1, page.TotalPages())
}
