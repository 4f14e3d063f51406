package service

import (
	"context"

	"github.com/itchan-dev/bloghub/backend/internal/policy"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
)

type CommentService interface {
	Create(ctx context.Context, actor *domain.Actor, postId domain.PostId, text string) (domain.Comment, error)
	ListByPost(ctx context.Context, actor *domain.Actor, postId domain.PostId, p domain.Pagination) (domain.Page[domain.Comment], error)
	ListOwn(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.Comment], error)
	Update(ctx context.Context, actor *domain.Actor, id domain.CommentId, text string) (domain.Comment, error)
	Delete(ctx context.Context, actor *domain.Actor, id domain.CommentId) error
}

type Comment struct {
	storage   CommentStorage
	sanitizer TextSanitizer
}

func NewComment(storage CommentStorage, sanitizer TextSanitizer) *Comment {
	return &Comment{storage: storage, sanitizer: sanitizer}
}

// Create comments on a public post in a public blog.
func (c *Comment) Create(ctx context.Context, actor *domain.Actor, postId domain.PostId, text string) (domain.Comment, error) {
	if err := requireActor(actor); err != nil {
		return domain.Comment{}, err
	}
	if err := c.checkPost(ctx, actor, postId, policy.CreateChild); err != nil {
		return domain.Comment{}, err
	}
	text, err := c.clean(text)
	if err != nil {
		return domain.Comment{}, err
	}
	return c.storage.CreateComment(ctx, domain.CommentCreationData{Text: text, AuthorId: actor.Id, PostId: postId})
}

func (c *Comment) ListByPost(ctx context.Context, actor *domain.Actor, postId domain.PostId, p domain.Pagination) (domain.Page[domain.Comment], error) {
	if err := c.checkPost(ctx, actor, postId, policy.Read); err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return c.list(ctx, domain.CommentFilter{PostId: &postId}, p)
}

func (c *Comment) ListOwn(ctx context.Context, actor *domain.Actor, p domain.Pagination) (domain.Page[domain.Comment], error) {
	if err := requireActor(actor); err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return c.list(ctx, domain.CommentFilter{AuthorId: &actor.Id, PublicOnly: true}, p)
}

func (c *Comment) list(ctx context.Context, filter domain.CommentFilter, p domain.Pagination) (domain.Page[domain.Comment], error) {
	comments, total, err := c.storage.ListComments(ctx, filter, p)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return newPage(comments, p, total), nil
}

func (c *Comment) Update(ctx context.Context, actor *domain.Actor, id domain.CommentId, text string) (domain.Comment, error) {
	comment, err := c.load(ctx, actor, id, policy.Update)
	if err != nil {
		return domain.Comment{}, err
	}
	comment.Text, err = c.clean(text)
	if err != nil {
		return domain.Comment{}, err
	}
	comment.IsUpdated = true
	if err := c.storage.UpdateComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (c *Comment) Delete(ctx context.Context, actor *domain.Actor, id domain.CommentId) error {
	if _, err := c.load(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	return c.storage.DeleteComment(ctx, id)
}

func (c *Comment) load(ctx context.Context, actor *domain.Actor, id domain.CommentId, op policy.Operation) (domain.Comment, error) {
	comment, err := c.storage.Comment(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := policy.Decide(actor, policy.CommentResource{Comment: comment}, op).Err(); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (c *Comment) checkPost(ctx context.Context, actor *domain.Actor, postId domain.PostId, op policy.Operation) error {
	post, err := c.storage.Post(ctx, postId)
	if err != nil {
		return err
	}
	blog, err := c.storage.Blog(ctx, post.BlogId)
	if err != nil {
		return err
	}
	return policy.Decide(actor, policy.PostResource{Post: post, Blog: blog}, op).Err()
}

// clean strips markup; text that is empty afterwards is rejected.
func (c *Comment) clean(text string) (string, error) {
	text = c.sanitizer.SanitizeComment(text)
	if text == "" {
		return "", errors.Validation("Comment text is empty")
	}
	return text, nil
}
