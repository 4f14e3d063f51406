package service

import (
	"context"

	"github.com/itchan-dev/bloghub/backend/internal/policy"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

type BlogService interface {
	Create(ctx context.Context, actor *domain.Actor, data domain.BlogCreationData) (domain.Blog, error)
	GetPublic(ctx context.Context, id domain.BlogId) (domain.Blog, error)
	GetOwn(ctx context.Context, actor *domain.Actor, id domain.BlogId) (domain.Blog, error)
	ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Blog], error)
	ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Blog], error)
	Update(ctx context.Context, actor *domain.Actor, id domain.BlogId, patch domain.BlogPatch) (domain.Blog, error)
	Delete(ctx context.Context, actor *domain.Actor, id domain.BlogId) error
}

type Blog struct {
	storage BlogStorage
	media   MediaStorage
}

func NewBlog(storage BlogStorage, media MediaStorage) *Blog {
	return &Blog{storage: storage, media: media}
}

func (b *Blog) Create(ctx context.Context, actor *domain.Actor, data domain.BlogCreationData) (domain.Blog, error) {
	if err := requireActor(actor); err != nil {
		return domain.Blog{}, err
	}
	data.OwnerId = actor.Id
	blog, err := b.storage.CreateBlog(ctx, data)
	if err != nil {
		return domain.Blog{}, err
	}
	logger.Log.Info("blog created", "blog_id", blog.Id, "owner_id", actor.Id)
	return blog, nil
}

// GetPublic is the anonymous view: private blogs are NotFound for everyone.
func (b *Blog) GetPublic(ctx context.Context, id domain.BlogId) (domain.Blog, error) {
	return b.load(ctx, nil, id, policy.Read)
}

// GetOwn returns a blog of the actor, whatever its visibility.
func (b *Blog) GetOwn(ctx context.Context, actor *domain.Actor, id domain.BlogId) (domain.Blog, error) {
	if err := requireActor(actor); err != nil {
		return domain.Blog{}, err
	}
	blog, err := b.storage.Blog(ctx, id)
	if err != nil {
		return domain.Blog{}, err
	}
	if !actor.Is(blog.OwnerId) {
		return domain.Blog{}, errors.NotFound("Blog not found")
	}
	return blog, nil
}

func (b *Blog) ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Blog], error) {
	return b.list(ctx, domain.BlogFilter{PublicOnly: true, Search: search}, p)
}

func (b *Blog) ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Blog], error) {
	if err := requireActor(actor); err != nil {
		return domain.Page[domain.Blog]{}, err
	}
	return b.list(ctx, domain.BlogFilter{OwnerId: &actor.Id, Search: search}, p)
}

func (b *Blog) list(ctx context.Context, filter domain.BlogFilter, p domain.Pagination) (domain.Page[domain.Blog], error) {
	blogs, total, err := b.storage.ListBlogs(ctx, filter, p)
	if err != nil {
		return domain.Page[domain.Blog]{}, err
	}
	return newPage(blogs, p, total), nil
}

func (b *Blog) Update(ctx context.Context, actor *domain.Actor, id domain.BlogId, patch domain.BlogPatch) (domain.Blog, error) {
	blog, err := b.load(ctx, actor, id, policy.Update)
	if err != nil {
		return domain.Blog{}, err
	}
	patch.Apply(&blog)
	if err := b.storage.UpdateBlog(ctx, blog); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}

// Delete removes the blog with its posts and comments and releases their covers.
func (b *Blog) Delete(ctx context.Context, actor *domain.Actor, id domain.BlogId) error {
	if _, err := b.load(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	released, err := b.storage.DeleteBlog(ctx, id)
	if err != nil {
		return err
	}
	releaseFiles(b.media, released...)
	return nil
}

func (b *Blog) load(ctx context.Context, actor *domain.Actor, id domain.BlogId, op policy.Operation) (domain.Blog, error) {
	blog, err := b.storage.Blog(ctx, id)
	if err != nil {
		return domain.Blog{}, err
	}
	if err := policy.Decide(actor, policy.BlogResource{Blog: blog}, op).Err(); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}
