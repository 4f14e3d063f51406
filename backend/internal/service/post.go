package service

import (
	"context"
	"io"

	"github.com/itchan-dev/bloghub/backend/internal/policy"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

type PostService interface {
	Create(ctx context.Context, actor *domain.Actor, data domain.PostCreationData) (domain.Post, error)
	GetPublic(ctx context.Context, id domain.PostId) (domain.Post, error)
	GetOwn(ctx context.Context, actor *domain.Actor, id domain.PostId) (domain.Post, error)
	ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListPublicByBlog(ctx context.Context, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	ListOwnByBlog(ctx context.Context, actor *domain.Actor, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error)
	Update(ctx context.Context, actor *domain.Actor, id domain.PostId, patch domain.PostPatch) (domain.Post, error)
	Delete(ctx context.Context, actor *domain.Actor, id domain.PostId) error
	CoverPicture(ctx context.Context, actor *domain.Actor, name domain.FileName) (io.ReadCloser, error)
}

type Post struct {
	storage PostStorage
	media   MediaStorage
}

func NewPost(storage PostStorage, media MediaStorage) *Post {
	return &Post{storage: storage, media: media}
}

// Create adds a post to one of the actor's blogs.
func (s *Post) Create(ctx context.Context, actor *domain.Actor, data domain.PostCreationData) (domain.Post, error) {
	if err := requireActor(actor); err != nil {
		return domain.Post{}, err
	}
	blog, err := s.storage.Blog(ctx, data.BlogId)
	if err != nil {
		return domain.Post{}, err
	}
	if err := policy.Decide(actor, policy.BlogResource{Blog: blog}, policy.CreateChild).Err(); err != nil {
		return domain.Post{}, err
	}

	cover, err := saveUpload(s.media, data.CoverImage)
	if err != nil {
		return domain.Post{}, err
	}
	post, err := s.storage.CreatePost(ctx, domain.Post{
		Title:      data.Title,
		Subtitle:   data.Subtitle,
		Text:       data.Text,
		CoverImage: cover,
		IsPublic:   data.IsPublic,
		OwnerId:    actor.Id,
		BlogId:     blog.Id,
	})
	if err != nil {
		releaseFile(s.media, cover)
		return domain.Post{}, err
	}
	logger.Log.Info("post created", "post_id", post.Id, "blog_id", blog.Id, "owner_id", actor.Id)
	return post, nil
}

// GetPublic is the anonymous view: the post and its blog must both be public.
func (s *Post) GetPublic(ctx context.Context, id domain.PostId) (domain.Post, error) {
	post, _, err := s.load(ctx, nil, id, policy.Read)
	return post, err
}

func (s *Post) GetOwn(ctx context.Context, actor *domain.Actor, id domain.PostId) (domain.Post, error) {
	if err := requireActor(actor); err != nil {
		return domain.Post{}, err
	}
	post, err := s.storage.Post(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if !actor.Is(post.OwnerId) {
		return domain.Post{}, errors.NotFound("Post not found")
	}
	return post, nil
}

func (s *Post) ListPublic(ctx context.Context, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	return s.list(ctx, domain.PostFilter{PublicOnly: true, Search: search}, p)
}

func (s *Post) ListPublicByBlog(ctx context.Context, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	blog, err := s.storage.Blog(ctx, blogId)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	if err := policy.Decide(nil, policy.BlogResource{Blog: blog}, policy.Read).Err(); err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return s.list(ctx, domain.PostFilter{BlogId: &blog.Id, PublicOnly: true, Search: search}, p)
}

func (s *Post) ListOwn(ctx context.Context, actor *domain.Actor, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if err := requireActor(actor); err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return s.list(ctx, domain.PostFilter{OwnerId: &actor.Id, Search: search}, p)
}

func (s *Post) ListOwnByBlog(ctx context.Context, actor *domain.Actor, blogId domain.BlogId, search string, p domain.Pagination) (domain.Page[domain.Post], error) {
	if err := requireActor(actor); err != nil {
		return domain.Page[domain.Post]{}, err
	}
	blog, err := s.storage.Blog(ctx, blogId)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	if !actor.Is(blog.OwnerId) {
		return domain.Page[domain.Post]{}, errors.NotFound("Blog not found")
	}
	return s.list(ctx, domain.PostFilter{OwnerId: &actor.Id, BlogId: &blog.Id, Search: search}, p)
}

func (s *Post) list(ctx context.Context, filter domain.PostFilter, p domain.Pagination) (domain.Page[domain.Post], error) {
	posts, total, err := s.storage.ListPosts(ctx, filter, p)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return newPage(posts, p, total), nil
}

// Update merges the patch. A new cover replaces the old one, which is
// released only after the post is written.
func (s *Post) Update(ctx context.Context, actor *domain.Actor, id domain.PostId, patch domain.PostPatch) (domain.Post, error) {
	post, _, err := s.load(ctx, actor, id, policy.Update)
	if err != nil {
		return domain.Post{}, err
	}

	oldCover := post.CoverImage
	newCover, err := saveUpload(s.media, patch.CoverImage)
	if err != nil {
		return domain.Post{}, err
	}
	patch.Apply(&post)
	if newCover != nil {
		post.CoverImage = newCover
	}

	if err := s.storage.UpdatePost(ctx, post); err != nil {
		releaseFile(s.media, newCover)
		return domain.Post{}, err
	}
	if newCover != nil {
		releaseFile(s.media, oldCover)
	}
	return post, nil
}

func (s *Post) Delete(ctx context.Context, actor *domain.Actor, id domain.PostId) error {
	post, _, err := s.load(ctx, actor, id, policy.Delete)
	if err != nil {
		return err
	}
	if err := s.storage.DeletePost(ctx, id); err != nil {
		return err
	}
	releaseFile(s.media, post.CoverImage)
	return nil
}

// CoverPicture releases the bytes only to actors who may read the post.
func (s *Post) CoverPicture(ctx context.Context, actor *domain.Actor, name domain.FileName) (io.ReadCloser, error) {
	post, err := s.storage.PostByCover(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("File not found")
		}
		return nil, err
	}
	if _, _, err := s.load(ctx, actor, post.Id, policy.Read); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("File not found")
		}
		return nil, err
	}
	return s.media.Read(name)
}

func (s *Post) load(ctx context.Context, actor *domain.Actor, id domain.PostId, op policy.Operation) (domain.Post, domain.Blog, error) {
	post, err := s.storage.Post(ctx, id)
	if err != nil {
		return domain.Post{}, domain.Blog{}, err
	}
	blog, err := s.storage.Blog(ctx, post.BlogId)
	if err != nil {
		return domain.Post{}, domain.Blog{}, err
	}
	if err := policy.Decide(actor, policy.PostResource{Post: post, Blog: blog}, op).Err(); err != nil {
		return domain.Post{}, domain.Blog{}, err
	}
	return post, blog, nil
}
