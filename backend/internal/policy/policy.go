// Package policy decides who may read or change blogs, posts, comments and
// user accounts. It is pure: callers load the resources, policy only looks at them.
//
// Ownership denials are reported as NotFound so private resources are
// indistinguishable from missing ones. Role denials are Forbidden.
package policy

import (
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
)

type Operation int

const (
	Read Operation = iota
	Update
	Delete
	// CreateChild adds a post to a blog or a comment to a post.
	CreateChild
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case CreateChild:
		return "create_child"
	default:
		return "unknown"
	}
}

type Resource interface {
	resourceName() string
}

type BlogResource struct {
	Blog domain.Blog
}

// PostResource needs the parent blog: a post is public only inside a public blog.
type PostResource struct {
	Post domain.Post
	Blog domain.Blog
}

type CommentResource struct {
	Comment domain.Comment
}

// UserResource is the target of an admin operation.
type UserResource struct {
	User domain.User
}

func (BlogResource) resourceName() string    { return "Blog" }
func (PostResource) resourceName() string    { return "Post" }
func (CommentResource) resourceName() string { return "Comment" }
func (UserResource) resourceName() string    { return "User" }

type Decision struct {
	Allowed bool
	err     *errors.Error
}

// Err is nil when the decision allows the operation.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.err
}

var permit = Decision{Allowed: true}

func deny(err *errors.Error) Decision {
	return Decision{err: err}
}

func notFound(r Resource) Decision {
	return deny(errors.NotFound("%s not found", r.resourceName()))
}

var needLogin = deny(errors.Unauthorized("Please sign-in"))

func Decide(actor *domain.Actor, resource Resource, op Operation) Decision {
	switch r := resource.(type) {
	case BlogResource:
		return decideBlog(actor, r, op)
	case PostResource:
		return decidePost(actor, r, op)
	case CommentResource:
		return decideComment(actor, r, op)
	case UserResource:
		return decideUser(actor, r, op)
	default:
		return deny(errors.Internal("unknown resource", nil))
	}
}

func decideBlog(actor *domain.Actor, r BlogResource, op Operation) Decision {
	owner := actor.Is(r.Blog.OwnerId)
	if op == Read {
		if r.Blog.IsPublic || owner {
			return permit
		}
		return notFound(r)
	}
	if actor == nil {
		return needLogin
	}
	if owner {
		return permit
	}
	return notFound(r)
}

// PostVisible is the public visibility rule shared with listing queries.
func PostVisible(post domain.Post, blog domain.Blog) bool {
	return post.IsPublic && blog.IsPublic
}

func decidePost(actor *domain.Actor, r PostResource, op Operation) Decision {
	owner := actor.Is(r.Post.OwnerId)
	readable := owner || PostVisible(r.Post, r.Blog)

	switch op {
	case Read:
		if readable {
			return permit
		}
		return notFound(r)
	case CreateChild:
		// Comments go on public posts only, the owner included.
		if actor == nil {
			return needLogin
		}
		if PostVisible(r.Post, r.Blog) {
			return permit
		}
		return notFound(r)
	default:
		if actor == nil {
			return needLogin
		}
		if owner {
			return permit
		}
		return notFound(r)
	}
}

func decideComment(actor *domain.Actor, r CommentResource, op Operation) Decision {
	if op == Read {
		return permit
	}
	if actor == nil {
		return needLogin
	}
	if actor.Is(r.Comment.AuthorId) {
		return permit
	}
	return notFound(r)
}

func decideUser(actor *domain.Actor, r UserResource, op Operation) Decision {
	if actor == nil {
		return needLogin
	}
	if !actor.IsAdmin() {
		return deny(errors.Forbidden("Access denied. Only for admin"))
	}
	if op != Read && r.User.IsAdmin() && !actor.Is(r.User.Id) {
		return deny(errors.Forbidden("An admin cannot %s another admin", op))
	}
	return permit
}
