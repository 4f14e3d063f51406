package handler

import (
	"context"

	"github.com/itchan-dev/bloghub/backend/internal/service"
	"github.com/itchan-dev/bloghub/shared/config"
)

type PostRenderer interface {
	RenderPost(text string) string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth    service.AuthService
	account service.AccountService
	blog    service.BlogService
	post    service.PostService
	comment service.CommentService
	text    PostRenderer
	health  Pinger
	cfg     *config.Config
}

func New(
	auth service.AuthService,
	account service.AccountService,
	blog service.BlogService,
	post service.PostService,
	comment service.CommentService,
	text PostRenderer,
	health Pinger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		auth:    auth,
		account: account,
		blog:    blog,
		post:    post,
		comment: comment,
		text:    text,
		health:  health,
		cfg:     cfg,
	}
}
