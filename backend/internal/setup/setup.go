package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itchan-dev/bloghub/backend/internal/handler"
	"github.com/itchan-dev/bloghub/backend/internal/service"
	"github.com/itchan-dev/bloghub/backend/internal/storage/fs"
	"github.com/itchan-dev/bloghub/backend/internal/storage/pg"
	"github.com/itchan-dev/bloghub/backend/internal/utils/email"
	"github.com/itchan-dev/bloghub/backend/internal/utils/markdown"
	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/crypto"
	"github.com/itchan-dev/bloghub/shared/jwt"
	"github.com/itchan-dev/bloghub/shared/logger"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	rl "github.com/itchan-dev/bloghub/shared/middleware/ratelimiter"
)

// Limiters groups the buckets protecting the auth and content creation endpoints.
type Limiters struct {
	EmailSending rl.Limiter // register, resend and reset codes, per email
	CodeCheck    rl.Limiter // confirmation and reset code attempts, per email
	ByIP         rl.Limiter
	Login        rl.Limiter // per IP
	Writes       rl.Limiter // post and comment creation, per user

	stop []func()
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Redis          *redis.Client
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Limiters       Limiters
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to open upload dir: %w", err)
	}

	var rdb *redis.Client
	if cfg.Public.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Public.RedisAddr,
			Password: cfg.Private.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Limiters fail open, so a missing redis only weakens rate limiting.
			logger.Log.Warn("redis is unreachable", "addr", cfg.Public.RedisAddr, "error", err)
		}
	}

	mailer := email.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	hasher := crypto.NewPasswordHasher(cfg.Private.PasswordPepper)
	text := markdown.New()

	auth := service.NewAuth(storage, media, mailer, jwtService, hasher, &cfg.Public)
	account := service.NewAccount(storage, media, mailer, hasher)
	blog := service.NewBlog(storage, media)
	post := service.NewPost(storage, media)
	comment := service.NewComment(storage, text)

	h := handler.New(auth, account, blog, post, comment, text, storage, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Redis:          rdb,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(jwtService),
		Limiters:       newLimiters(rdb),
	}, nil
}

func newLimiters(rdb *redis.Client) Limiters {
	var l Limiters
	build := func(prefix string, rate, burst float64) rl.Limiter {
		if rdb != nil {
			return rl.NewRedis(rdb, "ratelimit:"+prefix+":", rate, burst)
		}
		limiter := rl.New(rate, burst, time.Hour)
		l.stop = append(l.stop, limiter.Stop)
		return limiter
	}

	l.EmailSending = build("email", 1.0/60, 3)
	l.CodeCheck = build("code", 5.0/600, 5)
	l.ByIP = build("ip", 1, 10)
	l.Login = build("login", 1, 5)
	l.Writes = build("write", 1, 5)
	return l
}

// Cleanup releases connections and limiter timers.
func (d *Dependencies) Cleanup() {
	for _, stop := range d.Limiters.stop {
		stop()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Log.Error("failed to close redis client", "error", err)
		}
	}
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close database", "error", err)
	}
}
