package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/bloghub/backend/internal/setup"
	mw "github.com/itchan-dev/bloghub/shared/middleware"
	"github.com/itchan-dev/bloghub/shared/middleware/metrics"
)

// New creates the chi router with every API route.
// Rate limiters set with Use limit requests for all endpoints of that group combined.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chimw.Compress(5, "application/json"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeadersWithCSP(cfg.SecureHeaders, mw.APIContentSecurityPolicy))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	limits := deps.Limiters

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Endpoints sending email
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit(limits.ByIP, mw.GetIP))
				r.Post("/register", h.Register)
				r.With(mw.RateLimit(limits.EmailSending, mw.GetEmailFromBody)).
					Post("/confirm-email/resend-code", h.ResendConfirmationCode)
				r.With(mw.RateLimit(limits.EmailSending, mw.GetEmailFromBody)).
					Post("/forgotten-password/send-email-code", h.RequestPasswordCode)
			})

			// Code checks, stricter to prevent brute force
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit(limits.CodeCheck, mw.GetEmailFromBody))
				r.Use(mw.RateLimit(limits.ByIP, mw.GetIP))
				r.Put("/confirm-email", h.ConfirmEmail)
				r.Put("/forgotten-password/change-password", h.ChangePassword)
			})

			r.With(mw.RateLimit(limits.Login, mw.GetIP)).Post("/login", h.Login)
			r.Get("/profile-picture/{name}", h.ProfilePicture)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Get("/account-data", h.AccountData)
				r.Put("/update-account", h.UpdateAccount)
				r.Patch("/update-account", h.UpdateAccount)
				r.Delete("/delete-account", h.DeleteAccount)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(authMw.AdminOnly())
				r.Get("/list-all-users", h.ListUsers)
				r.Get("/find-by-email/{email}", h.FindUserByEmail)
				r.Delete("/delete-a-user/{userId}", h.DeleteUser)
				r.Put("/update-a-user/{userId}", h.UpdateUser)
				r.Patch("/update-a-user/{userId}", h.UpdateUser)
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/public", h.ListPublicBlogs)
			r.Get("/public/{id}", h.GetPublicBlog)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Post("/", h.CreateBlog)
				r.Get("/user", h.ListOwnBlogs)
				r.Get("/user/{id}", h.GetOwnBlog)
				r.Put("/{id}", h.UpdateBlog)
				r.Patch("/{id}", h.UpdateBlog)
				r.Delete("/{id}", h.DeleteBlog)
			})
		})

		r.Route("/post", func(r chi.Router) {
			r.Get("/public", h.ListPublicPosts)
			r.Get("/public/{id}", h.GetPublicPost)
			r.Get("/public/blog/{blogId}", h.ListPublicPostsByBlog)
			r.With(authMw.OptionalAuth()).Get("/cover-picture/{name}", h.CoverPicture)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.With(mw.RateLimit(limits.Writes, mw.GetActorID)).Post("/{blogId}", h.CreatePost)
				r.Get("/user", h.ListOwnPosts)
				r.Get("/user/{id}", h.GetOwnPost)
				r.Get("/user/blog/{blogId}", h.ListOwnPostsByBlog)
				r.Put("/{id}", h.UpdatePost)
				r.Patch("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})
		})

		r.Route("/comment", func(r chi.Router) {
			r.With(authMw.OptionalAuth()).Get("/post/{postId}", h.ListPostComments)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.With(mw.RateLimit(limits.Writes, mw.GetActorID)).Post("/{postId}", h.CreateComment)
				r.Get("/user", h.ListOwnComments)
				r.Put("/{id}", h.UpdateComment)
				r.Delete("/{id}", h.DeleteComment)
			})
		})
	})

	return r
}
