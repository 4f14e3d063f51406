package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	jwt_internal "github.com/itchan-dev/bloghub/shared/jwt"
	"github.com/itchan-dev/bloghub/shared/utils"
)

// Key to store the actor in the request context
type key int

const ActorKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires the ADMIN role
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the actor when a valid token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.extractActor(r)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var errNoToken = errors.Unauthorized("Please sign-in")

// extractActor reads "Authorization: Bearer <token>". The prefix is mandatory.
func (a *Auth) extractActor(r *http.Request) (*domain.Actor, error) {
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tokenString == "" {
		return nil, errNoToken
	}

	claims, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.Actor()
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.extractActor(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !actor.IsAdmin() {
				utils.WriteErrorAndStatusCode(w, errors.Forbidden("Access denied. Only for admin"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext returns nil for anonymous requests.
func GetActorFromContext(r *http.Request) *domain.Actor {
	actor, ok := r.Context().Value(ActorKey).(*domain.Actor)
	if !ok {
		return nil
	}
	return actor
}
