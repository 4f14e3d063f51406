package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/itchan-dev/bloghub/shared/logger"
	"github.com/itchan-dev/bloghub/shared/middleware/ratelimiter"
	"github.com/itchan-dev/bloghub/shared/utils"
)

// RateLimit rejects requests with 429 once the bucket for the request identity is empty.
// Admins are not limited. When the limiter backend fails the request is let through.
func RateLimit(rl ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor := GetActorFromContext(r); actor.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				// The handler reports the malformed request itself.
				next.ServeHTTP(w, r)
				return
			}
			allowed, err := rl.Allow(r.Context(), identity)
			if err != nil {
				logger.Log.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				utils.WriteStatus(w, http.StatusTooManyRequests, "Rate limit exceeded, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetActorID identifies authenticated requests by user id.
func GetActorID(r *http.Request) (string, error) {
	actor := GetActorFromContext(r)
	if actor == nil {
		return "", errors.New("can't get user id")
	}
	return fmt.Sprintf("user_%d", actor.Id), nil
}

// GetIP extracts the client IP from RemoteAddr only; forwarding headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return "ip_" + ip, nil
}

// GetEmailFromBody extracts the email from a JSON body and restores the body
// so the handler can read it again.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errors.New("invalid request body")
	}
	if data.Email == "" {
		return "", errors.New("email field is required")
	}
	return "email_" + strings.ToLower(strings.TrimSpace(data.Email)), nil
}
