package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/itchan-dev/bloghub/shared/logger"
)

// RequestLogger logs one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if actor := GetActorFromContext(r); actor != nil {
			attrs = append(attrs, "user_id", actor.Id)
		}
		switch {
		case status >= 500:
			logger.Log.Error("http request", attrs...)
		case status >= 400:
			logger.Log.Warn("http request", attrs...)
		default:
			logger.Log.Info("http request", attrs...)
		}
	})
}
