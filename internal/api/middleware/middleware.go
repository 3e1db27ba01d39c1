package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/mcoot/cardduel-go/internal/api/apierr"
	"github.com/mcoot/cardduel-go/internal/model"
)

type contextKey string

const connContextKey contextKey = "connection_id"

// Connections is the slice of the session registry the auth middleware
// needs: whether a connection id is currently registered
type Connections interface {
	Get(connID model.ConnectionID) (model.User, bool)
}

// Auth requires a registered connection id on the request.
// The id comes from the X-Connection-Id header or a Bearer token.
func Auth(conns Connections) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			connID := ExtractConnectionID(r)
			if connID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if _, ok := conns.Get(connID); !ok {
				apierr.WriteError(w, model.ErrUserNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), connContextKey, connID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractConnectionID pulls the connection id from the request
func ExtractConnectionID(r *http.Request) model.ConnectionID {
	if header := r.Header.Get("X-Connection-Id"); header != "" {
		return model.ConnectionID(header)
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return model.ConnectionID(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// GetConnectionID returns the authenticated connection id from the context
func GetConnectionID(ctx context.Context) model.ConnectionID {
	connID, _ := ctx.Value(connContextKey).(model.ConnectionID)
	return connID
}

// responseWriter wraps http.ResponseWriter to capture status and size
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Flush implements http.Flusher for SSE support
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Logging logs every HTTP request with status, size and duration
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Int("size", wrapped.size),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recovery turns panics into JSON 500 responses. Unexpected faults reach
// here uncaught; they are logged with the stack and never folded back into
// session state.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					apierr.WriteError(w, apierr.NewInternalError())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
