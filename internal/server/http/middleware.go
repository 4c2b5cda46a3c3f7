// Package http provides the HTTP surface of the machine vault: routing,
// authentication middleware, and request handlers.
package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/response"
	"github.com/kmalygin/machine-vault/internal/token"
)

// Gate messages, returned as failure envelopes by the authentication middleware.
const (
	MsgTokenNotProvided = "Authentication token not provided"
	MsgTokenInvalid     = "Authentication token is invalid"
)

// Identity is the caller identity resolved from a verified session token.
type Identity struct {
	Email string
	Name  string
}

type ctxKey string

const identityKey ctxKey = "mv.identity"

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the resolved identity from the context.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Authenticate guards protected routes. A missing bearer credential is 401,
// a credential that fails verification is 403; otherwise the resolved
// identity is attached to the request context and the call proceeds. This is
// the only path by which downstream services learn who is calling.
func Authenticate(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, raw, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || raw == "" {
				response.Failure[any](MsgTokenNotProvided, http.StatusUnauthorized).Write(w)
				return
			}
			claims, err := tokens.Verify(raw)
			if err != nil {
				response.Failure[any](MsgTokenInvalid, http.StatusForbidden).Write(w)
				return
			}
			ctx := WithIdentity(r.Context(), Identity{Email: claims.Email, Name: claims.Name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireJSON rejects request bodies that are not application/json. Requests
// without a body pass through. The rejection is an envelope, like every other
// exit path of the API.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}
		ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
		if !strings.EqualFold(strings.TrimSpace(ct), "application/json") {
			response.Failure[any]("Content-Type must be application/json", http.StatusUnsupportedMediaType).Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithRequestLogging logs every request with status and latency.
func WithRequestLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover converts handler panics into a 500 envelope.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					response.Failure[any]("Internal server error", http.StatusInternalServerError).Write(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
