package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// Principal is the authenticated caller as established by the host's identity
// layer. Authorization itself (capabilities, roles) stays with the host; this
// service only needs to know who is acting and whether they are an operator.
type Principal struct {
	UserID int64
	Admin  bool
}

// Authenticator resolves the principal for a request. Implementations belong
// to the embedding deployment (session validation, gateway headers, mTLS).
type Authenticator interface {
	Authenticate(r *http.Request) (Principal, error)
}

type contextKeyPrincipal struct{}

var ctxKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Exposed for
// handler tests.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// RequireAuth rejects requests the authenticator cannot resolve and stores the
// principal in the request context for handlers.
func RequireAuth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.Authenticate(r)
			if err != nil {
				log.WarnContext(r.Context(), "authentication failed",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin gates operator endpoints on the principal's admin flag.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		if !ok || !p.Admin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
