package auth

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

type ctxKey struct{}

// WithUser returns a context carrying the email of the authenticated owner.
func WithUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, email)
}

// UserFromContext returns the authenticated owner email, or "".
func UserFromContext(ctx context.Context) string {
	email, _ := ctx.Value(ctxKey{}).(string)
	return email
}

// Identify resolves a bearer key to its owner and stores the owner in the
// request context. Requests without a key pass through anonymously. A key
// that does not validate is answered with 401, and a client that keeps
// presenting bad keys is answered with 429.
func Identify(keys *APIKeyStore, limiter *FailureLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if limiter.Blocked(ip) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || key == "" {
			limiter.Fail(ip)
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		email, err := keys.Validate(key)
		if err != nil {
			slog.Error("validating api key", "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if email == "" {
			limiter.Fail(ip)
			slog.Warn("invalid api key", "ip", ip)
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), email)))
	})
}

// RequireUser rejects requests that Identify left anonymous.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == "" {
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
