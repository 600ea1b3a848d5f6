package middleware

import (
	"context"
	"net/http"

	"github.com/kozaktomas/sixpicks/internal/dump"
)

type contextKey string

const serviceContextKey contextKey = "dump-service"

// WithService is middleware that adds the dump service to the request context.
func WithService(svc *dump.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetServiceInContext(r.Context(), svc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetServiceInContext stores the dump service in ctx.
func SetServiceInContext(ctx context.Context, svc *dump.Service) context.Context {
	return context.WithValue(ctx, serviceContextKey, svc)
}

// GetServiceFromContext retrieves the dump service from the request context.
// Returns nil if no service is available.
func GetServiceFromContext(ctx context.Context) *dump.Service {
	svc, ok := ctx.Value(serviceContextKey).(*dump.Service)
	if !ok {
		return nil
	}
	return svc
}

// MustGetService retrieves the dump service from context.
// If not available, writes an error response and returns nil.
// Handlers should return immediately after receiving nil.
func MustGetService(ctx context.Context, w http.ResponseWriter) *dump.Service {
	svc := GetServiceFromContext(ctx)
	if svc == nil {
		http.Error(w, `{"error": "photo library not available"}`, http.StatusInternalServerError)
		return nil
	}
	return svc
}
