package middleware

import (
	"net/http"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/auth"
	"github.com/fhuszti/assets-ms-go/internal/handler/api"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

// WithAuth requires a valid bearer token and puts its user id in the request context.
func WithAuth(v port.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.BearerToken(r)
			if raw == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}
			userID, err := v.ValidateToken(raw)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", err)
				return
			}

			ctx := api_context.WithAuthUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
