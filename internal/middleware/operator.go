package middleware

import (
	"net/http"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/handler/api"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// WithOperator lets only the listed users through. It runs after WithAuth;
// with no operators configured every request is refused.
func WithOperator(operators []uuid.UUID) func(http.Handler) http.Handler {
	allowed := make(map[uuid.UUID]struct{}, len(operators))
	for _, id := range operators {
		allowed[id] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := api_context.AuthUserIDFromContext(r.Context())
			if !ok {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if _, ok := allowed[userID]; !ok {
				api.WriteError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
