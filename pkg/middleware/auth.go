package middleware

import (
	"net/http"

	httputil "solodesk/pkg/http"
	"solodesk/pkg/identity"
	"solodesk/pkg/logger"
)

// Authentication resolves the caller's identity through the authentication
// collaborator and stores it on the request context. Requests it cannot
// attribute are rejected before reaching any handler.
func Authentication(auth identity.Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := auth.CurrentIdentity(r)
			if err != nil {
				log.Warn("Unauthenticated request",
					"request_id", requestIDFrom(r),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}
