package chi

import (
	"net/http"
	"strings"
)

// AdminAuthMiddleware returns a middleware that validates admin Bearer keys.
// If adminKeys is empty, authentication is disabled (pass-through).
func AdminAuthMiddleware(adminKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(adminKeys))
	for _, k := range adminKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// No keys configured, auth disabled.
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
