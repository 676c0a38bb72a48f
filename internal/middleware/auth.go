package middleware

import (
	"net/http"

	"github.com/ayush/social-media-api/internal/auth"
)

// RequireAuth is middleware that validates the session cookie and
// injects the account id into the request context.
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			accountID, ok, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || !ok {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithAccountID(r.Context(), accountID)))
		})
	}
}
