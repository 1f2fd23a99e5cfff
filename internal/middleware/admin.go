package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// AdminToken guards the raw data browser with a static token, presented as
// either an x-admin-token header or an admin_token cookie. An empty
// configured token leaves the browser open, which is the local-dev default.
func AdminToken(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next(w, r)
				return
			}

			presented := r.Header.Get("x-admin-token")
			if presented == "" {
				if c, err := r.Cookie("admin_token"); err == nil {
					presented = c.Value
				}
			}

			// Constant-time compare; the token is a shared secret.
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				slog.Warn("admin token rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}
