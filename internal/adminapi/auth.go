package adminapi

import (
	"crypto/subtle"
	"net/http"

	"embedhub/pkg/tokens"
)

// adminAuth validates the static admin bearer token. With no token configured
// the API stays open in dev only; anywhere else that is a misconfiguration
// and every request is refused.
func (a *App) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.APIToken == "" {
			if a.cfg.Env == "dev" {
				next.ServeHTTP(w, r)
				return
			}
			a.log.Errorw("admin request refused: ADMIN_API_TOKEN not configured")
			writeError(w, "admin auth not configured", http.StatusInternalServerError)
			return
		}
		presented, ok := tokens.ExtractFromHeader(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, "missing bearer", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(a.cfg.APIToken)) != 1 {
			writeError(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
