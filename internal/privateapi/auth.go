package privateapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"embedhub/pkg/tokens"
)

var tokenFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "embedhub",
	Name:      "token_verification_failures_total",
	Help:      "Bearer token verification failures by kind.",
}, []string{"kind"})

type ctxClaimsKey struct{}

// requireToken authenticates the request from its bearer token and stores the
// verified claims in context. The three verification failures log distinct
// detail for operators but all come back to the caller as a 401.
func (a *App) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := tokens.ExtractFromHeader(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, msgMissingAuthHeader, http.StatusUnauthorized)
			return
		}
		claims, err := a.tokens.Verify(raw)
		if err != nil {
			switch {
			case errors.Is(err, tokens.ErrExpired):
				tokenFailures.WithLabelValues("expired").Inc()
				a.log.Infow("token rejected", "reason", "expired", "path", r.URL.Path)
				writeError(w, msgTokenExpired, http.StatusUnauthorized)
			case errors.Is(err, tokens.ErrInvalidSignature):
				tokenFailures.WithLabelValues("signature").Inc()
				a.log.Warnw("token rejected", "reason", "invalid signature", "path", r.URL.Path, "err", err)
				writeError(w, msgTokenInvalid, http.StatusUnauthorized)
			case errors.Is(err, tokens.ErrNotYetValid):
				tokenFailures.WithLabelValues("not_yet_valid").Inc()
				a.log.Warnw("token rejected", "reason", "not yet valid", "path", r.URL.Path)
				writeError(w, msgTokenInvalid, http.StatusUnauthorized)
			default:
				tokenFailures.WithLabelValues("malformed").Inc()
				a.log.Infow("token rejected", "reason", "malformed", "path", r.URL.Path, "err", err)
				writeError(w, msgTokenInvalid, http.StatusUnauthorized)
			}
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom returns the verified claims placed in context by requireToken.
// The empresa id in these claims is the only one the handlers may trust;
// client-supplied ids are never used for authorization.
func claimsFrom(ctx context.Context) tokens.Claims {
	if v := ctx.Value(ctxClaimsKey{}); v != nil {
		if c, ok := v.(tokens.Claims); ok {
			return c
		}
	}
	return tokens.Claims{}
}
