package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/evote/pkg/jwtx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer session token. The verified claims
// are placed on the request context; nothing about the session lives outside
// the request.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token rejected", "err", err)
				writeBearerError(w, "session token verification failed")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.With(ctx, "sub", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
