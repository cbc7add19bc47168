package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/response"
)

// TokenValidator is satisfied by *auth.Manager.
type TokenValidator interface {
	ValidateToken(raw string) (*auth.Claims, error)
}

// Authenticate requires a bearer token. A missing token answers 401, a token
// that fails verification answers 403. Verified claims are available
// downstream via auth.ClaimsFrom.
func Authenticate(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				response.Unauthorized(w, "Access token required")
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("bearer token rejected", "error", err)
				response.Forbidden(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
