package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// AuthRequired accepts verified access tokens and stores the caller's claims in the request context.
// It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			response.Unauthorized(w, "Invalid token")
			return
		}

		actor, err := jwt.ClaimsFromMap(claims)
		if err != nil {
			response.Unauthorized(w, "Invalid token claims")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), actor)))
	})
}

func WithClaims(ctx context.Context, claims jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller set by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return claims, ok
}
