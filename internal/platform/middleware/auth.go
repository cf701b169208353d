package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/httputil"
	"confcentral/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the identity claims the middleware needs.
type JWTClaims struct {
	UserID string
	Email  string
	Name   string
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// otherwise puts the caller's identity on the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "Authorization required"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "Invalid or expired token"))
				return
			}

			profileID, err := domain.ParseProfileID(claims.UserID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - unusable user id",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithIdentity(ctx, requestcontext.Identity{
				ProfileID:   profileID,
				Email:       claims.Email,
				DisplayName: claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
