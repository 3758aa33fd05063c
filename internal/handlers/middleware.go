package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/handlers/response"
	"gitlab.com/codepad.net/internal/static/errs"
)

type ownerKey struct{}

// OwnerFromContext returns the authenticated user, or the anonymous owner
func OwnerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(ownerKey{}).(string); ok && owner != "" {
		return owner
	}
	return domain.AnonymousOwner
}

// WithOwner stores the run owner in ctx
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

type MiddlewareProvider struct {
	jwtService primary.JWTService
	logger     primary.Logger
}

func NewMiddlewareProvider(jwtService primary.JWTService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
		logger:     logger,
	}
}

// JWTMiddleware rejects requests without a valid HS256 token and exposes its username as run owner
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, http.StatusUnauthorized, errs.MissingToken.Error())
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		valid, err := m.jwtService.VerifyTokenHMAC(r.Context(), tokenString, jwt.SigningMethodHS256.Name)
		if err != nil || !valid {
			m.logger.Debug("Rejected token", "error", err)
			response.Error(w, http.StatusUnauthorized, errs.InvalidToken.Error())
			return
		}

		payload, err := m.jwtService.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, errs.InvalidToken.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), payload.Username)))
	})
}
