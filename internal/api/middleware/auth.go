package middleware

import (
	"context"
	"errors"
	"net/http"

	"authgate/internal/common"
	"authgate/internal/common/security"
	"authgate/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

type contextKey string

const IdentityCtxKey contextKey = "identity"

// TokenCookieName is the cookie checked when no bearer header is present.
const TokenCookieName = "token"

// Authenticator guards a route with a bearer token read from the
// Authorization header or, failing that, the "token" cookie. Rejections are
// 401 with one of two fixed messages; the actual reason is only logged.
func Authenticator(tokens *security.TokenAuth, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("guard")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := tokens.VerifyRequest(r, jwtauth.TokenFromHeader, TokenFromCookie)
			if err != nil {
				if !errors.Is(err, common.ErrNoToken) {
					logger.Warn("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				}
				common.RespondWithDomainError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}

// Helper to get the authenticated identity from context
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(model.Identity)
	return identity, ok
}
