package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

type contextKey string

const ctxUser contextKey = "user"

// UserFromContext returns the session user seeded by RequireSession.
func UserFromContext(ctx context.Context) *types.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*types.User); ok {
		return v
	}
	return nil
}

// RequireSession rejects the request with UNAUTHORIZED unless a user session
// is stored, and seeds the request context with that user.
func RequireSession(sessions session.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.GetUser(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if user == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			if logg != nil {
				ctx = logg.WithUserEmail(ctx, user.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
