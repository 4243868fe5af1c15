package middleware

import (
	"net/http"
	"strings"

	"github.com/obinnaeze/renthaven-backend/api/responses"
	pkgauth "github.com/obinnaeze/renthaven-backend/pkg/auth"
	"github.com/obinnaeze/renthaven-backend/pkg/auth/session"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// user id and account type. The type comes from its own store, never from
// the token, so mid-session changes are visible immediately.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, types AccountTypeReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())

			if types != nil {
				accountType, err := types.Get(ctx, claims.UserID.String())
				if err == nil {
					ctx = WithAccountType(ctx, accountType)
				}
			}

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
