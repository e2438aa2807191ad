// Package auth resolves the caller of a pool operation to a stable account
// identifier. The pool engine never authenticates by itself; it trusts the
// account ID this middleware places in the request context.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tanda/pkg/domain"
	request "tanda/pkg/platform/middleware/request"
)

// TokenValidator validates a bearer token and yields the claims we care about.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the identity fields extracted from a validated token.
type Claims struct {
	AccountID string
}

type contextKeyAccountID struct{}

// GetAccountID retrieves the authenticated caller from the context. Returns
// the nil AccountID when the request did not pass through RequireAuth.
func GetAccountID(ctx context.Context) domain.AccountID {
	accountID, ok := ctx.Value(contextKeyAccountID{}).(domain.AccountID)
	if !ok {
		return domain.AccountID{}
	}
	return accountID
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved account ID in the context for handlers.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			accountID, err := domain.ParseAccountID(claims.AccountID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed account claim",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyAccountID{}, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
