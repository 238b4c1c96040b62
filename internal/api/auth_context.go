package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/auth"
	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// accountIDKey is the context key for the authenticated account ID.
const accountIDKey ctxKey = "accountID"

// GetAccountID returns the authenticated account ID from context.
// Returns 401 error if the request carries no valid token.
func GetAccountID(ctx context.Context) (string, error) {
	accountID, ok := ctx.Value(accountIDKey).(string)
	if !ok || accountID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return accountID, nil
}

// setAccountID stores the account ID in context.
func setAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// authMiddleware returns a middleware that validates bearer tokens and
// stores the account ID in context. A missing or invalid token continues
// without an account; handlers use GetAccountID to check authentication.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(authHeader[7:])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := setAccountID(r.Context(), claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccount returns the authenticated account, fetched fresh from the
// store so role and premium changes take effect without a new token.
func (s *Server) RequireAccount(ctx context.Context) (*domain.Account, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.services.Account.GetAccount(ctx, accountID)
	if err != nil {
		return nil, huma.Error401Unauthorized("Account not found")
	}
	return account, nil
}

// RequireAdmin validates the account is authenticated and may manage the
// catalog. Returns the account if successful.
func (s *Server) RequireAdmin(ctx context.Context) (*domain.Account, error) {
	account, err := s.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	if !account.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return account, nil
}
