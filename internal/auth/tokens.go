package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	apperrors "github.com/manhuaapp/manhua-server/internal/errors"
)

const (
	tokenIssuer   = "manhua-server"
	tokenAudience = "manhua-client"
)

// TokenService issues and verifies PASETO v4.local access tokens. Tokens are
// encrypted with a symmetric key that never leaves this host, which is all
// the reach a single-device install needs.
type TokenService struct {
	key            paseto.V4SymmetricKey
	accessDuration time.Duration
}

// NewTokenService creates a token service from 32 bytes of key material.
func NewTokenService(keyMaterial []byte, accessDuration time.Duration) (*TokenService, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("invalid token key: %w", err)
	}
	return &TokenService{
		key:            key,
		accessDuration: accessDuration,
	}, nil
}

// GenerateAccessToken creates a signed access token for the given identity.
func (ts *TokenService) GenerateAccessToken(accountID, email, role, deviceID string) (string, error) {
	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ts.accessDuration))
	token.SetSubject(accountID)
	token.SetString("email", email)
	token.SetString("role", role)
	token.SetString("device_id", deviceID)

	return token.V4Encrypt(ts.key, nil), nil
}

// VerifyAccessToken parses and validates an access token, returning its
// claims. Expired or malformed tokens fail with an unauthorized error.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(ts.key, tokenString, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTokenExpired, "token verification failed")
	}

	claims := &AccessClaims{}
	if claims.AccountID, err = token.GetSubject(); err != nil {
		return nil, apperrors.Unauthorized("token missing subject")
	}
	if claims.Email, err = token.GetString("email"); err != nil {
		return nil, apperrors.Unauthorized("token missing email claim")
	}
	if claims.Role, err = token.GetString("role"); err != nil {
		return nil, apperrors.Unauthorized("token missing role claim")
	}
	if claims.DeviceID, err = token.GetString("device_id"); err != nil {
		return nil, apperrors.Unauthorized("token missing device claim")
	}
	if claims.IssuedAt, err = token.GetIssuedAt(); err != nil {
		return nil, apperrors.Unauthorized("token missing issued-at")
	}
	if claims.ExpiresAt, err = token.GetExpiration(); err != nil {
		return nil, apperrors.Unauthorized("token missing expiration")
	}

	return claims, nil
}
