package auth

import "time"

// AccessClaims carries the identity embedded in an access token.
type AccessClaims struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	DeviceID  string    `json:"device_id"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
