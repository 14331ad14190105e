package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string

	// SessionID es el jti del token; se usa para revocar en sign-out.
	SessionID string
	ExpiresAt time.Time
}
