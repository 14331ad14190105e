package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens de sesión para un usuario ya autenticado.
type TokenIssuer interface {
	Issue(ctx context.Context, userID, email string) (token string, expiresAt time.Time, err error)
}

// TokenRevoker invalida una sesión antes de su expiración.
type TokenRevoker interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
}
