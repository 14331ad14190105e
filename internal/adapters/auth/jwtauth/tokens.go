// Package jwtauth emite y verifica tokens de sesión HS256 con golang-jwt.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"vet-hospital/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenRevoked = errors.New("token revoked")
	ErrWeakSecret   = errors.New("jwt secret must be at least 32 bytes")
)

const issuer = "vet-hospital"

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager implementa auth.TokenIssuer, auth.TokenRevoker y auth.AuthVerifier.
// La lista de revocados vive en memoria y se limpia al vencer cada token.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

var (
	_ auth.TokenIssuer  = (*Manager)(nil)
	_ auth.TokenRevoker = (*Manager)(nil)
	_ auth.AuthVerifier = (*Manager)(nil)
)

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: map[string]time.Time{},
	}, nil
}

func (m *Manager) Issue(ctx context.Context, userID, email string) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if claims.Subject == "" {
		return auth.Claims{}, errors.New("token missing subject")
	}
	if m.isRevoked(claims.ID) {
		return auth.Claims{}, ErrTokenRevoked
	}

	out := auth.Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		SessionID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

func (m *Manager) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrTokenEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	m.revoked[sessionID] = until
	return nil
}

func (m *Manager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	_, ok := m.revoked[id]
	return ok
}

// prune requiere m.mu tomado.
func (m *Manager) prune() {
	now := m.now()
	for id, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, id)
		}
	}
}
