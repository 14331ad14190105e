package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	require.NoError(t, err)

	tok, exp, err := m.Issue(context.Background(), "user-1", "a@b.com")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.NotEmpty(t, claims.SessionID)
}

func TestVerify_Expired(t *testing.T) {
	m, err := NewManager(testSecret, time.Minute)
	require.NoError(t, err)

	base := time.Now()
	m.now = func() time.Time { return base.Add(-2 * time.Hour) }
	tok, _, err := m.Issue(context.Background(), "user-1", "")
	require.NoError(t, err)

	m.now = func() time.Time { return base }
	_, err = m.Verify(context.Background(), tok)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	a, _ := NewManager(testSecret, time.Hour)
	b, _ := NewManager("ffffffffffffffffffffffffffffffff", time.Hour)

	tok, _, err := a.Issue(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, err = b.Verify(context.Background(), tok)
	assert.Error(t, err)
}

func TestRevoke(t *testing.T) {
	m, _ := NewManager(testSecret, time.Hour)
	ctx := context.Background()

	tok, exp, err := m.Issue(ctx, "user-1", "")
	require.NoError(t, err)
	claims, err := m.Verify(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims.SessionID, exp))
	_, err = m.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestNewManager_WeakSecret(t *testing.T) {
	_, err := NewManager("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
}
