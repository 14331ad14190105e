package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testRepo struct {
	byID map[string]Account
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Account{}} }

func (r *testRepo) Create(_ context.Context, a Account) error {
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return apperr.Conflict("email already registered")
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(_ context.Context, userID, _ string) (string, time.Time, error) {
	return "tok-" + userID, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), nil
}

type fakeRevoker struct{ revoked []string }

func (f *fakeRevoker) Revoke(_ context.Context, sessionID string, _ time.Time) error {
	f.revoked = append(f.revoked, sessionID)
	return nil
}

type fakeBootstrap struct {
	calls []string
	err   error
}

func (f *fakeBootstrap) EnsureFirstSuperadmin(_ context.Context, userID string) (bool, error) {
	f.calls = append(f.calls, userID)
	return f.err == nil, f.err
}

func TestSignUp_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), fakeIssuer{}, nil, WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	cases := []struct {
		name  string
		in    SignUpInput
		isErr error
	}{
		{"missing email", SignUpInput{Password: "longenough"}, ErrInvalidInput},
		{"bad email", SignUpInput{Email: "nope", Password: "longenough"}, ErrInvalidInput},
		{"short password", SignUpInput{Email: "a@b.co", Password: "short"}, ErrInvalidInput},
		{"long password", SignUpInput{Email: "a@b.co", Password: string(make([]byte, 73))}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tc.in)
			assert.ErrorIs(t, err, tc.isErr)
		})
	}

	a, err := svc.SignUp(ctx, SignUpInput{Email: "  Vet@Example.COM ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "vet@example.com", a.Email)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "vet@example.com", Password: "password2"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestSignIn_BootstrapsAndToleratesFailure(t *testing.T) {
	boot := &fakeBootstrap{}
	svc := NewService(newTestRepo(), fakeIssuer{}, nil, WithBcryptCost(bcrypt.MinCost), WithBootstrapper(boot))
	ctx := context.Background()

	a, err := svc.SignUp(ctx, SignUpInput{Email: "vet@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "vet@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "ghost@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := svc.SignIn(ctx, "VET@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "tok-"+a.ID, sess.Token)
	assert.Equal(t, []string{a.ID}, boot.calls)

	boot.err = errors.New("db down")
	_, err = svc.SignIn(ctx, "vet@example.com", "password1")
	require.NoError(t, err)
}

func TestSignOut_RevokesSession(t *testing.T) {
	rev := &fakeRevoker{}
	svc := NewService(newTestRepo(), fakeIssuer{}, rev)

	require.NoError(t, svc.SignOut(context.Background(), auth.Claims{UserID: "u", SessionID: "jti-1"}))
	require.NoError(t, svc.SignOut(context.Background(), auth.Claims{UserID: "u"}))
	assert.Equal(t, []string{"jti-1"}, rev.revoked)
}
