package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-hospital/internal/ports/auth"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "u-1", Email: "vet@example.com"}, nil
}

func TestAuthContext(t *testing.T) {
	cases := []struct {
		name     string
		verifier auth.AuthVerifier
		header   string
		value    string
		wantUser string
	}{
		{"dev header", nil, "X-Debug-User-ID", "dev-1", "dev-1"},
		{"dev no header", nil, "", "", ""},
		{"bearer ok", fakeVerifier{}, "Authorization", "Bearer good", "u-1"},
		{"bearer bad", fakeVerifier{}, "Authorization", "Bearer nope", ""},
		{"debug header ignored with verifier", fakeVerifier{}, "X-Debug-User-ID", "dev-1", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			h := AuthContext(tc.verifier)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				if c, ok := GetClaims(r.Context()); ok {
					got = c.UserID
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tc.wantUser {
				t.Fatalf("expected user %q, got %q", tc.wantUser, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	if got := BearerToken("bearer abc"); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := BearerToken("Basic abc"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
