package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/ports/auth"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, apperr.ErrUnauthorized
	}
	return auth.Claims{UserID: "admin-1", Email: "admin@vet.org"}, nil
}

type fakePerms struct{}

func (fakePerms) Resolve(_ context.Context, userID string) (rbac.PermissionSet, error) {
	return rbac.NewPermissionSet(userID, []rbac.Role{rbac.RoleAdmin}, nil), nil
}

type fakeCreator struct {
	got staff.AccountInput
	err error
}

func (f *fakeCreator) CreateAccount(_ context.Context, caller rbac.PermissionSet, in staff.AccountInput) (string, error) {
	f.got = in
	if f.err != nil {
		return "", f.err
	}
	if !caller.IsAdmin() {
		return "", staff.ErrForbidden
	}
	return "user-9", nil
}

func request(authz, body string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Headers: map[string]string{}, Body: body}
	req.RequestContext.HTTP.Method = http.MethodPost
	if authz != "" {
		req.Headers["authorization"] = authz
	}
	return req
}

func decode(t *testing.T, res events.APIGatewayV2HTTPResponse) staff.AccountResult {
	t.Helper()
	var out staff.AccountResult
	require.NoError(t, json.Unmarshal([]byte(res.Body), &out))
	return out
}

func TestHandle_CreatesAccount(t *testing.T) {
	creator := &fakeCreator{}
	h := handler{verifier: fakeVerifier{}, perms: fakePerms{}, staff: creator, log: logger.Nop()}

	body := `{"staff_id":"s-1","email":"doc@vet.org","password":"password1","name":"Dr. Rao","role":"doctor"}`
	res, err := h.Handle(context.Background(), request("Bearer good", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Headers["Content-Type"])

	out := decode(t, res)
	assert.True(t, out.Success)
	assert.Equal(t, "user-9", out.UserID)
	assert.Equal(t, "s-1", creator.got.StaffID)
	assert.Equal(t, rbac.RoleDoctor, creator.got.Role)
}

func TestHandle_RejectsMissingOrBadToken(t *testing.T) {
	h := handler{verifier: fakeVerifier{}, perms: fakePerms{}, staff: &fakeCreator{}, log: logger.Nop()}

	for _, authz := range []string{"", "Bearer nope", "Basic abc"} {
		res, err := h.Handle(context.Background(), request(authz, `{}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, authz)
		assert.False(t, decode(t, res).Success)
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	h := handler{verifier: fakeVerifier{}, perms: fakePerms{}, staff: &fakeCreator{}, log: logger.Nop()}

	res, err := h.Handle(context.Background(), request("Bearer good", "{not json"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandle_MapsServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{staff.ErrAlreadyLinked, http.StatusConflict},
		{staff.ErrForbidden, http.StatusForbidden},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.Invalid("password too short"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		h := handler{verifier: fakeVerifier{}, perms: fakePerms{}, staff: &fakeCreator{err: tc.err}, log: logger.Nop()}
		res, err := h.Handle(context.Background(), request("Bearer good", `{"staff_id":"s-1"}`))
		require.NoError(t, err)
		assert.Equal(t, tc.status, res.StatusCode, tc.err.Error())

		out := decode(t, res)
		assert.False(t, out.Success)
		assert.NotEmpty(t, out.Error)
	}
}

func TestHandle_Preflight(t *testing.T) {
	h := handler{log: logger.Nop()}
	req := request("", "")
	req.RequestContext.HTTP.Method = http.MethodOptions

	res, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, res.Body)
}
