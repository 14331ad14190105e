package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/middleware"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/httpx"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/ports/auth"

	"github.com/aws/aws-lambda-go/events"
)

type accountCreator interface {
	CreateAccount(ctx context.Context, caller rbac.PermissionSet, in staff.AccountInput) (string, error)
}

type permissionResolver interface {
	Resolve(ctx context.Context, userID string) (rbac.PermissionSet, error)
}

// handler atiende POST con {staff_id, email, password, name, role?} y el
// Bearer token del admin que da de alta la cuenta.
type handler struct {
	verifier auth.AuthVerifier
	perms    permissionResolver
	staff    accountCreator
	log      logger.Logger
}

func (h handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return respond(http.StatusNoContent, nil), nil
	}

	token := middleware.BearerToken(header(req.Headers, "Authorization"))
	if token == "" {
		return respond(http.StatusUnauthorized, staff.Envelope("", apperr.ErrUnauthorized)), nil
	}
	claims, err := h.verifier.Verify(ctx, token)
	if err != nil {
		return respond(http.StatusUnauthorized, staff.Envelope("", apperr.ErrUnauthorized)), nil
	}

	var body staff.AccountRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return respond(http.StatusBadRequest, staff.Envelope("", apperr.Invalid("invalid JSON body"))), nil
	}

	caller, err := h.perms.Resolve(ctx, claims.UserID)
	if err != nil {
		h.log.Error("resolve caller permissions failed", map[string]any{"user_id": claims.UserID, "err": err})
		return respond(httpx.StatusOf(err), staff.Envelope("", err)), nil
	}

	userID, err := h.staff.CreateAccount(ctx, caller, body.ToInput())
	if err != nil {
		status := httpx.StatusOf(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("create staff account failed", map[string]any{"staff_id": body.StaffID, "err": err})
		}
		return respond(status, staff.Envelope("", err)), nil
	}

	h.log.Info("staff account created", map[string]any{"staff_id": body.StaffID, "user_id": userID, "by": claims.UserID})
	return respond(http.StatusOK, staff.Envelope(userID, nil)), nil
}

func header(h map[string]string, name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func respond(status int, payload any) events.APIGatewayV2HTTPResponse {
	res := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": "authorization, content-type",
		},
	}
	if payload != nil {
		b, _ := json.Marshal(payload)
		res.Body = string(b)
	}
	return res
}
