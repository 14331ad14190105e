package rbac

import (
	"context"
	"time"
)

type Repository interface {
	ListUserRoles(ctx context.Context, userID string) ([]Role, error)
	// AssignRole es idempotente.
	AssignRole(ctx context.Context, userID string, role Role, at time.Time) error
	RemoveRole(ctx context.Context, userID string, role Role) error
	ListUsersWithRole(ctx context.Context, role Role) ([]string, error)
	CountUsersWithRole(ctx context.Context, role Role) (int, error)

	// LockRoleAssignments serializa cambios de roles dentro de la transacción activa.
	LockRoleAssignments(ctx context.Context) error

	ListGrants(ctx context.Context, roles []Role) ([]Grant, error)
	ReplaceGrants(ctx context.Context, role Role, grants []Grant) error
	CountGrants(ctx context.Context, role Role) (int, error)
}
