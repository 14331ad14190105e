package memory

import (
	"context"
	"sort"
	"time"

	"vet-hospital/internal/domain/rbac"
)

type rbacRepo struct {
	s *Store
}

func NewRBACRepo(s *Store) rbac.Repository {
	return &rbacRepo{s: s}
}

func (r *rbacRepo) ListUserRoles(ctx context.Context, userID string) ([]rbac.Role, error) {
	defer r.s.read(ctx)()

	out := make([]rbac.Role, 0)
	for k := range r.s.t.roles {
		if k.userID == userID {
			out = append(out, k.role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// AssignRole es idempotente, como el ON CONFLICT DO NOTHING de Postgres.
func (r *rbacRepo) AssignRole(ctx context.Context, userID string, role rbac.Role, at time.Time) error {
	defer r.s.write(ctx)()

	k := userRole{userID: userID, role: role}
	if _, ok := r.s.t.roles[k]; !ok {
		r.s.t.roles[k] = at
	}
	return nil
}

func (r *rbacRepo) RemoveRole(ctx context.Context, userID string, role rbac.Role) error {
	defer r.s.write(ctx)()

	delete(r.s.t.roles, userRole{userID: userID, role: role})
	return nil
}

func (r *rbacRepo) ListUsersWithRole(ctx context.Context, role rbac.Role) ([]string, error) {
	defer r.s.read(ctx)()

	out := make([]string, 0)
	for k := range r.s.t.roles {
		if k.role == role {
			out = append(out, k.userID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *rbacRepo) CountUsersWithRole(ctx context.Context, role rbac.Role) (int, error) {
	users, err := r.ListUsersWithRole(ctx, role)
	return len(users), err
}

// LockRoleAssignments no hace nada: la transacción del Store ya serializa.
func (r *rbacRepo) LockRoleAssignments(ctx context.Context) error {
	return nil
}

func (r *rbacRepo) ListGrants(ctx context.Context, roles []rbac.Role) ([]rbac.Grant, error) {
	defer r.s.read(ctx)()

	out := make([]rbac.Grant, 0)
	for _, role := range roles {
		out = append(out, r.s.t.grants[role]...)
	}
	return out, nil
}

func (r *rbacRepo) ReplaceGrants(ctx context.Context, role rbac.Role, grants []rbac.Grant) error {
	defer r.s.write(ctx)()

	if len(grants) == 0 {
		delete(r.s.t.grants, role)
		return nil
	}
	r.s.t.grants[role] = append([]rbac.Grant(nil), grants...)
	return nil
}

func (r *rbacRepo) CountGrants(ctx context.Context, role rbac.Role) (int, error) {
	defer r.s.read(ctx)()

	return len(r.s.t.grants[role]), nil
}
