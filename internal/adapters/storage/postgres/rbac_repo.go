package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vet-hospital/internal/domain/rbac"
)

// roleAssignmentsLock identifica el advisory lock que serializa los cambios de roles.
const roleAssignmentsLock = 7310042

type RBACRepo struct {
	db *sql.DB
}

func NewRBACRepo(db *sql.DB) *RBACRepo {
	return &RBACRepo{db: db}
}

func (r *RBACRepo) ListUserRoles(ctx context.Context, userID string) ([]rbac.Role, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]rbac.Role, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, rbac.Role(role))
	}
	return out, rows.Err()
}

func (r *RBACRepo) AssignRole(ctx context.Context, userID string, role rbac.Role, at time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, string(role), at)
	return mapErr(err)
}

func (r *RBACRepo) RemoveRole(ctx context.Context, userID string, role rbac.Role) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	return mapErr(err)
}

func (r *RBACRepo) ListUsersWithRole(ctx context.Context, role rbac.Role) ([]string, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT user_id FROM user_roles WHERE role = $1 ORDER BY user_id`, string(role))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *RBACRepo) CountUsersWithRole(ctx context.Context, role rbac.Role) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM user_roles WHERE role = $1`, string(role)).Scan(&n)
	return n, mapErr(err)
}

func (r *RBACRepo) LockRoleAssignments(ctx context.Context) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); !ok {
		return fmt.Errorf("lock role assignments: no active transaction")
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, roleAssignmentsLock)
	return mapErr(err)
}

func (r *RBACRepo) ListGrants(ctx context.Context, roles []rbac.Role) ([]rbac.Grant, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT role, module, permission FROM role_permissions
		WHERE role = ANY($1)
		ORDER BY role, module, permission
	`, names)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]rbac.Grant, 0)
	for rows.Next() {
		var role, module, perm string
		if err := rows.Scan(&role, &module, &perm); err != nil {
			return nil, err
		}
		out = append(out, rbac.Grant{
			Role:       rbac.Role(role),
			Module:     rbac.Module(module),
			Permission: rbac.PermissionType(perm),
		})
	}
	return out, rows.Err()
}

// ReplaceGrants borra e inserta la matriz del rol; conviene llamarlo dentro de WithinTx.
func (r *RBACRepo) ReplaceGrants(ctx context.Context, role rbac.Role, grants []rbac.Grant) error {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM role_permissions WHERE role = $1`, string(role)); err != nil {
		return mapErr(err)
	}
	for _, g := range grants {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO role_permissions (role, module, permission) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, string(role), string(g.Module), string(g.Permission)); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *RBACRepo) CountGrants(ctx context.Context, role rbac.Role) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM role_permissions WHERE role = $1`, string(role)).Scan(&n)
	return n, mapErr(err)
}
