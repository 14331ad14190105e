package rbac

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/tx"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrForbidden    = apperr.ErrForbidden
	ErrNotFound     = apperr.ErrNotFound
	ErrBadState     = apperr.ErrBadState
)

type Service struct {
	repo Repository
	tx   tx.Runner
	now  func() time.Time
}

func NewService(repo Repository, runner tx.Runner) *Service {
	if runner == nil {
		runner = tx.NoTx
	}
	return &Service{
		repo: repo,
		tx:   runner,
		now:  time.Now,
	}
}

// Resolve trae roles del usuario; admin/superadmin implican todos los permisos.
// Ante error devuelve un set vacío: quien lo use sin mirar el error queda sin permisos.
func (s *Service) Resolve(ctx context.Context, userID string) (PermissionSet, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return PermissionSet{}, ErrInvalidInput
	}

	roles, err := s.repo.ListUserRoles(ctx, userID)
	if err != nil {
		return PermissionSet{UserID: userID}, err
	}

	set := NewPermissionSet(userID, roles, nil)
	if set.All || len(set.Roles) == 0 {
		return set, nil
	}

	grants, err := s.repo.ListGrants(ctx, set.Roles)
	if err != nil {
		return PermissionSet{UserID: userID}, err
	}
	return NewPermissionSet(userID, set.Roles, grants), nil
}

// Allowed es el predicado usado por el middleware; falla cerrado.
func (s *Service) Allowed(ctx context.Context, userID string, module Module, perm PermissionType) bool {
	set, err := s.Resolve(ctx, userID)
	if err != nil {
		return false
	}
	return set.Can(module, perm)
}

func (s *Service) HasRole(ctx context.Context, userID string, role Role) (bool, error) {
	set, err := s.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.HasRole(role), nil
}

func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	set, err := s.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.IsAdmin(), nil
}

func (s *Service) UsersWithRole(ctx context.Context, role Role) ([]string, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListUsersWithRole(ctx, role)
}

// EnsureFirstSuperadmin asigna superadmin a userID solo si nadie lo tiene todavía.
// Devuelve true si asignó.
func (s *Service) EnsureFirstSuperadmin(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrInvalidInput
	}

	assigned := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockRoleAssignments(ctx); err != nil {
			return err
		}
		n, err := s.repo.CountUsersWithRole(ctx, RoleSuperadmin)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := s.repo.AssignRole(ctx, userID, RoleSuperadmin, s.now()); err != nil {
			return err
		}
		assigned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

// AssignRole aplica las reglas de escalamiento:
// - superadmin solo lo otorga otro superadmin
// - admin solo lo otorga admin/superadmin
func (s *Service) AssignRole(ctx context.Context, caller PermissionSet, userID string, role Role) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || !role.Valid() {
		return ErrInvalidInput
	}
	if err := checkEscalation(caller, role); err != nil {
		return err
	}
	return s.repo.AssignRole(ctx, userID, role, s.now())
}

func (s *Service) RemoveRole(ctx context.Context, caller PermissionSet, userID string, role Role) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || !role.Valid() {
		return ErrInvalidInput
	}
	if err := checkEscalation(caller, role); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if role == RoleSuperadmin {
			if err := s.repo.LockRoleAssignments(ctx); err != nil {
				return err
			}
			n, err := s.repo.CountUsersWithRole(ctx, RoleSuperadmin)
			if err != nil {
				return err
			}
			if n <= 1 {
				return apperr.BadState("cannot remove the last superadmin")
			}
		}
		return s.repo.RemoveRole(ctx, userID, role)
	})
}

func checkEscalation(caller PermissionSet, role Role) error {
	switch role {
	case RoleSuperadmin:
		if !caller.HasRole(RoleSuperadmin) {
			return ErrForbidden
		}
	case RoleAdmin:
		if !caller.IsAdmin() {
			return ErrForbidden
		}
	}
	return nil
}

type RoleGrants struct {
	Role   Role               `json:"role"`
	Bypass bool               `json:"bypass"`
	Grants []ModulePermission `json:"grants"`
}

// Matrix devuelve la grilla rol × módulo × permiso para la pantalla de gestión de roles.
func (s *Service) Matrix(ctx context.Context) ([]RoleGrants, error) {
	out := make([]RoleGrants, 0, len(AllRoles))
	for _, role := range AllRoles {
		if role.IsAdmin() {
			out = append(out, RoleGrants{Role: role, Bypass: true, Grants: []ModulePermission{}})
			continue
		}
		grants, err := s.repo.ListGrants(ctx, []Role{role})
		if err != nil {
			return nil, err
		}
		mps := make([]ModulePermission, 0, len(grants))
		for _, g := range grants {
			mps = append(mps, ModulePermission{Module: g.Module, Permission: g.Permission})
		}
		sortModulePermissions(mps)
		out = append(out, RoleGrants{Role: role, Grants: mps})
	}
	return out, nil
}

// SetRoleGrants reemplaza completamente los permisos de un rol.
func (s *Service) SetRoleGrants(ctx context.Context, role Role, perms []ModulePermission) ([]ModulePermission, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	if role.IsAdmin() {
		return nil, apperr.BadState("admin roles bypass role permissions")
	}

	grants, normalized, err := normalizeGrants(role, perms)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceGrants(ctx, role, grants)
	})
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// SeedDefaults carga la matriz por defecto en los roles que aún no tienen filas.
// Devuelve cuántos roles se sembraron.
func (s *Service) SeedDefaults(ctx context.Context, matrix DefaultMatrix) (int, error) {
	seeded := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, role := range AllRoles {
			perms, ok := matrix[role]
			if !ok || role.IsAdmin() {
				continue
			}
			n, err := s.repo.CountGrants(ctx, role)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			grants, _, err := normalizeGrants(role, perms)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceGrants(ctx, role, grants); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seeded, nil
}

func normalizeGrants(role Role, in []ModulePermission) ([]Grant, []ModulePermission, error) {
	seen := map[ModulePermission]struct{}{}
	grants := make([]Grant, 0, len(in))
	out := make([]ModulePermission, 0, len(in))

	for _, raw := range in {
		mp := ModulePermission{
			Module:     Module(strings.TrimSpace(string(raw.Module))),
			Permission: PermissionType(strings.ToLower(strings.TrimSpace(string(raw.Permission)))),
		}
		if !mp.Module.Valid() || !mp.Permission.Valid() {
			return nil, nil, apperr.Invalid("unknown module or permission: " + string(raw.Module) + ":" + string(raw.Permission))
		}
		if _, ok := seen[mp]; ok {
			continue
		}
		seen[mp] = struct{}{}
		out = append(out, mp)
		grants = append(grants, Grant{Role: role, Module: mp.Module, Permission: mp.Permission})
	}
	sortModulePermissions(out)
	return grants, out, nil
}
