package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-hospital/internal/middleware"
	"vet-hospital/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	roles  map[string]map[Role]struct{}
	grants map[Role][]Grant
	failOn string
}

func newTestRepo() *testRepo {
	return &testRepo{
		roles:  map[string]map[Role]struct{}{},
		grants: map[Role][]Grant{},
	}
}

func (r *testRepo) ListUserRoles(_ context.Context, userID string) ([]Role, error) {
	if r.failOn == "ListUserRoles" {
		return nil, errors.New("db down")
	}
	out := []Role{}
	for _, role := range AllRoles {
		if _, ok := r.roles[userID][role]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *testRepo) AssignRole(_ context.Context, userID string, role Role, _ time.Time) error {
	if r.roles[userID] == nil {
		r.roles[userID] = map[Role]struct{}{}
	}
	r.roles[userID][role] = struct{}{}
	return nil
}

func (r *testRepo) RemoveRole(_ context.Context, userID string, role Role) error {
	delete(r.roles[userID], role)
	return nil
}

func (r *testRepo) ListUsersWithRole(_ context.Context, role Role) ([]string, error) {
	out := []string{}
	for uid, rs := range r.roles {
		if _, ok := rs[role]; ok {
			out = append(out, uid)
		}
	}
	return out, nil
}

func (r *testRepo) CountUsersWithRole(ctx context.Context, role Role) (int, error) {
	ids, _ := r.ListUsersWithRole(ctx, role)
	return len(ids), nil
}

func (r *testRepo) LockRoleAssignments(context.Context) error { return nil }

func (r *testRepo) ListGrants(_ context.Context, roles []Role) ([]Grant, error) {
	if r.failOn == "ListGrants" {
		return nil, errors.New("db down")
	}
	out := []Grant{}
	for _, role := range roles {
		out = append(out, r.grants[role]...)
	}
	return out, nil
}

func (r *testRepo) ReplaceGrants(_ context.Context, role Role, grants []Grant) error {
	r.grants[role] = append([]Grant(nil), grants...)
	return nil
}

func (r *testRepo) CountGrants(_ context.Context, role Role) (int, error) {
	return len(r.grants[role]), nil
}

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestResolve_AdminBypassesMatrix(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	_ = repo.AssignRole(context.Background(), "u-admin", RoleAdmin, time.Time{})

	set, err := svc.Resolve(context.Background(), "u-admin")
	require.NoError(t, err)
	assert.True(t, set.All)
	for _, m := range AllModules {
		assert.True(t, set.CanDelete(m), "admin should delete %s", m)
	}
}

func TestResolve_PresenceGrantsAbsenceDenies(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	_ = repo.AssignRole(ctx, "u-doc", RoleDoctor, time.Time{})
	_ = repo.ReplaceGrants(ctx, RoleDoctor, []Grant{
		{Role: RoleDoctor, Module: ModuleAdmissions, Permission: PermView},
	})

	set, err := svc.Resolve(ctx, "u-doc")
	require.NoError(t, err)
	assert.False(t, set.All)
	assert.True(t, set.CanView(ModuleAdmissions))
	assert.False(t, set.CanEdit(ModuleAdmissions))
	assert.False(t, set.CanView(ModuleBilling))
}

func TestResolve_NoRolesDeniesEverything(t *testing.T) {
	svc := newTestService(newTestRepo())

	set, err := svc.Resolve(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, set.CanView(ModuleDashboard))
	assert.Empty(t, Menu(set))
}

func TestAllowed_FailsClosedOnRepoError(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	_ = repo.AssignRole(context.Background(), "u1", RoleDoctor, time.Time{})
	_ = repo.ReplaceGrants(context.Background(), RoleDoctor, []Grant{{Role: RoleDoctor, Module: ModulePets, Permission: PermView}})

	repo.failOn = "ListGrants"
	assert.False(t, svc.Allowed(context.Background(), "u1", ModulePets, PermView))
}

func TestEnsureFirstSuperadmin_OnlyFirstCallerWins(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	first, err := svc.EnsureFirstSuperadmin(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := svc.EnsureFirstSuperadmin(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, second)

	ids, err := svc.UsersWithRole(ctx, RoleSuperadmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestAssignRole_EscalationRules(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	receptionist := NewPermissionSet("r1", []Role{RoleReceptionist}, nil)
	admin := NewPermissionSet("a1", []Role{RoleAdmin}, nil)
	super := NewPermissionSet("s1", []Role{RoleSuperadmin}, nil)

	assert.ErrorIs(t, svc.AssignRole(ctx, receptionist, "u9", RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, svc.AssignRole(ctx, admin, "u9", RoleSuperadmin), ErrForbidden)
	require.NoError(t, svc.AssignRole(ctx, admin, "u9", RoleAdmin))
	require.NoError(t, svc.AssignRole(ctx, super, "u9", RoleSuperadmin))
	require.NoError(t, svc.AssignRole(ctx, receptionist, "u10", RoleStaff))

	assert.ErrorIs(t, svc.AssignRole(ctx, super, "u9", Role("janitor")), ErrInvalidInput)
}

func TestRemoveRole_KeepsLastSuperadmin(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	_ = repo.AssignRole(ctx, "s1", RoleSuperadmin, time.Time{})
	super := NewPermissionSet("s1", []Role{RoleSuperadmin}, nil)

	assert.ErrorIs(t, svc.RemoveRole(ctx, super, "s1", RoleSuperadmin), ErrBadState)

	_ = repo.AssignRole(ctx, "s2", RoleSuperadmin, time.Time{})
	require.NoError(t, svc.RemoveRole(ctx, super, "s1", RoleSuperadmin))
}

func TestSetRoleGrants_RejectsAdminRolesAndUnknownModules(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	_, err := svc.SetRoleGrants(ctx, RoleAdmin, nil)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = svc.SetRoleGrants(ctx, RoleDoctor, []ModulePermission{{Module: "spaceships", Permission: PermView}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	out, err := svc.SetRoleGrants(ctx, RoleDoctor, []ModulePermission{
		{Module: ModulePets, Permission: "VIEW"},
		{Module: ModulePets, Permission: PermView},
		{Module: ModuleAdmissions, Permission: PermEdit},
	})
	require.NoError(t, err)
	assert.Equal(t, []ModulePermission{
		{Module: ModuleAdmissions, Permission: PermEdit},
		{Module: ModulePets, Permission: PermView},
	}, out)
}

func TestSeedDefaults_SkipsRolesWithRows(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	_ = repo.ReplaceGrants(ctx, RoleStaff, []Grant{{Role: RoleStaff, Module: ModulePets, Permission: PermView}})

	matrix, err := LoadDefaults()
	require.NoError(t, err)

	seeded, err := svc.SeedDefaults(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, 4, seeded)

	n, _ := repo.CountGrants(ctx, RoleStaff)
	assert.Equal(t, 1, n)

	set := NewPermissionSet("d", []Role{RoleDoctor}, repo.grants[RoleDoctor])
	assert.True(t, set.CanView(ModuleDoctorDashboard))
	assert.False(t, set.CanView(ModuleBilling))
}

func TestMenu_DoctorEntriesNeedDoctorRole(t *testing.T) {
	grants := []Grant{
		{Role: RoleReceptionist, Module: ModuleDoctorDashboard, Permission: PermView},
		{Role: RoleReceptionist, Module: ModulePets, Permission: PermView},
	}
	receptionist := NewPermissionSet("r", []Role{RoleReceptionist}, grants)
	keys := menuKeys(Menu(receptionist))
	assert.Equal(t, []string{"pets"}, keys)

	doctor := NewPermissionSet("d", []Role{RoleDoctor}, []Grant{
		{Role: RoleDoctor, Module: ModuleDoctorDashboard, Permission: PermView},
	})
	assert.Equal(t, []string{"doctor_dashboard"}, menuKeys(Menu(doctor)))

	admin := NewPermissionSet("a", []Role{RoleAdmin}, nil)
	assert.Len(t, Menu(admin), len(menu))
}

func TestRequire_StatusCodes(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	_ = repo.AssignRole(context.Background(), "u-staff", RoleStaff, time.Time{})
	_ = repo.ReplaceGrants(context.Background(), RoleStaff, []Grant{{Role: RoleStaff, Module: ModulePets, Permission: PermView}})

	h := middleware.AuthContext(nil)(svc.Require(ModulePets, PermEdit)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		user   string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"denied", "u-staff", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/pets/1", nil)
			if tc.user != "" {
				req.Header.Set("X-Debug-User-ID", tc.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	_ = repo.ReplaceGrants(context.Background(), RoleStaff, []Grant{{Role: RoleStaff, Module: ModulePets, Permission: PermEdit}})
	req := httptest.NewRequest(http.MethodPatch, "/pets/1", nil)
	req = req.WithContext(contextWithClaims(req.Context(), "u-staff"))
	rec := httptest.NewRecorder()
	svc.Require(ModulePets, PermEdit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		set, ok := FromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "u-staff", set.UserID)
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func contextWithClaims(ctx context.Context, userID string) context.Context {
	return middleware.WithClaims(ctx, auth.Claims{UserID: userID})
}

func menuKeys(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}
