package staff

import (
	"context"
	"strings"
	"testing"
	"time"

	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID  map[string]Member
	types map[string]StaffType
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Member{}, types: map[string]StaffType{}}
}

func (r *testRepo) Create(_ context.Context, m Member) error { r.byID[m.ID] = m; return nil }
func (r *testRepo) Update(_ context.Context, m Member) error { r.byID[m.ID] = m; return nil }
func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}
func (r *testRepo) GetByID(_ context.Context, id string) (Member, error) {
	m, ok := r.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}
func (r *testRepo) GetByUserID(_ context.Context, userID string) (Member, error) {
	for _, m := range r.byID {
		if m.UserID == userID {
			return m, nil
		}
	}
	return Member{}, ErrNotFound
}
func (r *testRepo) List(_ context.Context, f ListFilter) ([]Member, error) {
	allowed := map[string]bool{}
	for _, id := range f.UserIDs {
		allowed[id] = true
	}
	out := []Member{}
	for _, m := range r.byID {
		if f.UserIDs != nil && !allowed[m.UserID] {
			continue
		}
		if f.ActiveOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r *testRepo) CreateType(_ context.Context, t StaffType) error { r.types[t.ID] = t; return nil }
func (r *testRepo) UpdateType(_ context.Context, t StaffType) error { r.types[t.ID] = t; return nil }
func (r *testRepo) DeleteType(_ context.Context, id string) error {
	delete(r.types, id)
	return nil
}
func (r *testRepo) GetType(_ context.Context, id string) (StaffType, error) {
	t, ok := r.types[id]
	if !ok {
		return StaffType{}, ErrNotFound
	}
	return t, nil
}
func (r *testRepo) ListTypes(context.Context) ([]StaffType, error) { return []StaffType{}, nil }

type fakeAccounts struct{ emails map[string]bool }

func (f *fakeAccounts) SignUp(_ context.Context, in accounts.SignUpInput) (accounts.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if f.emails[email] {
		return accounts.Account{}, apperr.Conflict("email already registered")
	}
	f.emails[email] = true
	return accounts.Account{ID: "acc-" + email, Email: email}, nil
}

type fakeRoles struct {
	assigned map[string]rbac.Role
}

func (f *fakeRoles) UsersWithRole(_ context.Context, role rbac.Role) ([]string, error) {
	out := []string{}
	for uid, r := range f.assigned {
		if r == role {
			out = append(out, uid)
		}
	}
	return out, nil
}

func (f *fakeRoles) AssignRole(_ context.Context, _ rbac.PermissionSet, userID string, role rbac.Role) error {
	f.assigned[userID] = role
	return nil
}

func newTestService() (*Service, *testRepo, *fakeRoles) {
	repo := newTestRepo()
	roles := &fakeRoles{assigned: map[string]rbac.Role{}}
	svc := NewService(repo, repo, &fakeAccounts{emails: map[string]bool{}}, roles, nil)
	svc.now = func() time.Time { return time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC) }
	return svc, repo, roles
}

var admin = rbac.NewPermissionSet("admin-1", []rbac.Role{rbac.RoleAdmin}, nil)

func TestAccountInput_Validate(t *testing.T) {
	valid := AccountInput{StaffID: uuid.NewString(), Email: "doc@vet.org", Password: "password1", Name: "Dr. House"}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*AccountInput)
	}{
		{"staff id not uuid", func(in *AccountInput) { in.StaffID = "123" }},
		{"bad email", func(in *AccountInput) { in.Email = "doc" }},
		{"short password", func(in *AccountInput) { in.Password = "1234567" }},
		{"long password", func(in *AccountInput) { in.Password = strings.Repeat("x", 73) }},
		{"empty name", func(in *AccountInput) { in.Name = "  " }},
		{"long name", func(in *AccountInput) { in.Name = strings.Repeat("n", 101) }},
		{"unknown role", func(in *AccountInput) { in.Role = "owner" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
		})
	}

	edge := valid
	edge.Password = strings.Repeat("x", 72)
	edge.Name = strings.Repeat("n", 100)
	assert.NoError(t, edge.Validate())
}

func TestCreateAccount_LinksStaffAndAssignsRole(t *testing.T) {
	svc, repo, roles := newTestService()
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateInput{Name: "Gregory"})
	require.NoError(t, err)

	in := AccountInput{StaffID: m.ID, Email: "doc@vet.org", Password: "password1", Name: "Dr. House", Role: rbac.RoleDoctor}

	receptionist := rbac.NewPermissionSet("r", []rbac.Role{rbac.RoleReceptionist}, nil)
	_, err = svc.CreateAccount(ctx, receptionist, in)
	assert.ErrorIs(t, err, ErrForbidden)

	userID, err := svc.CreateAccount(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, userID, repo.byID[m.ID].UserID)
	assert.Equal(t, "Dr. House", repo.byID[m.ID].Name)
	assert.Equal(t, rbac.RoleDoctor, roles.assigned[userID])

	_, err = svc.CreateAccount(ctx, admin, in)
	assert.ErrorIs(t, err, ErrAlreadyLinked)

	doctors, err := svc.Doctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, m.ID, doctors[0].ID)
}

func TestCreateAccount_UnknownStaff(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateAccount(context.Background(), admin, AccountInput{
		StaffID: uuid.NewString(), Email: "x@vet.org", Password: "password1", Name: "X",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnvelope(t *testing.T) {
	assert.Equal(t, AccountResult{Success: true, UserID: "u1"}, Envelope("u1", nil))
	assert.Equal(t, AccountResult{Success: false, Error: "forbidden"}, Envelope("", ErrForbidden))
	assert.Equal(t, AccountResult{Success: false, Error: "internal error"}, Envelope("", assert.AnError))
}
