package owners

import (
	"context"
	"strings"
	"testing"
	"time"

	"vet-hospital/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Owner
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Owner{}} }

func (r *testRepo) Create(_ context.Context, o Owner) error { r.byID[o.ID] = o; return nil }
func (r *testRepo) Update(_ context.Context, o Owner) error {
	if _, ok := r.byID[o.ID]; !ok {
		return ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}
func (r *testRepo) Delete(_ context.Context, id string) error { delete(r.byID, id); return nil }
func (r *testRepo) GetByID(_ context.Context, id string) (Owner, error) {
	o, ok := r.byID[id]
	if !ok {
		return Owner{}, ErrNotFound
	}
	return o, nil
}
func (r *testRepo) FindActiveByPhone(_ context.Context, phone string) (Owner, error) {
	for _, o := range r.byID {
		if o.Active && o.Phone == phone {
			return o, nil
		}
	}
	return Owner{}, ErrNotFound
}
func (r *testRepo) List(_ context.Context, f ListFilter) ([]Owner, error) {
	out := []Owner{}
	for _, o := range r.byID {
		if f.Query != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type countFn func(string) int

func ptr[T any](v T) *T { return &v }

func (f countFn) CountByOwner(_ context.Context, ownerID string) (int, error) { return f(ownerID), nil }

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 010-2030": "+15550102030",
		"555 0102":          "5550102",
		"55+5":              "555",
		"+":                 "",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestCreate_MergesByPhone(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, merged, err := svc.Create(ctx, CreateInput{Name: "Ana", Phone: "555-0101", Email: "ana@old.com", Notes: "keep"})
	require.NoError(t, err)
	assert.False(t, merged)

	second, merged, err := svc.Create(ctx, CreateInput{Name: "Ana María", Phone: "555 0101", Email: "ana@new.com"})
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana María", second.Name)
	assert.Equal(t, "ana@new.com", second.Email)
	assert.Equal(t, "keep", second.Notes)
	assert.Len(t, repo.byID, 1)
}

func TestCreate_RequiresNameAndPhone(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	_, _, err := svc.Create(context.Background(), CreateInput{Phone: "555"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = svc.Create(context.Background(), CreateInput{Name: "x", Phone: "abc"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnknownOwner_IsShared(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	a, err := svc.UnknownOwner(ctx)
	require.NoError(t, err)
	b, err := svc.UnknownOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, UnknownOwnerName, a.Name)
}

func TestDelete_RefusedWithPets(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, countFn(func(string) int { return 2 }))
	ctx := context.Background()

	o, _, err := svc.Create(ctx, CreateInput{Name: "Ana", Phone: "555"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, o.ID), ErrHasPets)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestUpdate_PhoneBelongsToOneActiveOwner(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	ana, _, err := svc.Create(ctx, CreateInput{Name: "Ana", Phone: "555-0101"})
	require.NoError(t, err)
	bob, _, err := svc.Create(ctx, CreateInput{Name: "Bob", Phone: "555-0202"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob.ID, UpdateInput{Phone: ptr("555 0101")})
	assert.ErrorIs(t, err, ErrPhoneTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "5550202", repo.byID[bob.ID].Phone)

	// Mismo número sin cambios no choca consigo mismo.
	_, err = svc.Update(ctx, ana.ID, UpdateInput{Phone: ptr("5550101"), Name: ptr("Ana M")})
	require.NoError(t, err)

	// Un dueño inactivo no reserva el número, pero reactivarlo sí choca.
	_, err = svc.Update(ctx, ana.ID, UpdateInput{Active: ptr(false)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, bob.ID, UpdateInput{Phone: ptr("5550101")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, ana.ID, UpdateInput{Active: ptr(true)})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}
