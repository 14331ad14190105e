package facilities

import (
	"context"
	"testing"

	"vet-hospital/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	buildings map[string]Building
	rooms     map[string]Room
	cages     map[string]Cage
}

func newTestRepo() *testRepo {
	return &testRepo{
		buildings: map[string]Building{},
		rooms:     map[string]Room{},
		cages:     map[string]Cage{},
	}
}

func (r *testRepo) CreateBuilding(_ context.Context, b Building) error { r.buildings[b.ID] = b; return nil }
func (r *testRepo) UpdateBuilding(_ context.Context, b Building) error { r.buildings[b.ID] = b; return nil }
func (r *testRepo) DeleteBuilding(_ context.Context, id string) error {
	delete(r.buildings, id)
	return nil
}
func (r *testRepo) GetBuilding(_ context.Context, id string) (Building, error) {
	b, ok := r.buildings[id]
	if !ok {
		return Building{}, ErrNotFound
	}
	return b, nil
}
func (r *testRepo) ListBuildings(context.Context) ([]Building, error) {
	out := []Building{}
	for _, b := range r.buildings {
		out = append(out, b)
	}
	return out, nil
}
func (r *testRepo) CreateRoom(_ context.Context, rm Room) error { r.rooms[rm.ID] = rm; return nil }
func (r *testRepo) UpdateRoom(_ context.Context, rm Room) error { r.rooms[rm.ID] = rm; return nil }
func (r *testRepo) DeleteRoom(_ context.Context, id string) error {
	delete(r.rooms, id)
	return nil
}
func (r *testRepo) GetRoom(_ context.Context, id string) (Room, error) {
	rm, ok := r.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return rm, nil
}
func (r *testRepo) ListRooms(_ context.Context, buildingID string) ([]Room, error) {
	out := []Room{}
	for _, rm := range r.rooms {
		if buildingID == "" || rm.BuildingID == buildingID {
			out = append(out, rm)
		}
	}
	return out, nil
}
func (r *testRepo) CountRooms(ctx context.Context, buildingID string) (int, error) {
	rooms, _ := r.ListRooms(ctx, buildingID)
	return len(rooms), nil
}
func (r *testRepo) CreateCage(_ context.Context, c Cage) error { r.cages[c.ID] = c; return nil }
func (r *testRepo) UpdateCage(_ context.Context, c Cage) error { r.cages[c.ID] = c; return nil }
func (r *testRepo) DeleteCage(_ context.Context, id string) error {
	delete(r.cages, id)
	return nil
}
func (r *testRepo) GetCage(_ context.Context, id string) (Cage, error) {
	c, ok := r.cages[id]
	if !ok {
		return Cage{}, ErrNotFound
	}
	return c, nil
}
func (r *testRepo) GetCageForUpdate(ctx context.Context, id string) (Cage, error) {
	return r.GetCage(ctx, id)
}
func (r *testRepo) SetCageStatus(_ context.Context, id string, status CageStatus) error {
	c := r.cages[id]
	c.Status = status
	r.cages[id] = c
	return nil
}
func (r *testRepo) ListCages(_ context.Context, f CageFilter) ([]Cage, error) {
	out := []Cage{}
	for _, c := range r.cages {
		if f.RoomID != "" && c.RoomID != f.RoomID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (r *testRepo) CountCages(_ context.Context, roomID string) (int, error) {
	n := 0
	for _, c := range r.cages {
		if c.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// fakeCounter cuenta las llamadas para detectar N+1.
type fakeCounter struct {
	counts map[string]int
	calls  int
}

func (f *fakeCounter) CountActiveByCage(_ context.Context, ids []string) (map[string]int, error) {
	f.calls++
	out := map[string]int{}
	for _, id := range ids {
		if n, ok := f.counts[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*Service, *testRepo, *fakeCounter, Room) {
	t.Helper()
	repo := newTestRepo()
	counter := &fakeCounter{counts: map[string]int{}}
	svc := NewService(repo, counter)

	b, err := svc.CreateBuilding(context.Background(), BuildingInput{Name: ptr("Main")})
	require.NoError(t, err)
	room, err := svc.CreateRoom(context.Background(), RoomInput{BuildingID: &b.ID, Name: ptr("Ward A")})
	require.NoError(t, err)
	return svc, repo, counter, room
}

func TestCreateCage_Validation(t *testing.T) {
	svc, _, _, room := setup(t)
	ctx := context.Background()

	_, err := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("C1"), MaxPetCount: ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateCage(ctx, CageInput{RoomID: ptr("nope"), CageNumber: ptr("C1")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("C1"), Status: ptr("occupied")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("C1")})
	require.NoError(t, err)
	assert.Equal(t, 1, c.MaxPetCount)
	assert.Equal(t, CageAvailable, c.Status)
}

func TestAvailable_FiltersByCapacityAndStatus_SingleCount(t *testing.T) {
	svc, _, counter, room := setup(t)
	ctx := context.Background()

	full, _ := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("full"), MaxPetCount: ptr(2)})
	half, _ := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("half"), MaxPetCount: ptr(2)})
	_, _ = svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("maint"), Status: ptr("maintenance")})
	empty, _ := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("empty")})

	counter.counts[full.ID] = 2
	counter.counts[half.ID] = 1
	counter.calls = 0

	got, err := svc.Available(ctx, CageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls)

	ids := map[string]int{}
	for _, o := range got {
		ids[o.Cage.ID] = o.Free()
	}
	assert.Equal(t, map[string]int{half.ID: 1, empty.ID: 1}, ids)

	total, available, err := svc.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, available)
}

func TestDeleteGuards(t *testing.T) {
	svc, _, counter, room := setup(t)
	ctx := context.Background()

	c, err := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("C1")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteBuilding(ctx, room.BuildingID), ErrBuildingInUse)
	assert.ErrorIs(t, svc.DeleteRoom(ctx, room.ID), ErrRoomInUse)

	counter.counts[c.ID] = 1
	assert.ErrorIs(t, svc.DeleteCage(ctx, c.ID), ErrCageInUse)

	counter.counts[c.ID] = 0
	require.NoError(t, svc.DeleteCage(ctx, c.ID))
	require.NoError(t, svc.DeleteRoom(ctx, room.ID))
	require.NoError(t, svc.DeleteBuilding(ctx, room.BuildingID))
}

func TestUpdateCage_RespectsOccupancy(t *testing.T) {
	svc, _, counter, room := setup(t)
	ctx := context.Background()

	c, err := svc.CreateCage(ctx, CageInput{RoomID: &room.ID, CageNumber: ptr("C1"), MaxPetCount: ptr(3)})
	require.NoError(t, err)
	counter.counts[c.ID] = 2

	_, err = svc.UpdateCage(ctx, c.ID, CageInput{MaxPetCount: ptr(1)})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.UpdateCage(ctx, c.ID, CageInput{Status: ptr("maintenance")})
	assert.ErrorIs(t, err, ErrCageInUse)

	up, err := svc.UpdateCage(ctx, c.ID, CageInput{Notes: ptr("clean daily")})
	require.NoError(t, err)
	assert.Equal(t, CageOccupied, up.Status)
}
