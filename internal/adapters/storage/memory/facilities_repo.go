package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/platform/apperr"
)

type facilityRepo struct {
	s *Store
}

func NewFacilityRepo(s *Store) facilities.Repository {
	return &facilityRepo{s: s}
}

// ----- Buildings -----

func (r *facilityRepo) CreateBuilding(ctx context.Context, b facilities.Building) error {
	defer r.s.write(ctx)()

	if err := r.uniqueBuildingCode(b); err != nil {
		return err
	}
	r.s.t.buildings[b.ID] = b
	return nil
}

func (r *facilityRepo) UpdateBuilding(ctx context.Context, b facilities.Building) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.buildings[b.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueBuildingCode(b); err != nil {
		return err
	}
	r.s.t.buildings[b.ID] = b
	return nil
}

func (r *facilityRepo) uniqueBuildingCode(b facilities.Building) error {
	if b.Code == "" {
		return nil
	}
	for _, other := range r.s.t.buildings {
		if other.ID != b.ID && strings.EqualFold(other.Code, b.Code) {
			return apperr.Conflict("building code already exists")
		}
	}
	return nil
}

func (r *facilityRepo) DeleteBuilding(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.buildings[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.buildings, id)
	return nil
}

func (r *facilityRepo) GetBuilding(ctx context.Context, id string) (facilities.Building, error) {
	defer r.s.read(ctx)()

	b, ok := r.s.t.buildings[id]
	if !ok {
		return facilities.Building{}, apperr.ErrNotFound
	}
	return b, nil
}

func (r *facilityRepo) ListBuildings(ctx context.Context) ([]facilities.Building, error) {
	defer r.s.read(ctx)()

	out := make([]facilities.Building, 0, len(r.s.t.buildings))
	for _, b := range r.s.t.buildings {
		out = append(out, b)
	}
	sortByName(out, func(b facilities.Building) string { return b.Name })
	return out, nil
}

// ----- Rooms -----

func (r *facilityRepo) CreateRoom(ctx context.Context, room facilities.Room) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.buildings[room.BuildingID]; !ok {
		return apperr.Invalid("building not found")
	}
	r.s.t.rooms[room.ID] = room
	return nil
}

func (r *facilityRepo) UpdateRoom(ctx context.Context, room facilities.Room) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.rooms[room.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.s.t.rooms[room.ID] = room
	return nil
}

func (r *facilityRepo) DeleteRoom(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.rooms[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.rooms, id)
	return nil
}

func (r *facilityRepo) GetRoom(ctx context.Context, id string) (facilities.Room, error) {
	defer r.s.read(ctx)()

	room, ok := r.s.t.rooms[id]
	if !ok {
		return facilities.Room{}, apperr.ErrNotFound
	}
	return room, nil
}

func (r *facilityRepo) ListRooms(ctx context.Context, buildingID string) ([]facilities.Room, error) {
	defer r.s.read(ctx)()

	out := make([]facilities.Room, 0)
	for _, room := range r.s.t.rooms {
		if buildingID != "" && room.BuildingID != buildingID {
			continue
		}
		out = append(out, room)
	}
	sortByName(out, func(room facilities.Room) string { return room.Name })
	return out, nil
}

func (r *facilityRepo) CountRooms(ctx context.Context, buildingID string) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, room := range r.s.t.rooms {
		if room.BuildingID == buildingID {
			n++
		}
	}
	return n, nil
}

// ----- Cages -----

func (r *facilityRepo) CreateCage(ctx context.Context, c facilities.Cage) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.rooms[c.RoomID]; !ok {
		return apperr.Invalid("room not found")
	}
	if err := r.uniqueCageNumber(c); err != nil {
		return err
	}
	r.s.t.cages[c.ID] = c
	return nil
}

func (r *facilityRepo) UpdateCage(ctx context.Context, c facilities.Cage) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.cages[c.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueCageNumber(c); err != nil {
		return err
	}
	r.s.t.cages[c.ID] = c
	return nil
}

// uniqueCageNumber: el número de jaula es único dentro de su sala.
func (r *facilityRepo) uniqueCageNumber(c facilities.Cage) error {
	for _, other := range r.s.t.cages {
		if other.ID != c.ID && other.RoomID == c.RoomID && strings.EqualFold(other.CageNumber, c.CageNumber) {
			return apperr.Conflict("cage number already exists in room")
		}
	}
	return nil
}

// DeleteCage replica las reglas de Postgres: las internaciones quedan sin
// jaula y las asignaciones de esa jaula se borran.
func (r *facilityRepo) DeleteCage(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.cages[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.cages, id)
	for aid, a := range r.s.t.admissions {
		if a.CageID == id {
			a.CageID = ""
			r.s.t.admissions[aid] = a
		}
	}
	for lid, al := range r.s.t.allotments {
		if al.CageID == id {
			delete(r.s.t.allotments, lid)
		}
	}
	return nil
}

func (r *facilityRepo) GetCage(ctx context.Context, id string) (facilities.Cage, error) {
	defer r.s.read(ctx)()

	c, ok := r.s.t.cages[id]
	if !ok {
		return facilities.Cage{}, apperr.ErrNotFound
	}
	return c, nil
}

// GetCageForUpdate: dentro de una transacción del Store no hay otro escritor.
func (r *facilityRepo) GetCageForUpdate(ctx context.Context, id string) (facilities.Cage, error) {
	return r.GetCage(ctx, id)
}

func (r *facilityRepo) SetCageStatus(ctx context.Context, id string, status facilities.CageStatus) error {
	defer r.s.write(ctx)()

	c, ok := r.s.t.cages[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.s.t.cages[id] = c
	return nil
}

func (r *facilityRepo) ListCages(ctx context.Context, f facilities.CageFilter) ([]facilities.Cage, error) {
	defer r.s.read(ctx)()

	out := make([]facilities.Cage, 0)
	for _, c := range r.s.t.cages {
		if f.RoomID != "" && c.RoomID != f.RoomID {
			continue
		}
		if f.BuildingID != "" && r.s.t.rooms[c.RoomID].BuildingID != f.BuildingID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sortByName(out, func(c facilities.Cage) string { return c.CageNumber })
	return out, nil
}

func (r *facilityRepo) CountCages(ctx context.Context, roomID string) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, c := range r.s.t.cages {
		if roomID == "" || c.RoomID == roomID {
			n++
		}
	}
	return n, nil
}
