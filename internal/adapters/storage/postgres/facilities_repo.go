package postgres

import (
	"context"
	"database/sql"

	"vet-hospital/internal/domain/facilities"
)

type FacilitiesRepo struct {
	db *sql.DB
}

func NewFacilitiesRepo(db *sql.DB) *FacilitiesRepo {
	return &FacilitiesRepo{db: db}
}

// ----- Buildings -----

const buildingColumns = `id, name, COALESCE(code, ''), COALESCE(description, ''), created_at, updated_at`

func scanBuilding(s scanner) (facilities.Building, error) {
	var b facilities.Building
	err := s.Scan(&b.ID, &b.Name, &b.Code, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *FacilitiesRepo) CreateBuilding(ctx context.Context, b facilities.Building) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO buildings (id, name, code, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.Name, nullString(b.Code), nullString(b.Description), b.CreatedAt, b.UpdatedAt)
	return mapErr(err)
}

func (r *FacilitiesRepo) UpdateBuilding(ctx context.Context, b facilities.Building) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE buildings SET name = $2, code = $3, description = $4, updated_at = $5 WHERE id = $1
	`, b.ID, b.Name, nullString(b.Code), nullString(b.Description), b.UpdatedAt))
}

func (r *FacilitiesRepo) DeleteBuilding(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM buildings WHERE id = $1`, id))
}

func (r *FacilitiesRepo) GetBuilding(ctx context.Context, id string) (facilities.Building, error) {
	b, err := scanBuilding(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE id = $1`, id))
	if err != nil {
		return facilities.Building{}, mapErr(err)
	}
	return b, nil
}

func (r *FacilitiesRepo) ListBuildings(ctx context.Context) ([]facilities.Building, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+buildingColumns+` FROM buildings ORDER BY lower(name)`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]facilities.Building, 0)
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ----- Rooms -----

const roomColumns = `id, building_id, name, COALESCE(floor, ''), COALESCE(description, ''), created_at, updated_at`

func scanRoom(s scanner) (facilities.Room, error) {
	var room facilities.Room
	err := s.Scan(&room.ID, &room.BuildingID, &room.Name, &room.Floor, &room.Description, &room.CreatedAt, &room.UpdatedAt)
	return room, err
}

func (r *FacilitiesRepo) CreateRoom(ctx context.Context, room facilities.Room) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO rooms (id, building_id, name, floor, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, room.ID, room.BuildingID, room.Name, nullString(room.Floor), nullString(room.Description), room.CreatedAt, room.UpdatedAt)
	return mapErr(err)
}

func (r *FacilitiesRepo) UpdateRoom(ctx context.Context, room facilities.Room) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE rooms SET building_id = $2, name = $3, floor = $4, description = $5, updated_at = $6 WHERE id = $1
	`, room.ID, room.BuildingID, room.Name, nullString(room.Floor), nullString(room.Description), room.UpdatedAt))
}

func (r *FacilitiesRepo) DeleteRoom(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id))
}

func (r *FacilitiesRepo) GetRoom(ctx context.Context, id string) (facilities.Room, error) {
	room, err := scanRoom(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		return facilities.Room{}, mapErr(err)
	}
	return room, nil
}

func (r *FacilitiesRepo) ListRooms(ctx context.Context, buildingID string) ([]facilities.Room, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+roomColumns+` FROM rooms
		WHERE ($1 = '' OR building_id::text = $1)
		ORDER BY lower(name)
	`, buildingID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]facilities.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *FacilitiesRepo) CountRooms(ctx context.Context, buildingID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM rooms WHERE building_id = $1`, buildingID).Scan(&n)
	return n, mapErr(err)
}

// ----- Cages -----

const cageColumns = `c.id, c.room_id, c.cage_number, c.max_pet_count, c.status, COALESCE(c.notes, ''), c.created_at, c.updated_at`

func scanCage(s scanner) (facilities.Cage, error) {
	var (
		c      facilities.Cage
		status string
	)
	err := s.Scan(&c.ID, &c.RoomID, &c.CageNumber, &c.MaxPetCount, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	c.Status = facilities.CageStatus(status)
	return c, err
}

func (r *FacilitiesRepo) CreateCage(ctx context.Context, c facilities.Cage) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO cages (id, room_id, cage_number, max_pet_count, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.RoomID, c.CageNumber, c.MaxPetCount, string(c.Status), nullString(c.Notes), c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *FacilitiesRepo) UpdateCage(ctx context.Context, c facilities.Cage) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE cages
		SET room_id = $2, cage_number = $3, max_pet_count = $4, status = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.RoomID, c.CageNumber, c.MaxPetCount, string(c.Status), nullString(c.Notes), c.UpdatedAt))
}

func (r *FacilitiesRepo) DeleteCage(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM cages WHERE id = $1`, id))
}

func (r *FacilitiesRepo) GetCage(ctx context.Context, id string) (facilities.Cage, error) {
	c, err := scanCage(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+cageColumns+` FROM cages c WHERE c.id = $1`, id))
	if err != nil {
		return facilities.Cage{}, mapErr(err)
	}
	return c, nil
}

func (r *FacilitiesRepo) GetCageForUpdate(ctx context.Context, id string) (facilities.Cage, error) {
	c, err := scanCage(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+cageColumns+` FROM cages c WHERE c.id = $1 FOR UPDATE`, id))
	if err != nil {
		return facilities.Cage{}, mapErr(err)
	}
	return c, nil
}

func (r *FacilitiesRepo) SetCageStatus(ctx context.Context, id string, status facilities.CageStatus) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE cages SET status = $2, updated_at = now() WHERE id = $1`, id, string(status)))
}

func (r *FacilitiesRepo) ListCages(ctx context.Context, f facilities.CageFilter) ([]facilities.Cage, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+cageColumns+`
		FROM cages c
		JOIN rooms rm ON rm.id = c.room_id
		WHERE ($1 = '' OR c.room_id::text = $1)
		  AND ($2 = '' OR rm.building_id::text = $2)
		  AND ($3 = '' OR c.status = $3)
		ORDER BY lower(c.cage_number)
	`, f.RoomID, f.BuildingID, string(f.Status))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]facilities.Cage, 0)
	for rows.Next() {
		c, err := scanCage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *FacilitiesRepo) CountCages(ctx context.Context, roomID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM cages WHERE ($1 = '' OR room_id::text = $1)`, roomID).Scan(&n)
	return n, mapErr(err)
}
