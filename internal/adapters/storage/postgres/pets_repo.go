package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/platform/apperr"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, owner_id, pet_type_id, name, COALESCE(species, ''), COALESCE(breed, ''), gender,
	COALESCE(age, ''), weight, COALESCE(color, ''), COALESCE(tag_id, ''),
	removed, COALESCE(removal_reason, ''), removed_at, COALESCE(notes, ''), created_at, updated_at`

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p         pets.Pet
		petType   sql.NullString
		gender    string
		weight    sql.NullFloat64
		removedAt sql.NullTime
	)
	err := s.Scan(
		&p.ID, &p.OwnerID, &petType, &p.Name, &p.Species, &p.Breed, &gender,
		&p.Age, &weight, &p.Color, &p.TagID,
		&p.Removed, &p.RemovalReason, &removedAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.PetTypeID = petType.String
	p.Gender = pets.Gender(gender)
	if weight.Valid {
		w := weight.Float64
		p.Weight = &w
	}
	p.RemovedAt = timePtr(removedAt)
	return p, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_id, pet_type_id,
			name, species, breed, gender, age, weight, color, tag_id,
			removed, removal_reason, removed_at, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		p.ID, p.OwnerID, nullString(p.PetTypeID),
		p.Name, nullString(p.Species), nullString(p.Breed), string(p.Gender), nullString(p.Age),
		nullFloat(p.Weight), nullString(p.Color), nullString(p.TagID),
		p.Removed, nullString(p.RemovalReason), nullTime(p.RemovedAt), nullString(p.Notes),
		p.CreatedAt, p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE pets
		SET
			owner_id = $2,
			pet_type_id = $3,
			name = $4,
			species = $5,
			breed = $6,
			gender = $7,
			age = $8,
			weight = $9,
			color = $10,
			tag_id = $11,
			removed = $12,
			removal_reason = $13,
			removed_at = $14,
			notes = $15,
			updated_at = $16
		WHERE id = $1
	`,
		p.ID, p.OwnerID, nullString(p.PetTypeID),
		p.Name, nullString(p.Species), nullString(p.Breed), string(p.Gender), nullString(p.Age),
		nullFloat(p.Weight), nullString(p.Color), nullString(p.TagID),
		p.Removed, nullString(p.RemovalReason), nullTime(p.RemovedAt), nullString(p.Notes),
		p.UpdatedAt,
	))
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, apperr.ErrNotFound
	}
	p, err := scanPet(conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if err != nil {
		return pets.Pet{}, mapErr(err)
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	q := strings.TrimSpace(f.Query)
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+petColumns+` FROM pets
		WHERE ($1 = '' OR owner_id::text = $1)
		  AND ($2 = '' OR pet_type_id::text = $2)
		  AND ($3 = '' OR name ILIKE $4 OR tag_id ILIKE $4 OR species ILIKE $4 OR breed ILIKE $4)
		  AND ($5 OR NOT removed)
		ORDER BY created_at
	`, f.OwnerID, f.PetTypeID, q, like(q), f.IncludeRemoved)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM pets WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, mapErr(err)
}

func (r *PetsRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM pets WHERE NOT removed OR removal_reason = $1`, pets.RemovalCured).Scan(&n)
	return n, mapErr(err)
}

type PetTypesRepo struct {
	db *sql.DB
}

func NewPetTypesRepo(db *sql.DB) *PetTypesRepo {
	return &PetTypesRepo{db: db}
}

func (r *PetTypesRepo) CreateType(ctx context.Context, t pets.PetType) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO pet_types (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, nullString(t.Description), t.CreatedAt)
	return mapErr(err)
}

func (r *PetTypesRepo) UpdateType(ctx context.Context, t pets.PetType) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE pet_types SET name = $2, description = $3 WHERE id = $1`,
		t.ID, t.Name, nullString(t.Description)))
}

func (r *PetTypesRepo) DeleteType(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM pet_types WHERE id = $1`, id))
}

func (r *PetTypesRepo) GetType(ctx context.Context, id string) (pets.PetType, error) {
	var t pets.PetType
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM pet_types WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		return pets.PetType{}, mapErr(err)
	}
	return t, nil
}

func (r *PetTypesRepo) ListTypes(ctx context.Context) ([]pets.PetType, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM pet_types ORDER BY lower(name)`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]pets.PetType, 0)
	for rows.Next() {
		var t pets.PetType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
