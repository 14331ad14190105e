package postgres

import (
	"context"
	"database/sql"

	"vet-hospital/internal/domain/staff"
)

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

const staffColumns = `id, user_id, name, COALESCE(email, ''), COALESCE(phone, ''), staff_type_id,
	COALESCE(specialization, ''), COALESCE(license_number, ''), active, created_at, updated_at`

func scanMember(s scanner) (staff.Member, error) {
	var (
		m              staff.Member
		userID, typeID sql.NullString
	)
	err := s.Scan(&m.ID, &userID, &m.Name, &m.Email, &m.Phone, &typeID,
		&m.Specialization, &m.LicenseNumber, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	m.UserID = userID.String
	m.StaffTypeID = typeID.String
	return m, err
}

func (r *StaffRepo) Create(ctx context.Context, m staff.Member) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO staff (
			id, user_id, name, email, phone, staff_type_id,
			specialization, license_number, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		m.ID, nullString(m.UserID), m.Name, nullString(m.Email), nullString(m.Phone), nullString(m.StaffTypeID),
		nullString(m.Specialization), nullString(m.LicenseNumber), m.Active, m.CreatedAt, m.UpdatedAt,
	)
	return mapErr(err)
}

func (r *StaffRepo) Update(ctx context.Context, m staff.Member) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE staff
		SET user_id = $2, name = $3, email = $4, phone = $5, staff_type_id = $6,
			specialization = $7, license_number = $8, active = $9, updated_at = $10
		WHERE id = $1
	`,
		m.ID, nullString(m.UserID), m.Name, nullString(m.Email), nullString(m.Phone), nullString(m.StaffTypeID),
		nullString(m.Specialization), nullString(m.LicenseNumber), m.Active, m.UpdatedAt,
	))
}

func (r *StaffRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id))
}

func (r *StaffRepo) GetByID(ctx context.Context, id string) (staff.Member, error) {
	m, err := scanMember(conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		return staff.Member{}, mapErr(err)
	}
	return m, nil
}

func (r *StaffRepo) GetByUserID(ctx context.Context, userID string) (staff.Member, error) {
	m, err := scanMember(conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE user_id = $1`, userID))
	if err != nil {
		return staff.Member{}, mapErr(err)
	}
	return m, nil
}

func (r *StaffRepo) List(ctx context.Context, f staff.ListFilter) ([]staff.Member, error) {
	// nil => sin filtro; slice vacío => ningún usuario.
	var userIDs any
	if f.UserIDs != nil {
		userIDs = f.UserIDs
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+staffColumns+` FROM staff
		WHERE ($1 = '' OR staff_type_id::text = $1)
		  AND (NOT $2 OR active)
		  AND ($3::uuid[] IS NULL OR user_id = ANY($3::uuid[]))
		ORDER BY created_at
	`, f.StaffTypeID, f.ActiveOnly, userIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]staff.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type StaffTypesRepo struct {
	db *sql.DB
}

func NewStaffTypesRepo(db *sql.DB) *StaffTypesRepo {
	return &StaffTypesRepo{db: db}
}

func (r *StaffTypesRepo) CreateType(ctx context.Context, t staff.StaffType) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO staff_types (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, nullString(t.Description), t.CreatedAt)
	return mapErr(err)
}

func (r *StaffTypesRepo) UpdateType(ctx context.Context, t staff.StaffType) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE staff_types SET name = $2, description = $3 WHERE id = $1`,
		t.ID, t.Name, nullString(t.Description)))
}

func (r *StaffTypesRepo) DeleteType(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM staff_types WHERE id = $1`, id))
}

func (r *StaffTypesRepo) GetType(ctx context.Context, id string) (staff.StaffType, error) {
	var t staff.StaffType
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM staff_types WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		return staff.StaffType{}, mapErr(err)
	}
	return t, nil
}

func (r *StaffTypesRepo) ListTypes(ctx context.Context) ([]staff.StaffType, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM staff_types ORDER BY lower(name)`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]staff.StaffType, 0)
	for rows.Next() {
		var t staff.StaffType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
