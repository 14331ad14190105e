package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerColumns = `id, name, phone, COALESCE(email, ''), COALESCE(address, ''), active, COALESCE(notes, ''), created_at, updated_at`

func scanOwner(s scanner) (owners.Owner, error) {
	var o owners.Owner
	err := s.Scan(&o.ID, &o.Name, &o.Phone, &o.Email, &o.Address, &o.Active, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO owners (id, name, phone, email, address, active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.Name, o.Phone, nullString(o.Email), nullString(o.Address), o.Active, nullString(o.Notes), o.CreatedAt, o.UpdatedAt)
	if phoneTaken(err) {
		return owners.ErrPhoneTaken
	}
	return mapErr(err)
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE owners
		SET name = $2, phone = $3, email = $4, address = $5, active = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`, o.ID, o.Name, o.Phone, nullString(o.Email), nullString(o.Address), o.Active, nullString(o.Notes), o.UpdatedAt)
	if phoneTaken(err) {
		return owners.ErrPhoneTaken
	}
	return mustAffect(res, err)
}

func phoneTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == "owners_active_phone_key"
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id))
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Owner{}, apperr.ErrNotFound
	}
	o, err := scanOwner(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id))
	if err != nil {
		return owners.Owner{}, mapErr(err)
	}
	return o, nil
}

func (r *OwnersRepo) FindActiveByPhone(ctx context.Context, phone string) (owners.Owner, error) {
	o, err := scanOwner(conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+ownerColumns+` FROM owners
		WHERE phone = $1 AND active
	`, phone))
	if err != nil {
		return owners.Owner{}, mapErr(err)
	}
	return o, nil
}

func (r *OwnersRepo) List(ctx context.Context, f owners.ListFilter) ([]owners.Owner, error) {
	var active any
	if f.Active != nil {
		active = *f.Active
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+ownerColumns+` FROM owners
		WHERE ($1 = '' OR name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)
		  AND ($3::boolean IS NULL OR active = $3)
		ORDER BY created_at
	`, strings.TrimSpace(f.Query), like(strings.TrimSpace(f.Query)), active)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
