package postgres

import (
	"context"
	"database/sql"
	"errors"

	"vet-hospital/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

const medicineColumns = `id, name, COALESCE(generic_name, ''), COALESCE(category, ''), COALESCE(unit, ''),
	stock_quantity, reorder_level, unit_price, expiry_date,
	COALESCE(manufacturer, ''), COALESCE(notes, ''), created_at, updated_at`

func scanMedicine(s scanner) (medicines.Medicine, error) {
	var (
		m      medicines.Medicine
		expiry sql.NullTime
	)
	err := s.Scan(&m.ID, &m.Name, &m.GenericName, &m.Category, &m.Unit,
		&m.StockQuantity, &m.ReorderLevel, &m.UnitPrice, &expiry,
		&m.Manufacturer, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	m.ExpiryDate = timePtr(expiry)
	return m, err
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO medicines (
			id, name, generic_name, category, unit,
			stock_quantity, reorder_level, unit_price, expiry_date,
			manufacturer, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		m.ID, m.Name, nullString(m.GenericName), nullString(m.Category), nullString(m.Unit),
		m.StockQuantity, m.ReorderLevel, m.UnitPrice, nullTime(m.ExpiryDate),
		nullString(m.Manufacturer), nullString(m.Notes), m.CreatedAt, m.UpdatedAt,
	)
	return mapErr(err)
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE medicines
		SET name = $2, generic_name = $3, category = $4, unit = $5,
			stock_quantity = $6, reorder_level = $7, unit_price = $8, expiry_date = $9,
			manufacturer = $10, notes = $11, updated_at = $12
		WHERE id = $1
	`,
		m.ID, m.Name, nullString(m.GenericName), nullString(m.Category), nullString(m.Unit),
		m.StockQuantity, m.ReorderLevel, m.UnitPrice, nullTime(m.ExpiryDate),
		nullString(m.Manufacturer), nullString(m.Notes), m.UpdatedAt,
	))
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id))
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	m, err := scanMedicine(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id))
	if err != nil {
		return medicines.Medicine{}, mapErr(err)
	}
	return m, nil
}

func (r *MedicinesRepo) List(ctx context.Context, f medicines.ListFilter) ([]medicines.Medicine, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+medicineColumns+` FROM medicines
		WHERE ($1 = '' OR name ILIKE $2 OR generic_name ILIKE $2)
		  AND ($3 = '' OR lower(category) = lower($3))
		  AND (NOT $4 OR stock_quantity <= reorder_level)
		ORDER BY lower(name)
	`, f.Query, like(f.Query), f.Category, f.LowStock)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AdjustStock resuelve la suma en la base: dos ajustes concurrentes nunca se pisan.
func (r *MedicinesRepo) AdjustStock(ctx context.Context, id string, delta int) (medicines.Medicine, error) {
	m, err := scanMedicine(conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE medicines
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING `+medicineColumns,
		id, delta))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return medicines.Medicine{}, mapErr(err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return medicines.Medicine{}, err
	}
	return medicines.Medicine{}, medicines.ErrInsufficientStock
}

func (r *MedicinesRepo) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM medicines WHERE stock_quantity <= reorder_level`).Scan(&n)
	return n, mapErr(err)
}
