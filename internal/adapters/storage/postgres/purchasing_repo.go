package postgres

import (
	"context"
	"database/sql"
	"time"

	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/platform/apperr"
)

type PurchaseOrdersRepo struct {
	db *sql.DB
}

func NewPurchaseOrdersRepo(db *sql.DB) *PurchaseOrdersRepo {
	return &PurchaseOrdersRepo{db: db}
}

const orderColumns = `id, number, supplier, order_date, expected_date, status,
	COALESCE(notes, ''), total_amount, received_at, created_at, updated_at`

func scanOrder(s scanner) (purchasing.Order, error) {
	var (
		o                  purchasing.Order
		status             string
		expected, received sql.NullTime
	)
	err := s.Scan(&o.ID, &o.Number, &o.Supplier, &o.OrderDate, &expected, &status,
		&o.Notes, &o.TotalAmount, &received, &o.CreatedAt, &o.UpdatedAt)
	o.Status = purchasing.Status(status)
	o.ExpectedDate = timePtr(expected)
	o.ReceivedAt = timePtr(received)
	return o, err
}

func statusNames(statuses []purchasing.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Create y Update deben correr dentro de WithinTx para que cabecera e ítems sean atómicos.
func (r *PurchaseOrdersRepo) Create(ctx context.Context, o purchasing.Order) error {
	q := conn(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO purchase_orders (
			id, number, supplier, order_date, expected_date, status,
			notes, total_amount, received_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		o.ID, o.Number, o.Supplier, o.OrderDate, nullTime(o.ExpectedDate), string(o.Status),
		nullString(o.Notes), o.TotalAmount, nullTime(o.ReceivedAt), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	return insertOrderItems(ctx, q, o)
}

func insertOrderItems(ctx context.Context, q querier, o purchasing.Order) error {
	for i, it := range o.Items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO purchase_order_items (id, order_id, medicine_id, quantity, unit_price, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, it.ID, o.ID, it.MedicineID, it.Quantity, it.UnitPrice, it.LineTotal, i)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *PurchaseOrdersRepo) Update(ctx context.Context, o purchasing.Order) error {
	q := conn(ctx, r.db)
	err := mustAffect(q.ExecContext(ctx, `
		UPDATE purchase_orders
		SET supplier = $2, order_date = $3, expected_date = $4, notes = $5, total_amount = $6, updated_at = $7
		WHERE id = $1
	`, o.ID, o.Supplier, o.OrderDate, nullTime(o.ExpectedDate), nullString(o.Notes), o.TotalAmount, o.UpdatedAt))
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1`, o.ID); err != nil {
		return mapErr(err)
	}
	return insertOrderItems(ctx, q, o)
}

func (r *PurchaseOrdersRepo) GetByID(ctx context.Context, id string) (purchasing.Order, error) {
	q := conn(ctx, r.db)
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return purchasing.Order{}, mapErr(err)
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return purchasing.Order{}, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []purchasing.Item{}
	}
	return o, nil
}

func (r *PurchaseOrdersRepo) items(ctx context.Context, orderIDs []string) (map[string][]purchasing.Item, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, order_id, medicine_id, quantity, unit_price, line_total
		FROM purchase_order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := map[string][]purchasing.Item{}
	for rows.Next() {
		var it purchasing.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MedicineID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *PurchaseOrdersRepo) List(ctx context.Context, f purchasing.ListFilter) ([]purchasing.Order, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+orderColumns+` FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at
	`, string(f.Status))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]purchasing.Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
		if out[i].Items == nil {
			out[i].Items = []purchasing.Item{}
		}
	}
	return out, nil
}

// Transition es un UPDATE condicional: dos recepciones concurrentes no pueden pasar las dos.
func (r *PurchaseOrdersRepo) Transition(ctx context.Context, id string, from []purchasing.Status, to purchasing.Status, at time.Time) error {
	var receivedAt any
	if to == purchasing.StatusReceived {
		receivedAt = at
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE purchase_orders
		SET status = $3, updated_at = $4, received_at = COALESCE($5, received_at)
		WHERE id = $1 AND status = ANY($2)
	`, id, statusNames(from), string(to), at, receivedAt)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapErr(err)
	}
	if !exists {
		return apperr.ErrNotFound
	}
	return purchasing.ErrNotOpen
}

func (r *PurchaseOrdersRepo) CountByStatus(ctx context.Context, statuses []purchasing.Status) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM purchase_orders WHERE status = ANY($1)`, statusNames(statuses)).Scan(&n)
	return n, mapErr(err)
}
