package postgres

import (
	"context"
	"database/sql"
	"time"

	"vet-hospital/internal/domain/billing"
)

type BillsRepo struct {
	db *sql.DB
}

func NewBillsRepo(db *sql.DB) *BillsRepo {
	return &BillsRepo{db: db}
}

const billColumns = `id, invoice_number, admission_id, owner_id, subtotal, discount, total,
	amount_paid, status, COALESCE(notes, ''), issued_at, created_at, updated_at`

func scanBill(s scanner) (billing.Bill, error) {
	var (
		b           billing.Bill
		admissionID sql.NullString
		status      string
	)
	err := s.Scan(&b.ID, &b.InvoiceNumber, &admissionID, &b.OwnerID, &b.Subtotal, &b.Discount, &b.Total,
		&b.AmountPaid, &status, &b.Notes, &b.IssuedAt, &b.CreatedAt, &b.UpdatedAt)
	b.AdmissionID = admissionID.String
	b.Status = billing.Status(status)
	return b, err
}

func (r *BillsRepo) Create(ctx context.Context, b billing.Bill) error {
	q := conn(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO bills (
			id, invoice_number, admission_id, owner_id, subtotal, discount, total,
			amount_paid, status, notes, issued_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		b.ID, b.InvoiceNumber, nullString(b.AdmissionID), b.OwnerID, b.Subtotal, b.Discount, b.Total,
		b.AmountPaid, string(b.Status), nullString(b.Notes), b.IssuedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	for i, it := range b.Items {
		_, err := q.ExecContext(ctx, `
			INSERT INTO bill_items (id, bill_id, description, quantity, unit_price, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, it.ID, b.ID, it.Description, it.Quantity, it.UnitPrice, it.LineTotal, i)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *BillsRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	return r.get(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
}

func (r *BillsRepo) GetForUpdate(ctx context.Context, id string) (billing.Bill, error) {
	return r.get(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, id)
}

func (r *BillsRepo) get(ctx context.Context, query, id string) (billing.Bill, error) {
	b, err := scanBill(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return billing.Bill{}, mapErr(err)
	}
	items, err := r.items(ctx, []string{b.ID})
	if err != nil {
		return billing.Bill{}, err
	}
	b.Items = items[b.ID]
	if b.Items == nil {
		b.Items = []billing.Item{}
	}
	return b, nil
}

func (r *BillsRepo) items(ctx context.Context, billIDs []string) (map[string][]billing.Item, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, bill_id, description, quantity, unit_price, line_total
		FROM bill_items
		WHERE bill_id = ANY($1::uuid[])
		ORDER BY bill_id, position
	`, billIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := map[string][]billing.Item{}
	for rows.Next() {
		var it billing.Item
		if err := rows.Scan(&it.ID, &it.BillID, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		out[it.BillID] = append(out[it.BillID], it)
	}
	return out, rows.Err()
}

func (r *BillsRepo) List(ctx context.Context, f billing.ListFilter) ([]billing.Bill, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+billColumns+` FROM bills
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR owner_id::text = $2)
		  AND ($3 = '' OR admission_id::text = $3)
		ORDER BY created_at
	`, string(f.Status), f.OwnerID, f.AdmissionID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]billing.Bill, 0)
	ids := make([]string, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		ids = append(ids, b.ID)
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
			out[i].Items = []billing.Item{}
		}
	}
	return out, nil
}

func (r *BillsRepo) SetPaid(ctx context.Context, id string, amountPaid float64, status billing.Status, at time.Time) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE bills SET amount_paid = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, amountPaid, string(status), at))
}

func (r *BillsRepo) SetStatus(ctx context.Context, id string, status billing.Status, at time.Time) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE bills SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at))
}

func (r *BillsRepo) AddPayment(ctx context.Context, p billing.Payment) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO payments (id, bill_id, amount, method, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.BillID, p.Amount, p.Method, p.PaidAt, nullString(p.Notes))
	return mapErr(err)
}

func (r *BillsRepo) ListPayments(ctx context.Context, billID string) ([]billing.Payment, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, bill_id, amount, method, paid_at, COALESCE(notes, '')
		FROM payments WHERE bill_id = $1 ORDER BY paid_at
	`, billID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]billing.Payment, 0)
	for rows.Next() {
		var p billing.Payment
		if err := rows.Scan(&p.ID, &p.BillID, &p.Amount, &p.Method, &p.PaidAt, &p.Notes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
