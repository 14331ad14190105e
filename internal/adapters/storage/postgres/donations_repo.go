package postgres

import (
	"context"
	"database/sql"

	"vet-hospital/internal/domain/donations"
)

type DonorsRepo struct {
	db *sql.DB
}

func NewDonorsRepo(db *sql.DB) *DonorsRepo {
	return &DonorsRepo{db: db}
}

const donorColumns = `id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''), COALESCE(notes, ''), created_at, updated_at`

func scanDonor(s scanner) (donations.Donor, error) {
	var d donations.Donor
	err := s.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.Address, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *DonorsRepo) CreateDonor(ctx context.Context, d donations.Donor) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO donors (id, name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.ID, d.Name, nullString(d.Phone), nullString(d.Email), nullString(d.Address), nullString(d.Notes), d.CreatedAt, d.UpdatedAt)
	return mapErr(err)
}

func (r *DonorsRepo) UpdateDonor(ctx context.Context, d donations.Donor) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE donors SET name = $2, phone = $3, email = $4, address = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, d.ID, d.Name, nullString(d.Phone), nullString(d.Email), nullString(d.Address), nullString(d.Notes), d.UpdatedAt))
}

func (r *DonorsRepo) DeleteDonor(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM donors WHERE id = $1`, id))
}

func (r *DonorsRepo) GetDonor(ctx context.Context, id string) (donations.Donor, error) {
	d, err := scanDonor(conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+donorColumns+` FROM donors WHERE id = $1`, id))
	if err != nil {
		return donations.Donor{}, mapErr(err)
	}
	return d, nil
}

func (r *DonorsRepo) ListDonors(ctx context.Context, query string) ([]donations.Donor, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+donorColumns+` FROM donors
		WHERE ($1 = '' OR name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)
		ORDER BY lower(name)
	`, query, like(query))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]donations.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type DonationsRepo struct {
	db *sql.DB
}

func NewDonationsRepo(db *sql.DB) *DonationsRepo {
	return &DonationsRepo{db: db}
}

const donationColumns = `id, donor_id, donor_name, amount, method, COALESCE(purpose, ''), admission_id,
	receipt_number, donated_at, COALESCE(notes, ''), COALESCE(receipt_key, ''), created_at`

func scanDonation(s scanner) (donations.Donation, error) {
	var (
		d                  donations.Donation
		method             string
		donor, admissionID sql.NullString
	)
	err := s.Scan(&d.ID, &donor, &d.DonorName, &d.Amount, &method, &d.Purpose, &admissionID,
		&d.ReceiptNumber, &d.DonatedAt, &d.Notes, &d.ReceiptKey, &d.CreatedAt)
	d.DonorID = donor.String
	d.AdmissionID = admissionID.String
	d.Method = donations.Method(method)
	return d, err
}

func (r *DonationsRepo) Create(ctx context.Context, d donations.Donation) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO donations (
			id, donor_id, donor_name, amount, method, purpose, admission_id,
			receipt_number, donated_at, notes, receipt_key, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		d.ID, nullString(d.DonorID), d.DonorName, d.Amount, string(d.Method), nullString(d.Purpose), nullString(d.AdmissionID),
		d.ReceiptNumber, d.DonatedAt, nullString(d.Notes), nullString(d.ReceiptKey), d.CreatedAt,
	)
	return mapErr(err)
}

func (r *DonationsRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, id))
}

func (r *DonationsRepo) GetByID(ctx context.Context, id string) (donations.Donation, error) {
	d, err := scanDonation(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1`, id))
	if err != nil {
		return donations.Donation{}, mapErr(err)
	}
	return d, nil
}

func (r *DonationsRepo) List(ctx context.Context, f donations.ListFilter) ([]donations.Donation, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+donationColumns+` FROM donations
		WHERE ($1 = '' OR donor_id::text = $1)
		  AND ($2 = '' OR admission_id::text = $2)
		  AND ($3::timestamptz IS NULL OR donated_at >= $3)
		  AND ($4::timestamptz IS NULL OR donated_at < $4)
		ORDER BY donated_at DESC
	`, f.DonorID, f.AdmissionID, nullTime(f.From), nullTime(f.To))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]donations.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DonationsRepo) SetReceiptKey(ctx context.Context, id, key string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx,
		`UPDATE donations SET receipt_key = $2 WHERE id = $1`, id, nullString(key)))
}
