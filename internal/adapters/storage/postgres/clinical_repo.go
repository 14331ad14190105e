package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vet-hospital/internal/domain/clinical"
)

// ClinicalRepo implementa los repos de tratamientos, visitas y recetas.
type ClinicalRepo struct {
	db *sql.DB
}

func NewClinicalRepo(db *sql.DB) *ClinicalRepo {
	return &ClinicalRepo{db: db}
}

// ----- Treatments -----

const treatmentColumns = `id, name, COALESCE(description, ''), COALESCE(default_dosage, ''), cost, created_at, updated_at`

func scanTreatment(s scanner) (clinical.Treatment, error) {
	var t clinical.Treatment
	err := s.Scan(&t.ID, &t.Name, &t.Description, &t.DefaultDosage, &t.Cost, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *ClinicalRepo) CreateTreatment(ctx context.Context, t clinical.Treatment) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO treatments (id, name, description, default_dosage, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Name, nullString(t.Description), nullString(t.DefaultDosage), t.Cost, t.CreatedAt, t.UpdatedAt)
	return mapErr(err)
}

func (r *ClinicalRepo) UpdateTreatment(ctx context.Context, t clinical.Treatment) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE treatments SET name = $2, description = $3, default_dosage = $4, cost = $5, updated_at = $6
		WHERE id = $1
	`, t.ID, t.Name, nullString(t.Description), nullString(t.DefaultDosage), t.Cost, t.UpdatedAt))
}

func (r *ClinicalRepo) DeleteTreatment(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id))
}

func (r *ClinicalRepo) GetTreatment(ctx context.Context, id string) (clinical.Treatment, error) {
	t, err := scanTreatment(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+treatmentColumns+` FROM treatments WHERE id = $1`, id))
	if err != nil {
		return clinical.Treatment{}, mapErr(err)
	}
	return t, nil
}

func (r *ClinicalRepo) ListTreatments(ctx context.Context, query string) ([]clinical.Treatment, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+treatmentColumns+` FROM treatments
		WHERE ($1 = '' OR name ILIKE $2 OR description ILIKE $2)
		ORDER BY lower(name)
	`, query, like(query))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]clinical.Treatment, 0)
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ----- Visits -----

const visitColumns = `id, admission_id, pet_id, doctor_id, visit_date, vitals, COALESCE(notes, ''), created_at, updated_at`

func scanVisit(s scanner) (clinical.Visit, error) {
	var (
		v      clinical.Visit
		doctor sql.NullString
		vitals []byte
	)
	if err := s.Scan(&v.ID, &v.AdmissionID, &v.PetID, &doctor, &v.VisitDate, &vitals, &v.Notes, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return clinical.Visit{}, err
	}
	v.DoctorID = doctor.String
	v.Vitals = map[string]json.RawMessage{}
	if len(vitals) > 0 {
		if err := json.Unmarshal(vitals, &v.Vitals); err != nil {
			return clinical.Visit{}, fmt.Errorf("decode vitals: %w", err)
		}
	}
	return v, nil
}

// MergeVisit hace el upsert en una sola sentencia; jsonb || mezcla los turnos.
func (r *ClinicalRepo) MergeVisit(ctx context.Context, v clinical.Visit) (clinical.Visit, error) {
	vitals := v.Vitals
	if vitals == nil {
		vitals = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(vitals)
	if err != nil {
		return clinical.Visit{}, fmt.Errorf("encode vitals: %w", err)
	}

	out, err := scanVisit(conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO doctor_visits (id, admission_id, pet_id, doctor_id, visit_date, vitals, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
		ON CONFLICT (admission_id, visit_date) DO UPDATE SET
			vitals     = doctor_visits.vitals || EXCLUDED.vitals,
			notes      = COALESCE(EXCLUDED.notes, doctor_visits.notes),
			doctor_id  = COALESCE(EXCLUDED.doctor_id, doctor_visits.doctor_id),
			updated_at = EXCLUDED.updated_at
		RETURNING `+visitColumns,
		v.ID, v.AdmissionID, v.PetID, nullString(v.DoctorID), v.VisitDate, string(raw),
		nullString(v.Notes), v.CreatedAt, v.UpdatedAt,
	))
	if err != nil {
		return clinical.Visit{}, mapErr(err)
	}
	return out, nil
}

func (r *ClinicalRepo) ListVisits(ctx context.Context, f clinical.HistoryFilter) ([]clinical.Visit, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+visitColumns+` FROM doctor_visits
		WHERE ($1 = '' OR admission_id::text = $1)
		  AND ($2 = '' OR pet_id::text = $2)
		  AND ($3 = '' OR doctor_id::text = $3)
		  AND ($4::date IS NULL OR visit_date >= $4::date)
		  AND ($5::date IS NULL OR visit_date <= $5::date)
		ORDER BY visit_date
	`, f.AdmissionID, f.PetID, f.DoctorID, nullTime(f.From), nullTime(f.To))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]clinical.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ----- Prescriptions -----

const prescriptionColumns = `id, admission_id, medicine_id, dosage, COALESCE(frequency, ''),
	duration_days, quantity, prescribed_by, COALESCE(notes, ''), created_at`

func scanPrescription(s scanner) (clinical.Prescription, error) {
	var (
		p  clinical.Prescription
		by sql.NullString
	)
	err := s.Scan(&p.ID, &p.AdmissionID, &p.MedicineID, &p.Dosage, &p.Frequency,
		&p.DurationDays, &p.Quantity, &by, &p.Notes, &p.CreatedAt)
	p.PrescribedBy = by.String
	return p, err
}

func (r *ClinicalRepo) CreatePrescription(ctx context.Context, p clinical.Prescription) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO prescriptions (
			id, admission_id, medicine_id, dosage, frequency,
			duration_days, quantity, prescribed_by, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID, p.AdmissionID, p.MedicineID, p.Dosage, nullString(p.Frequency),
		p.DurationDays, p.Quantity, nullString(p.PrescribedBy), nullString(p.Notes), p.CreatedAt,
	)
	return mapErr(err)
}

func (r *ClinicalRepo) DeletePrescription(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id))
}

func (r *ClinicalRepo) GetPrescription(ctx context.Context, id string) (clinical.Prescription, error) {
	p, err := scanPrescription(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE id = $1`, id))
	if err != nil {
		return clinical.Prescription{}, mapErr(err)
	}
	return p, nil
}

func (r *ClinicalRepo) ListPrescriptions(ctx context.Context, admissionID string) ([]clinical.Prescription, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE admission_id = $1 ORDER BY created_at`, admissionID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]clinical.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
