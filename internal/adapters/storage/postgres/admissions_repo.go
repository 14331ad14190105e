package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vet-hospital/internal/domain/admissions"
)

type AdmissionsRepo struct {
	db *sql.DB
}

func NewAdmissionsRepo(db *sql.DB) *AdmissionsRepo {
	return &AdmissionsRepo{db: db}
}

var activeAdmissionStatuses = []string{string(admissions.StatusPending), string(admissions.StatusAdmitted)}

const admissionColumns = `id, number, pet_id, admission_date, discharge_date, status,
	cage_id, doctor_id, COALESCE(reason, ''), COALESCE(diagnosis, ''), COALESCE(symptoms, ''),
	xray_date, operation_date, antibiotic_schedule, COALESCE(blood_test_notes, ''),
	amount_received, COALESCE(notes, ''), created_at, updated_at`

func scanAdmission(s scanner) (admissions.Admission, error) {
	var (
		a                          admissions.Admission
		status                     string
		discharge, xray, operation sql.NullTime
		cage, doctor               sql.NullString
		schedule                   []byte
	)
	err := s.Scan(
		&a.ID, &a.Number, &a.PetID, &a.AdmissionDate, &discharge, &status,
		&cage, &doctor, &a.Reason, &a.Diagnosis, &a.Symptoms,
		&xray, &operation, &schedule, &a.BloodTestNotes,
		&a.AmountReceived, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return admissions.Admission{}, err
	}
	a.Status = admissions.Status(status)
	a.DischargeDate = timePtr(discharge)
	a.XrayDate = timePtr(xray)
	a.OperationDate = timePtr(operation)
	a.CageID = cage.String
	a.DoctorID = doctor.String
	if len(schedule) > 0 {
		a.AntibioticSchedule = json.RawMessage(schedule)
	}
	return a, nil
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *AdmissionsRepo) Create(ctx context.Context, a admissions.Admission) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO admissions (
			id, number, pet_id, admission_date, discharge_date, status,
			cage_id, doctor_id, reason, diagnosis, symptoms,
			xray_date, operation_date, antibiotic_schedule, blood_test_notes,
			amount_received, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		a.ID, a.Number, a.PetID, a.AdmissionDate, nullTime(a.DischargeDate), string(a.Status),
		nullString(a.CageID), nullString(a.DoctorID), nullString(a.Reason), nullString(a.Diagnosis), nullString(a.Symptoms),
		nullTime(a.XrayDate), nullTime(a.OperationDate), nullJSON(a.AntibioticSchedule), nullString(a.BloodTestNotes),
		a.AmountReceived, nullString(a.Notes), a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (r *AdmissionsRepo) Update(ctx context.Context, a admissions.Admission) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE admissions
		SET
			admission_date = $2,
			discharge_date = $3,
			status = $4,
			cage_id = $5,
			doctor_id = $6,
			reason = $7,
			diagnosis = $8,
			symptoms = $9,
			xray_date = $10,
			operation_date = $11,
			antibiotic_schedule = $12,
			blood_test_notes = $13,
			amount_received = $14,
			notes = $15,
			updated_at = $16
		WHERE id = $1
	`,
		a.ID, a.AdmissionDate, nullTime(a.DischargeDate), string(a.Status),
		nullString(a.CageID), nullString(a.DoctorID), nullString(a.Reason), nullString(a.Diagnosis), nullString(a.Symptoms),
		nullTime(a.XrayDate), nullTime(a.OperationDate), nullJSON(a.AntibioticSchedule), nullString(a.BloodTestNotes),
		a.AmountReceived, nullString(a.Notes), a.UpdatedAt,
	))
}

func (r *AdmissionsRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM admissions WHERE id = $1`, id))
}

func (r *AdmissionsRepo) GetByID(ctx context.Context, id string) (admissions.Admission, error) {
	a, err := scanAdmission(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = $1`, id))
	if err != nil {
		return admissions.Admission{}, mapErr(err)
	}
	return a, nil
}

func (r *AdmissionsRepo) List(ctx context.Context, f admissions.ListFilter) ([]admissions.Admission, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+admissionColumns+` FROM admissions
		WHERE ($1 = '' OR status = $1)
		  AND (NOT $2 OR status = ANY($3))
		  AND ($4 = '' OR pet_id::text = $4)
		  AND ($5 = '' OR cage_id::text = $5)
		  AND ($6 = '' OR doctor_id::text = $6)
		ORDER BY admission_date
	`, string(f.Status), f.ActiveOnly, activeAdmissionStatuses, f.PetID, f.CageID, f.DoctorID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]admissions.Admission, 0)
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AdmissionsRepo) CountActiveInCage(ctx context.Context, cageID, excludeID string) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT count(*) FROM admissions
		WHERE cage_id = $1 AND status = ANY($2) AND ($3 = '' OR id::text <> $3)
	`, cageID, activeAdmissionStatuses, excludeID).Scan(&n)
	return n, mapErr(err)
}

func (r *AdmissionsRepo) CountActiveByCage(ctx context.Context, cageIDs []string) (map[string]int, error) {
	if cageIDs == nil {
		cageIDs = []string{}
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT cage_id, count(*) FROM admissions
		WHERE cage_id IS NOT NULL
		  AND status = ANY($1)
		  AND (cardinality($2::uuid[]) = 0 OR cage_id = ANY($2::uuid[]))
		GROUP BY cage_id
	`, activeAdmissionStatuses, cageIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make(map[string]int, len(cageIDs))
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *AdmissionsRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM admissions WHERE status = ANY($1)`, activeAdmissionStatuses).Scan(&n)
	return n, mapErr(err)
}

func (r *AdmissionsRepo) OpenAllotment(ctx context.Context, al admissions.CageAllotment) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO cage_allotments (id, admission_id, cage_id, pet_id, allotment_status, allotted_at, released_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, al.ID, al.AdmissionID, al.CageID, al.PetID, string(al.Status), al.AllottedAt, nullTime(al.ReleasedAt))
	return mapErr(err)
}

func (r *AdmissionsRepo) ReleaseAllotments(ctx context.Context, admissionID string, at time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE cage_allotments
		SET allotment_status = $2, released_at = $3
		WHERE admission_id = $1 AND allotment_status = $4
	`, admissionID, string(admissions.AllotmentReleased), at, string(admissions.AllotmentActive))
	return mapErr(err)
}

func (r *AdmissionsRepo) ListAllotments(ctx context.Context, admissionID string) ([]admissions.CageAllotment, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, admission_id, cage_id, pet_id, allotment_status, allotted_at, released_at
		FROM cage_allotments
		WHERE admission_id = $1
		ORDER BY allotted_at
	`, admissionID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]admissions.CageAllotment, 0)
	for rows.Next() {
		var (
			al       admissions.CageAllotment
			status   string
			released sql.NullTime
		)
		if err := rows.Scan(&al.ID, &al.AdmissionID, &al.CageID, &al.PetID, &status, &al.AllottedAt, &released); err != nil {
			return nil, err
		}
		al.Status = admissions.AllotmentStatus(status)
		al.ReleasedAt = timePtr(released)
		out = append(out, al)
	}
	return out, rows.Err()
}
