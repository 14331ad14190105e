package clinical

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdmissions struct {
	byID map[string]admissions.Admission
}

func (f fakeAdmissions) GetByID(_ context.Context, id string) (admissions.Admission, error) {
	a, ok := f.byID[id]
	if !ok {
		return admissions.Admission{}, apperr.ErrNotFound
	}
	return a, nil
}

func (f fakeAdmissions) List(_ context.Context, filter admissions.ListFilter) ([]admissions.Admission, error) {
	out := []admissions.Admission{}
	for _, a := range f.byID {
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.ActiveOnly && !a.Status.Active() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeStaff struct {
	byUser map[string]staff.Member
}

func (f fakeStaff) ForUser(_ context.Context, userID string) (staff.Member, error) {
	m, ok := f.byUser[userID]
	if !ok {
		return staff.Member{}, apperr.ErrNotFound
	}
	return m, nil
}

func (f fakeStaff) Exists(_ context.Context, id string) error {
	for _, m := range f.byUser {
		if m.ID == id {
			return nil
		}
	}
	return apperr.ErrNotFound
}

type fakeMedicines map[string]bool

func (f fakeMedicines) Exists(_ context.Context, id string) error {
	if !f[id] {
		return apperr.ErrNotFound
	}
	return nil
}

type fakeVisits struct {
	rows []Visit
}

func (f *fakeVisits) MergeVisit(_ context.Context, v Visit) (Visit, error) {
	for i, cur := range f.rows {
		if cur.AdmissionID == v.AdmissionID && cur.VisitDate.Equal(v.VisitDate) {
			for k, raw := range v.Vitals {
				cur.Vitals[k] = raw
			}
			if v.Notes != "" {
				cur.Notes = v.Notes
			}
			cur.UpdatedAt = v.UpdatedAt
			f.rows[i] = cur
			return cur, nil
		}
	}
	f.rows = append(f.rows, v)
	return v, nil
}

func (f *fakeVisits) ListVisits(_ context.Context, filter HistoryFilter) ([]Visit, error) {
	out := []Visit{}
	for _, v := range f.rows {
		if filter.PetID != "" && v.PetID != filter.PetID {
			continue
		}
		if filter.From != nil && v.VisitDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && v.VisitDate.After(*filter.To) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakePrescriptions struct {
	byID map[string]Prescription
}

func (f *fakePrescriptions) CreatePrescription(_ context.Context, p Prescription) error {
	f.byID[p.ID] = p
	return nil
}
func (f *fakePrescriptions) DeletePrescription(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}
func (f *fakePrescriptions) GetPrescription(_ context.Context, id string) (Prescription, error) {
	p, ok := f.byID[id]
	if !ok {
		return Prescription{}, apperr.ErrNotFound
	}
	return p, nil
}
func (f *fakePrescriptions) ListPrescriptions(_ context.Context, admissionID string) ([]Prescription, error) {
	out := []Prescription{}
	for _, p := range f.byID {
		if p.AdmissionID == admissionID {
			out = append(out, p)
		}
	}
	return out, nil
}

var clinicNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func newClinicalService(t *testing.T) (*Service, *fakeVisits) {
	t.Helper()
	visits := &fakeVisits{}
	svc := NewService(Deps{
		Visits:        visits,
		Prescriptions: &fakePrescriptions{byID: map[string]Prescription{}},
		Admissions: fakeAdmissions{byID: map[string]admissions.Admission{
			"adm-1": {ID: "adm-1", PetID: "pet-1", DoctorID: "st-1", Status: admissions.StatusAdmitted},
			"adm-2": {ID: "adm-2", PetID: "pet-2", DoctorID: "st-1", Status: admissions.StatusDischarged},
			"adm-3": {ID: "adm-3", PetID: "pet-3", DoctorID: "st-2", Status: admissions.StatusPending},
		}},
		Staff: fakeStaff{byUser: map[string]staff.Member{
			"user-doc": {ID: "st-1", UserID: "user-doc"},
		}},
		Medicines: fakeMedicines{"med-1": true},
	})
	svc.now = func() time.Time { return clinicNow }
	return svc, visits
}

func TestDashboard_OnlyActiveAssigned(t *testing.T) {
	svc, _ := newClinicalService(t)

	d, err := svc.Dashboard(context.Background(), "user-doc")
	require.NoError(t, err)
	assert.Equal(t, "st-1", d.StaffID)
	require.Len(t, d.Admissions, 1)
	assert.Equal(t, "adm-1", d.Admissions[0].ID)

	empty, err := svc.Dashboard(context.Background(), "user-without-staff")
	require.NoError(t, err)
	assert.Empty(t, empty.Admissions)
}

func TestRecordVisit_MergesShifts(t *testing.T) {
	svc, visits := newClinicalService(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, "user-doc", VisitInput{
		AdmissionID: "adm-1", Shift: "am", Vitals: json.RawMessage(`{"temp":38.5}`),
	})
	require.NoError(t, err)

	v, err := svc.RecordVisit(ctx, "user-doc", VisitInput{
		AdmissionID: "adm-1", Shift: ShiftPM, Vitals: json.RawMessage(`{"temp":39.1}`),
	})
	require.NoError(t, err)

	require.Len(t, visits.rows, 1)
	assert.JSONEq(t, `{"temp":38.5}`, string(v.Vitals["am"]))
	assert.JSONEq(t, `{"temp":39.1}`, string(v.Vitals["pm"]))
	assert.Equal(t, "st-1", v.DoctorID)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), v.VisitDate)
}

func TestRecordVisit_Rejections(t *testing.T) {
	svc, _ := newClinicalService(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, "user-doc", VisitInput{AdmissionID: "adm-1", Shift: "night"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordVisit(ctx, "user-doc", VisitInput{AdmissionID: "adm-1", Shift: ShiftAM, Vitals: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordVisit(ctx, "user-doc", VisitInput{AdmissionID: "adm-2", Shift: ShiftAM})
	assert.ErrorIs(t, err, apperr.ErrBadState)

	_, err = svc.RecordVisit(ctx, "user-doc", VisitInput{AdmissionID: "missing", Shift: ShiftAM})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrescribe_MedicineMustExist(t *testing.T) {
	svc, _ := newClinicalService(t)
	ctx := context.Background()

	_, err := svc.Prescribe(ctx, "user-doc", PrescriptionInput{AdmissionID: "adm-1", MedicineID: "nope", Dosage: "5mg"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.Prescribe(ctx, "user-doc", PrescriptionInput{AdmissionID: "adm-1", MedicineID: "med-1", Dosage: "5mg", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "st-1", p.PrescribedBy)

	items, err := svc.Prescriptions(ctx, "adm-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.DeletePrescription(ctx, p.ID))
	assert.ErrorIs(t, svc.DeletePrescription(ctx, p.ID), ErrNotFound)
}

func TestHistory_RejectsInvertedRange(t *testing.T) {
	svc, _ := newClinicalService(t)
	from := clinicNow
	to := clinicNow.AddDate(0, 0, -2)
	_, err := svc.History(context.Background(), HistoryFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
