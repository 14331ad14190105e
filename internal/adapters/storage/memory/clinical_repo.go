package memory

import (
	"context"
	"encoding/json"
	"maps"
	"strings"
	"time"

	"vet-hospital/internal/domain/clinical"
	"vet-hospital/internal/platform/apperr"
)

type ClinicalRepo struct {
	s *Store
}

// NewClinicalRepo implementa los tres repos de clinical sobre el mismo Store.
func NewClinicalRepo(s *Store) *ClinicalRepo {
	return &ClinicalRepo{s: s}
}

var (
	_ clinical.TreatmentRepository    = (*ClinicalRepo)(nil)
	_ clinical.VisitRepository        = (*ClinicalRepo)(nil)
	_ clinical.PrescriptionRepository = (*ClinicalRepo)(nil)
)

// ----- Treatments -----

func (r *ClinicalRepo) CreateTreatment(ctx context.Context, t clinical.Treatment) error {
	defer r.s.write(ctx)()

	if err := r.uniqueTreatment(t); err != nil {
		return err
	}
	r.s.t.treatments[t.ID] = t
	return nil
}

func (r *ClinicalRepo) UpdateTreatment(ctx context.Context, t clinical.Treatment) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.treatments[t.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueTreatment(t); err != nil {
		return err
	}
	r.s.t.treatments[t.ID] = t
	return nil
}

func (r *ClinicalRepo) uniqueTreatment(t clinical.Treatment) error {
	for _, other := range r.s.t.treatments {
		if other.ID != t.ID && strings.EqualFold(other.Name, t.Name) {
			return apperr.Conflict("treatment name already exists")
		}
	}
	return nil
}

func (r *ClinicalRepo) DeleteTreatment(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.treatments[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.treatments, id)
	return nil
}

func (r *ClinicalRepo) GetTreatment(ctx context.Context, id string) (clinical.Treatment, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.t.treatments[id]
	if !ok {
		return clinical.Treatment{}, apperr.ErrNotFound
	}
	return t, nil
}

func (r *ClinicalRepo) ListTreatments(ctx context.Context, query string) ([]clinical.Treatment, error) {
	defer r.s.read(ctx)()

	out := make([]clinical.Treatment, 0)
	for _, t := range r.s.t.treatments {
		if contains(query, t.Name, t.Description) {
			out = append(out, t)
		}
	}
	sortByName(out, func(t clinical.Treatment) string { return t.Name })
	return out, nil
}

// ----- Visits -----

func (r *ClinicalRepo) MergeVisit(ctx context.Context, v clinical.Visit) (clinical.Visit, error) {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.admissions[v.AdmissionID]; !ok {
		return clinical.Visit{}, apperr.Invalid("admission not found")
	}
	for id, cur := range r.s.t.visits {
		if cur.AdmissionID != v.AdmissionID || !cur.VisitDate.Equal(v.VisitDate) {
			continue
		}
		merged := cur
		merged.Vitals = make(map[string]json.RawMessage, len(cur.Vitals)+len(v.Vitals))
		maps.Copy(merged.Vitals, cur.Vitals)
		maps.Copy(merged.Vitals, v.Vitals)
		if v.Notes != "" {
			merged.Notes = v.Notes
		}
		if v.DoctorID != "" {
			merged.DoctorID = v.DoctorID
		}
		merged.UpdatedAt = v.UpdatedAt
		r.s.t.visits[id] = merged
		return merged, nil
	}
	r.s.t.visits[v.ID] = v
	return v, nil
}

func (r *ClinicalRepo) ListVisits(ctx context.Context, f clinical.HistoryFilter) ([]clinical.Visit, error) {
	defer r.s.read(ctx)()

	out := make([]clinical.Visit, 0)
	for _, v := range r.s.t.visits {
		if f.AdmissionID != "" && v.AdmissionID != f.AdmissionID {
			continue
		}
		if f.PetID != "" && v.PetID != f.PetID {
			continue
		}
		if f.DoctorID != "" && v.DoctorID != f.DoctorID {
			continue
		}
		if f.From != nil && v.VisitDate.Before(*f.From) {
			continue
		}
		if f.To != nil && v.VisitDate.After(*f.To) {
			continue
		}
		out = append(out, v)
	}
	sortByCreated(out, func(v clinical.Visit) time.Time { return v.VisitDate })
	return out, nil
}

// ----- Prescriptions -----

func (r *ClinicalRepo) CreatePrescription(ctx context.Context, p clinical.Prescription) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.medicines[p.MedicineID]; !ok {
		return apperr.Invalid("medicine not found")
	}
	r.s.t.prescriptions[p.ID] = p
	return nil
}

func (r *ClinicalRepo) DeletePrescription(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.prescriptions[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.prescriptions, id)
	return nil
}

func (r *ClinicalRepo) GetPrescription(ctx context.Context, id string) (clinical.Prescription, error) {
	defer r.s.read(ctx)()

	p, ok := r.s.t.prescriptions[id]
	if !ok {
		return clinical.Prescription{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *ClinicalRepo) ListPrescriptions(ctx context.Context, admissionID string) ([]clinical.Prescription, error) {
	defer r.s.read(ctx)()

	out := make([]clinical.Prescription, 0)
	for _, p := range r.s.t.prescriptions {
		if p.AdmissionID == admissionID {
			out = append(out, p)
		}
	}
	sortByCreated(out, func(p clinical.Prescription) time.Time { return p.CreatedAt })
	return out, nil
}
