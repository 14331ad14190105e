package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/platform/apperr"
)

type admissionRepo struct {
	s *Store
}

// NewAdmissionRepo también sirve como facilities.OccupancyCounter.
func NewAdmissionRepo(s *Store) admissions.Repository {
	return &admissionRepo{s: s}
}

func (r *admissionRepo) Create(ctx context.Context, a admissions.Admission) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(a.ID) == "" {
		return errIDRequired
	}
	if _, ok := r.s.t.admissions[a.ID]; ok {
		return apperr.Conflict("admission already exists")
	}
	if _, ok := r.s.t.pets[a.PetID]; !ok {
		return apperr.Invalid("pet not found")
	}
	r.s.t.admissions[a.ID] = a
	return nil
}

func (r *admissionRepo) Update(ctx context.Context, a admissions.Admission) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.admissions[a.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.s.t.admissions[a.ID] = a
	return nil
}

// Delete borra también el historial de jaulas, visitas y recetas (ON DELETE
// CASCADE en Postgres). Donaciones y facturas quedan sin internación.
func (r *admissionRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.admissions[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.admissions, id)
	for aid, al := range r.s.t.allotments {
		if al.AdmissionID == id {
			delete(r.s.t.allotments, aid)
		}
	}
	for vid, v := range r.s.t.visits {
		if v.AdmissionID == id {
			delete(r.s.t.visits, vid)
		}
	}
	for pid, p := range r.s.t.prescriptions {
		if p.AdmissionID == id {
			delete(r.s.t.prescriptions, pid)
		}
	}
	for did, d := range r.s.t.donations {
		if d.AdmissionID == id {
			d.AdmissionID = ""
			r.s.t.donations[did] = d
		}
	}
	for bid, b := range r.s.t.bills {
		if b.AdmissionID == id {
			b.AdmissionID = ""
			r.s.t.bills[bid] = b
		}
	}
	return nil
}

func (r *admissionRepo) GetByID(ctx context.Context, id string) (admissions.Admission, error) {
	defer r.s.read(ctx)()

	a, ok := r.s.t.admissions[id]
	if !ok {
		return admissions.Admission{}, apperr.ErrNotFound
	}
	return a, nil
}

func (r *admissionRepo) List(ctx context.Context, f admissions.ListFilter) ([]admissions.Admission, error) {
	defer r.s.read(ctx)()

	out := make([]admissions.Admission, 0)
	for _, a := range r.s.t.admissions {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ActiveOnly && !a.Status.Active() {
			continue
		}
		if f.PetID != "" && a.PetID != f.PetID {
			continue
		}
		if f.CageID != "" && a.CageID != f.CageID {
			continue
		}
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, a)
	}
	sortByCreated(out, func(a admissions.Admission) time.Time { return a.AdmissionDate })
	return out, nil
}

func (r *admissionRepo) CountActiveInCage(ctx context.Context, cageID, excludeID string) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, a := range r.s.t.admissions {
		if a.CageID == cageID && a.ID != excludeID && a.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (r *admissionRepo) CountActiveByCage(ctx context.Context, cageIDs []string) (map[string]int, error) {
	defer r.s.read(ctx)()

	want := make(map[string]struct{}, len(cageIDs))
	for _, id := range cageIDs {
		want[id] = struct{}{}
	}
	out := make(map[string]int, len(cageIDs))
	for _, a := range r.s.t.admissions {
		if a.CageID == "" || !a.Status.Active() {
			continue
		}
		if _, ok := want[a.CageID]; ok || len(want) == 0 {
			out[a.CageID]++
		}
	}
	return out, nil
}

func (r *admissionRepo) CountActive(ctx context.Context) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, a := range r.s.t.admissions {
		if a.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (r *admissionRepo) OpenAllotment(ctx context.Context, al admissions.CageAllotment) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.admissions[al.AdmissionID]; !ok {
		return apperr.Invalid("admission not found")
	}
	r.s.t.allotments[al.ID] = al
	return nil
}

func (r *admissionRepo) ReleaseAllotments(ctx context.Context, admissionID string, at time.Time) error {
	defer r.s.write(ctx)()

	for id, al := range r.s.t.allotments {
		if al.AdmissionID != admissionID || al.Status != admissions.AllotmentActive {
			continue
		}
		released := at
		al.Status = admissions.AllotmentReleased
		al.ReleasedAt = &released
		r.s.t.allotments[id] = al
	}
	return nil
}

func (r *admissionRepo) ListAllotments(ctx context.Context, admissionID string) ([]admissions.CageAllotment, error) {
	defer r.s.read(ctx)()

	out := make([]admissions.CageAllotment, 0)
	for _, al := range r.s.t.allotments {
		if al.AdmissionID == admissionID {
			out = append(out, al)
		}
	}
	sortByCreated(out, func(al admissions.CageAllotment) time.Time { return al.AllottedAt })
	return out, nil
}
