package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"
)

type staffRepo struct {
	s *Store
}

func NewStaffRepo(s *Store) staff.Repository {
	return &staffRepo{s: s}
}

func (r *staffRepo) Create(ctx context.Context, m staff.Member) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(m.ID) == "" {
		return errIDRequired
	}
	if err := r.uniqueUser(m); err != nil {
		return err
	}
	r.s.t.staff[m.ID] = m
	return nil
}

func (r *staffRepo) Update(ctx context.Context, m staff.Member) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.staff[m.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueUser(m); err != nil {
		return err
	}
	r.s.t.staff[m.ID] = m
	return nil
}

// uniqueUser: una cuenta se vincula a un solo miembro.
func (r *staffRepo) uniqueUser(m staff.Member) error {
	if m.UserID == "" {
		return nil
	}
	for _, other := range r.s.t.staff {
		if other.ID != m.ID && other.UserID == m.UserID {
			return apperr.Conflict("user already linked to another staff member")
		}
	}
	return nil
}

// Delete deja sin doctor las internaciones, visitas y recetas del miembro
// (ON DELETE SET NULL en Postgres).
func (r *staffRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.staff[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.staff, id)
	for aid, a := range r.s.t.admissions {
		if a.DoctorID == id {
			a.DoctorID = ""
			r.s.t.admissions[aid] = a
		}
	}
	for vid, v := range r.s.t.visits {
		if v.DoctorID == id {
			v.DoctorID = ""
			r.s.t.visits[vid] = v
		}
	}
	for pid, p := range r.s.t.prescriptions {
		if p.PrescribedBy == id {
			p.PrescribedBy = ""
			r.s.t.prescriptions[pid] = p
		}
	}
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (staff.Member, error) {
	defer r.s.read(ctx)()

	m, ok := r.s.t.staff[id]
	if !ok {
		return staff.Member{}, apperr.ErrNotFound
	}
	return m, nil
}

func (r *staffRepo) GetByUserID(ctx context.Context, userID string) (staff.Member, error) {
	defer r.s.read(ctx)()

	for _, m := range r.s.t.staff {
		if m.UserID == userID {
			return m, nil
		}
	}
	return staff.Member{}, apperr.ErrNotFound
}

func (r *staffRepo) List(ctx context.Context, f staff.ListFilter) ([]staff.Member, error) {
	defer r.s.read(ctx)()

	var users map[string]struct{}
	if f.UserIDs != nil {
		users = make(map[string]struct{}, len(f.UserIDs))
		for _, id := range f.UserIDs {
			users[id] = struct{}{}
		}
	}

	out := make([]staff.Member, 0)
	for _, m := range r.s.t.staff {
		if f.StaffTypeID != "" && m.StaffTypeID != f.StaffTypeID {
			continue
		}
		if f.ActiveOnly && !m.Active {
			continue
		}
		if users != nil {
			if _, ok := users[m.UserID]; !ok {
				continue
			}
		}
		out = append(out, m)
	}
	sortByCreated(out, func(m staff.Member) time.Time { return m.CreatedAt })
	return out, nil
}

type staffTypeRepo struct {
	s *Store
}

func NewStaffTypeRepo(s *Store) staff.TypeRepository {
	return &staffTypeRepo{s: s}
}

func (r *staffTypeRepo) CreateType(ctx context.Context, t staff.StaffType) error {
	defer r.s.write(ctx)()

	if err := r.uniqueName(t); err != nil {
		return err
	}
	r.s.t.staffTypes[t.ID] = t
	return nil
}

func (r *staffTypeRepo) UpdateType(ctx context.Context, t staff.StaffType) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.staffTypes[t.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueName(t); err != nil {
		return err
	}
	r.s.t.staffTypes[t.ID] = t
	return nil
}

func (r *staffTypeRepo) uniqueName(t staff.StaffType) error {
	for _, other := range r.s.t.staffTypes {
		if other.ID != t.ID && strings.EqualFold(other.Name, t.Name) {
			return apperr.Conflict("staff type name already exists")
		}
	}
	return nil
}

func (r *staffTypeRepo) DeleteType(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.staffTypes[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.staffTypes, id)
	return nil
}

func (r *staffTypeRepo) GetType(ctx context.Context, id string) (staff.StaffType, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.t.staffTypes[id]
	if !ok {
		return staff.StaffType{}, apperr.ErrNotFound
	}
	return t, nil
}

func (r *staffTypeRepo) ListTypes(ctx context.Context) ([]staff.StaffType, error) {
	defer r.s.read(ctx)()

	out := make([]staff.StaffType, 0, len(r.s.t.staffTypes))
	for _, t := range r.s.t.staffTypes {
		out = append(out, t)
	}
	sortByName(out, func(t staff.StaffType) string { return t.Name })
	return out, nil
}
