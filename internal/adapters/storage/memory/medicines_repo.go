package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/platform/apperr"
)

type medicineRepo struct {
	s *Store
}

func NewMedicineRepo(s *Store) medicines.Repository {
	return &medicineRepo{s: s}
}

func (r *medicineRepo) Create(ctx context.Context, m medicines.Medicine) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(m.ID) == "" {
		return errIDRequired
	}
	if _, ok := r.s.t.medicines[m.ID]; ok {
		return apperr.Conflict("medicine already exists")
	}
	r.s.t.medicines[m.ID] = m
	return nil
}

func (r *medicineRepo) Update(ctx context.Context, m medicines.Medicine) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.medicines[m.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.s.t.medicines[m.ID] = m
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.medicines[id]; !ok {
		return apperr.ErrNotFound
	}
	for _, o := range r.s.t.orders {
		for _, it := range o.Items {
			if it.MedicineID == id {
				return apperr.Invalid("medicine is referenced by purchase orders")
			}
		}
	}
	for _, p := range r.s.t.prescriptions {
		if p.MedicineID == id {
			return apperr.Invalid("medicine is referenced by prescriptions")
		}
	}
	delete(r.s.t.medicines, id)
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	defer r.s.read(ctx)()

	m, ok := r.s.t.medicines[id]
	if !ok {
		return medicines.Medicine{}, apperr.ErrNotFound
	}
	return m, nil
}

func (r *medicineRepo) List(ctx context.Context, f medicines.ListFilter) ([]medicines.Medicine, error) {
	defer r.s.read(ctx)()

	out := make([]medicines.Medicine, 0)
	for _, m := range r.s.t.medicines {
		if f.Category != "" && !strings.EqualFold(m.Category, f.Category) {
			continue
		}
		if f.LowStock && !m.LowStock() {
			continue
		}
		if !contains(f.Query, m.Name, m.GenericName) {
			continue
		}
		out = append(out, m)
	}
	sortByName(out, func(m medicines.Medicine) string { return m.Name })
	return out, nil
}

func (r *medicineRepo) AdjustStock(ctx context.Context, id string, delta int) (medicines.Medicine, error) {
	defer r.s.write(ctx)()

	m, ok := r.s.t.medicines[id]
	if !ok {
		return medicines.Medicine{}, apperr.ErrNotFound
	}
	if m.StockQuantity+delta < 0 {
		return medicines.Medicine{}, medicines.ErrInsufficientStock
	}
	m.StockQuantity += delta
	m.UpdatedAt = time.Now().UTC()
	r.s.t.medicines[id] = m
	return m, nil
}

func (r *medicineRepo) CountLowStock(ctx context.Context) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, m := range r.s.t.medicines {
		if m.LowStock() {
			n++
		}
	}
	return n, nil
}
