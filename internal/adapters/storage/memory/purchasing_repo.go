package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/platform/apperr"
)

type purchaseOrderRepo struct {
	s *Store
}

func NewPurchaseOrderRepo(s *Store) purchasing.Repository {
	return &purchaseOrderRepo{s: s}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, o purchasing.Order) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(o.ID) == "" {
		return errIDRequired
	}
	if err := r.checkItems(o); err != nil {
		return err
	}
	for _, other := range r.s.t.orders {
		if other.Number == o.Number {
			return apperr.Conflict("po number already exists")
		}
	}
	o.Items = slices.Clone(o.Items)
	r.s.t.orders[o.ID] = o
	return nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, o purchasing.Order) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.orders[o.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.checkItems(o); err != nil {
		return err
	}
	o.Items = slices.Clone(o.Items)
	r.s.t.orders[o.ID] = o
	return nil
}

func (r *purchaseOrderRepo) checkItems(o purchasing.Order) error {
	for _, it := range o.Items {
		if _, ok := r.s.t.medicines[it.MedicineID]; !ok {
			return apperr.Invalid("medicine not found")
		}
	}
	return nil
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id string) (purchasing.Order, error) {
	defer r.s.read(ctx)()

	o, ok := r.s.t.orders[id]
	if !ok {
		return purchasing.Order{}, apperr.ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	return o, nil
}

func (r *purchaseOrderRepo) List(ctx context.Context, f purchasing.ListFilter) ([]purchasing.Order, error) {
	defer r.s.read(ctx)()

	out := make([]purchasing.Order, 0)
	for _, o := range r.s.t.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		o.Items = slices.Clone(o.Items)
		out = append(out, o)
	}
	sortByCreated(out, func(o purchasing.Order) time.Time { return o.CreatedAt })
	return out, nil
}

func (r *purchaseOrderRepo) Transition(ctx context.Context, id string, from []purchasing.Status, to purchasing.Status, at time.Time) error {
	defer r.s.write(ctx)()

	o, ok := r.s.t.orders[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if !slices.Contains(from, o.Status) {
		return purchasing.ErrNotOpen
	}
	o.Status = to
	o.UpdatedAt = at
	if to == purchasing.StatusReceived {
		received := at
		o.ReceivedAt = &received
	}
	r.s.t.orders[id] = o
	return nil
}

func (r *purchaseOrderRepo) CountByStatus(ctx context.Context, statuses []purchasing.Status) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, o := range r.s.t.orders {
		if slices.Contains(statuses, o.Status) {
			n++
		}
	}
	return n, nil
}
