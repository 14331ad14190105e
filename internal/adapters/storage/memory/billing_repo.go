package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"vet-hospital/internal/domain/billing"
	"vet-hospital/internal/platform/apperr"
)

type billRepo struct {
	s *Store
}

func NewBillRepo(s *Store) billing.Repository {
	return &billRepo{s: s}
}

func (r *billRepo) Create(ctx context.Context, b billing.Bill) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(b.ID) == "" {
		return errIDRequired
	}
	if _, ok := r.s.t.owners[b.OwnerID]; !ok {
		return apperr.Invalid("owner not found")
	}
	for _, other := range r.s.t.bills {
		if other.InvoiceNumber == b.InvoiceNumber {
			return apperr.Conflict("invoice number already exists")
		}
	}
	b.Items = slices.Clone(b.Items)
	r.s.t.bills[b.ID] = b
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	defer r.s.read(ctx)()

	b, ok := r.s.t.bills[id]
	if !ok {
		return billing.Bill{}, apperr.ErrNotFound
	}
	b.Items = slices.Clone(b.Items)
	return b, nil
}

func (r *billRepo) GetForUpdate(ctx context.Context, id string) (billing.Bill, error) {
	return r.GetByID(ctx, id)
}

func (r *billRepo) List(ctx context.Context, f billing.ListFilter) ([]billing.Bill, error) {
	defer r.s.read(ctx)()

	out := make([]billing.Bill, 0)
	for _, b := range r.s.t.bills {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && b.OwnerID != f.OwnerID {
			continue
		}
		if f.AdmissionID != "" && b.AdmissionID != f.AdmissionID {
			continue
		}
		b.Items = slices.Clone(b.Items)
		out = append(out, b)
	}
	sortByCreated(out, func(b billing.Bill) time.Time { return b.CreatedAt })
	return out, nil
}

func (r *billRepo) SetPaid(ctx context.Context, id string, amountPaid float64, status billing.Status, at time.Time) error {
	defer r.s.write(ctx)()

	b, ok := r.s.t.bills[id]
	if !ok {
		return apperr.ErrNotFound
	}
	b.AmountPaid = amountPaid
	b.Status = status
	b.UpdatedAt = at
	r.s.t.bills[id] = b
	return nil
}

func (r *billRepo) SetStatus(ctx context.Context, id string, status billing.Status, at time.Time) error {
	defer r.s.write(ctx)()

	b, ok := r.s.t.bills[id]
	if !ok {
		return apperr.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = at
	r.s.t.bills[id] = b
	return nil
}

func (r *billRepo) AddPayment(ctx context.Context, p billing.Payment) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.bills[p.BillID]; !ok {
		return apperr.Invalid("bill not found")
	}
	r.s.t.payments[p.ID] = p
	return nil
}

func (r *billRepo) ListPayments(ctx context.Context, billID string) ([]billing.Payment, error) {
	defer r.s.read(ctx)()

	out := make([]billing.Payment, 0)
	for _, p := range r.s.t.payments {
		if p.BillID == billID {
			out = append(out, p)
		}
	}
	sortByCreated(out, func(p billing.Payment) time.Time { return p.PaidAt })
	return out, nil
}
