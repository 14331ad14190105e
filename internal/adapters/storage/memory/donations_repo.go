package memory

import (
	"context"
	"sort"
	"strings"

	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/platform/apperr"
)

type donorRepo struct {
	s *Store
}

func NewDonorRepo(s *Store) donations.DonorRepository {
	return &donorRepo{s: s}
}

func (r *donorRepo) CreateDonor(ctx context.Context, d donations.Donor) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(d.ID) == "" {
		return errIDRequired
	}
	r.s.t.donors[d.ID] = d
	return nil
}

func (r *donorRepo) UpdateDonor(ctx context.Context, d donations.Donor) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.donors[d.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.s.t.donors[d.ID] = d
	return nil
}

func (r *donorRepo) DeleteDonor(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.donors[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.donors, id)
	return nil
}

func (r *donorRepo) GetDonor(ctx context.Context, id string) (donations.Donor, error) {
	defer r.s.read(ctx)()

	d, ok := r.s.t.donors[id]
	if !ok {
		return donations.Donor{}, apperr.ErrNotFound
	}
	return d, nil
}

func (r *donorRepo) ListDonors(ctx context.Context, query string) ([]donations.Donor, error) {
	defer r.s.read(ctx)()

	out := make([]donations.Donor, 0)
	for _, d := range r.s.t.donors {
		if contains(query, d.Name, d.Phone, d.Email) {
			out = append(out, d)
		}
	}
	sortByName(out, func(d donations.Donor) string { return d.Name })
	return out, nil
}

type donationRepo struct {
	s *Store
}

func NewDonationRepo(s *Store) donations.Repository {
	return &donationRepo{s: s}
}

func (r *donationRepo) Create(ctx context.Context, d donations.Donation) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(d.ID) == "" {
		return errIDRequired
	}
	if d.DonorID != "" {
		if _, ok := r.s.t.donors[d.DonorID]; !ok {
			return apperr.Invalid("donor not found")
		}
	}
	if d.AdmissionID != "" {
		if _, ok := r.s.t.admissions[d.AdmissionID]; !ok {
			return apperr.Invalid("admission not found")
		}
	}
	for _, other := range r.s.t.donations {
		if other.ReceiptNumber == d.ReceiptNumber {
			return apperr.Conflict("receipt number already exists")
		}
	}
	r.s.t.donations[d.ID] = d
	return nil
}

func (r *donationRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.donations[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.donations, id)
	return nil
}

func (r *donationRepo) GetByID(ctx context.Context, id string) (donations.Donation, error) {
	defer r.s.read(ctx)()

	d, ok := r.s.t.donations[id]
	if !ok {
		return donations.Donation{}, apperr.ErrNotFound
	}
	return d, nil
}

func (r *donationRepo) List(ctx context.Context, f donations.ListFilter) ([]donations.Donation, error) {
	defer r.s.read(ctx)()

	out := make([]donations.Donation, 0)
	for _, d := range r.s.t.donations {
		if f.DonorID != "" && d.DonorID != f.DonorID {
			continue
		}
		if f.AdmissionID != "" && d.AdmissionID != f.AdmissionID {
			continue
		}
		if f.From != nil && d.DonatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !d.DonatedAt.Before(*f.To) {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DonatedAt.After(out[j].DonatedAt) })
	return out, nil
}

func (r *donationRepo) SetReceiptKey(ctx context.Context, id, key string) error {
	defer r.s.write(ctx)()

	d, ok := r.s.t.donations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	d.ReceiptKey = key
	r.s.t.donations[id] = d
	return nil
}
