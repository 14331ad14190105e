package donations

import (
	"context"
	"net/mail"
	"strings"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

type DonorInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

func (s *Service) CreateDonor(ctx context.Context, in DonorInput) (Donor, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Donor{}, apperr.Invalid("name is required")
	}
	now := s.now().UTC()
	d := Donor{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := applyDonor(&d, in); err != nil {
		return Donor{}, err
	}
	if err := s.donors.CreateDonor(ctx, d); err != nil {
		return Donor{}, err
	}
	return d, nil
}

func (s *Service) UpdateDonor(ctx context.Context, id string, in DonorInput) (Donor, error) {
	d, err := s.GetDonor(ctx, id)
	if err != nil {
		return Donor{}, err
	}
	if err := applyDonor(&d, in); err != nil {
		return Donor{}, err
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.donors.UpdateDonor(ctx, d); err != nil {
		return Donor{}, err
	}
	return d, nil
}

func applyDonor(d *Donor, in DonorInput) error {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return apperr.Invalid("name cannot be empty")
		}
		d.Name = n
	}
	if in.Phone != nil {
		d.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		if e != "" {
			if _, err := mail.ParseAddress(e); err != nil {
				return apperr.Invalid("email is not valid")
			}
		}
		d.Email = e
	}
	if in.Address != nil {
		d.Address = strings.TrimSpace(*in.Address)
	}
	if in.Notes != nil {
		d.Notes = strings.TrimSpace(*in.Notes)
	}
	return nil
}

func (s *Service) GetDonor(ctx context.Context, id string) (Donor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donor{}, ErrInvalidInput
	}
	return s.donors.GetDonor(ctx, id)
}

func (s *Service) ListDonors(ctx context.Context, query string) ([]Donor, error) {
	return s.donors.ListDonors(ctx, strings.TrimSpace(query))
}

// DeleteDonor se niega si el donante tiene donaciones registradas.
func (s *Service) DeleteDonor(ctx context.Context, id string) error {
	d, err := s.GetDonor(ctx, id)
	if err != nil {
		return err
	}
	gifts, err := s.repo.List(ctx, ListFilter{DonorID: d.ID})
	if err != nil {
		return err
	}
	if len(gifts) > 0 {
		return ErrDonorHasGifts
	}
	return s.donors.DeleteDonor(ctx, d.ID)
}
