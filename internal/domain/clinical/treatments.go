package clinical

import (
	"context"
	"strings"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

type TreatmentInput struct {
	Name          *string
	Description   *string
	DefaultDosage *string
	Cost          *float64
}

func (s *Service) CreateTreatment(ctx context.Context, in TreatmentInput) (Treatment, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Treatment{}, apperr.Invalid("name is required")
	}
	now := s.now().UTC()
	t := Treatment{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := applyTreatment(&t, in); err != nil {
		return Treatment{}, err
	}
	if err := s.treatments.CreateTreatment(ctx, t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Service) UpdateTreatment(ctx context.Context, id string, in TreatmentInput) (Treatment, error) {
	t, err := s.GetTreatment(ctx, id)
	if err != nil {
		return Treatment{}, err
	}
	if err := applyTreatment(&t, in); err != nil {
		return Treatment{}, err
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.treatments.UpdateTreatment(ctx, t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func applyTreatment(t *Treatment, in TreatmentInput) error {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return apperr.Invalid("name cannot be empty")
		}
		t.Name = n
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.DefaultDosage != nil {
		t.DefaultDosage = strings.TrimSpace(*in.DefaultDosage)
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return apperr.Invalid("cost must be >= 0")
		}
		t.Cost = *in.Cost
	}
	return nil
}

func (s *Service) GetTreatment(ctx context.Context, id string) (Treatment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Treatment{}, ErrInvalidInput
	}
	return s.treatments.GetTreatment(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context, query string) ([]Treatment, error) {
	return s.treatments.ListTreatments(ctx, strings.TrimSpace(query))
}

func (s *Service) DeleteTreatment(ctx context.Context, id string) error {
	t, err := s.GetTreatment(ctx, id)
	if err != nil {
		return err
	}
	return s.treatments.DeleteTreatment(ctx, t.ID)
}
