package pets

import (
	"context"
	"strings"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

func (s *Service) CreateType(ctx context.Context, name, description string) (PetType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PetType{}, apperr.Invalid("name is required")
	}
	t := PetType{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.types.CreateType(ctx, t); err != nil {
		return PetType{}, err
	}
	return t, nil
}

func (s *Service) UpdateType(ctx context.Context, id string, name, description *string) (PetType, error) {
	t, err := s.GetType(ctx, id)
	if err != nil {
		return PetType{}, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return PetType{}, apperr.Invalid("name cannot be empty")
		}
		t.Name = n
	}
	if description != nil {
		t.Description = strings.TrimSpace(*description)
	}
	if err := s.types.UpdateType(ctx, t); err != nil {
		return PetType{}, err
	}
	return t, nil
}

func (s *Service) GetType(ctx context.Context, id string) (PetType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PetType{}, ErrInvalidInput
	}
	return s.types.GetType(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context) ([]PetType, error) {
	return s.types.ListTypes(ctx)
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	return s.types.DeleteType(ctx, id)
}
