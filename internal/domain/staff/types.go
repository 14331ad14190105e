package staff

import (
	"context"
	"strings"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

func (s *Service) CreateType(ctx context.Context, name, description string) (StaffType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StaffType{}, apperr.Invalid("name is required")
	}
	t := StaffType{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.types.CreateType(ctx, t); err != nil {
		return StaffType{}, err
	}
	return t, nil
}

func (s *Service) UpdateType(ctx context.Context, id string, name, description *string) (StaffType, error) {
	t, err := s.GetType(ctx, id)
	if err != nil {
		return StaffType{}, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return StaffType{}, apperr.Invalid("name cannot be empty")
		}
		t.Name = n
	}
	if description != nil {
		t.Description = strings.TrimSpace(*description)
	}
	if err := s.types.UpdateType(ctx, t); err != nil {
		return StaffType{}, err
	}
	return t, nil
}

func (s *Service) GetType(ctx context.Context, id string) (StaffType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return StaffType{}, ErrInvalidInput
	}
	return s.types.GetType(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context) ([]StaffType, error) {
	return s.types.ListTypes(ctx)
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	return s.types.DeleteType(ctx, id)
}
