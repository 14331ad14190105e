package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrHasPets      = apperr.Conflict("owner still has pets")
	ErrPhoneTaken   = apperr.Conflict("phone already belongs to another active owner")
)

type Service struct {
	repo Repository
	pets PetCounter
	now  func() time.Time
}

func NewService(repo Repository, pets PetCounter) *Service {
	return &Service{repo: repo, pets: pets, now: time.Now}
}

type CreateInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// Create hace merge por teléfono: si existe un dueño activo con el mismo número
// se sobrescriben nombre/email/dirección (y notas si vienen) y se devuelve ese.
func (s *Service) Create(ctx context.Context, in CreateInput) (Owner, bool, error) {
	name := strings.TrimSpace(in.Name)
	phone := NormalizePhone(in.Phone)
	if name == "" {
		return Owner{}, false, apperr.Invalid("name is required")
	}
	if phone == "" {
		return Owner{}, false, apperr.Invalid("phone is required")
	}

	now := s.now().UTC()
	existing, err := s.repo.FindActiveByPhone(ctx, phone)
	switch {
	case err == nil:
		existing.Name = name
		existing.Email = strings.TrimSpace(in.Email)
		existing.Address = strings.TrimSpace(in.Address)
		if n := strings.TrimSpace(in.Notes); n != "" {
			existing.Notes = n
		}
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Owner{}, false, err
		}
		return existing, true, nil
	case !errors.Is(err, ErrNotFound):
		return Owner{}, false, err
	}

	o := Owner{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, false, err
	}
	return o, false, nil
}

// UnknownOwner devuelve (o crea) el registro compartido de dueño desconocido.
func (s *Service) UnknownOwner(ctx context.Context) (Owner, error) {
	o, err := s.repo.FindActiveByPhone(ctx, UnknownOwnerPhone)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Owner{}, err
	}

	now := s.now().UTC()
	o = Owner{
		ID:        uuid.NewString(),
		Name:      UnknownOwnerName,
		Phone:     UnknownOwnerPhone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Owner, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Active  *bool
	Notes   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Owner, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Owner{}, err
	}
	prev := o

	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return Owner{}, apperr.Invalid("name cannot be empty")
		}
		o.Name = n
	}
	if in.Phone != nil {
		p := NormalizePhone(*in.Phone)
		if p == "" {
			return Owner{}, apperr.Invalid("phone cannot be empty")
		}
		o.Phone = p
	}
	if in.Email != nil {
		o.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		o.Address = strings.TrimSpace(*in.Address)
	}
	if in.Active != nil {
		o.Active = *in.Active
	}
	if in.Notes != nil {
		o.Notes = strings.TrimSpace(*in.Notes)
	}
	o.UpdatedAt = s.now().UTC()

	// Un teléfono activo pertenece a un solo dueño.
	if o.Active && (o.Phone != prev.Phone || !prev.Active) {
		other, err := s.repo.FindActiveByPhone(ctx, o.Phone)
		switch {
		case err == nil && other.ID != o.ID:
			return Owner{}, ErrPhoneTaken
		case err != nil && !errors.Is(err, ErrNotFound):
			return Owner{}, err
		}
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.pets != nil {
		n, err := s.pets.CountByOwner(ctx, o.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasPets
		}
	}
	return s.repo.Delete(ctx, o.ID)
}

// NormalizePhone deja solo dígitos y un + inicial.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if b.String() == "+" {
		return ""
	}
	return b.String()
}
