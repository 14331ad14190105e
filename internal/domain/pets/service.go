package pets

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/numbering"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrRemoved      = apperr.BadState("pet is removed")
)

// OwnerGetter la cumple owners.Service.
type OwnerGetter interface {
	GetByID(ctx context.Context, id string) (owners.Owner, error)
}

type Service struct {
	repo    Repository
	types   TypeRepository
	owners  OwnerGetter
	numbers numbering.Generator
	now     func() time.Time
}

func NewService(repo Repository, types TypeRepository, ownersSvc OwnerGetter, numbers numbering.Generator) *Service {
	return &Service{
		repo:    repo,
		types:   types,
		owners:  ownersSvc,
		numbers: numbers,
		now:     time.Now,
	}
}

type CreateInput struct {
	OwnerID   string
	PetTypeID string
	Name      string
	Species   string
	Breed     string
	Gender    string
	Age       string
	Weight    *float64
	Color     string
	Notes     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return Pet{}, apperr.Invalid("owner_id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, apperr.Invalid("name is required")
	}
	gender, err := parseGender(in.Gender)
	if err != nil {
		return Pet{}, err
	}
	if err := validateWeight(in.Weight); err != nil {
		return Pet{}, err
	}

	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return Pet{}, err
	}
	species := strings.TrimSpace(in.Species)
	typeID := strings.TrimSpace(in.PetTypeID)
	if typeID != "" {
		t, err := s.types.GetType(ctx, typeID)
		if err != nil {
			return Pet{}, err
		}
		if species == "" {
			species = t.Name
		}
	}

	now := s.now().UTC()
	tag, err := s.numbers.Next(ctx, numbering.KindPetTag, now)
	if err != nil {
		return Pet{}, err
	}

	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		PetTypeID: typeID,
		Name:      name,
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Gender:    gender,
		Age:       strings.TrimSpace(in.Age),
		Weight:    in.Weight,
		Color:     strings.TrimSpace(in.Color),
		TagID:     tag,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Pet, error) {
	f.OwnerID = strings.TrimSpace(f.OwnerID)
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}

type UpdateInput struct {
	// nil = no tocar
	OwnerID   *string
	PetTypeID *string
	Name      *string
	Species   *string
	Breed     *string
	Gender    *string
	Age       *string
	Weight    *float64
	Color     *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.OwnerID != nil {
		ownerID := strings.TrimSpace(*in.OwnerID)
		if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
			return Pet{}, err
		}
		p.OwnerID = ownerID
	}
	if in.PetTypeID != nil {
		typeID := strings.TrimSpace(*in.PetTypeID)
		if typeID != "" {
			if _, err := s.types.GetType(ctx, typeID); err != nil {
				return Pet{}, err
			}
		}
		p.PetTypeID = typeID
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return Pet{}, apperr.Invalid("name cannot be empty")
		}
		p.Name = n
	}
	if in.Species != nil {
		p.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Gender != nil {
		g, err := parseGender(*in.Gender)
		if err != nil {
			return Pet{}, err
		}
		p.Gender = g
	}
	if in.Age != nil {
		p.Age = strings.TrimSpace(*in.Age)
	}
	if in.Weight != nil {
		if err := validateWeight(in.Weight); err != nil {
			return Pet{}, err
		}
		p.Weight = in.Weight
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Remove da de baja la mascota. at nil => ahora.
func (s *Service) Remove(ctx context.Context, id, reason string, at *time.Time) (Pet, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Pet{}, apperr.Invalid("removal reason is required")
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	when := s.now().UTC()
	if at != nil {
		when = at.UTC()
	}
	p.Removed = true
	p.RemovalReason = reason
	p.RemovedAt = &when
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Restore(ctx context.Context, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if !p.Removed {
		return p, nil
	}
	p.Removed = false
	p.RemovalReason = ""
	p.RemovedAt = nil
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func parseGender(raw string) (Gender, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return GenderUnknown, nil
	}
	g := Gender(raw)
	if !g.Valid() {
		return "", apperr.Invalid("gender must be male, female or unknown")
	}
	return g, nil
}

func validateWeight(w *float64) error {
	if w != nil && *w < 0 {
		return apperr.Invalid("weight must be >= 0")
	}
	return nil
}
