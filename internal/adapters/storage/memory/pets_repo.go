package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/platform/apperr"
)

type petRepo struct {
	s *Store
}

func NewPetRepo(s *Store) pets.Repository {
	return &petRepo{s: s}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(p.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.t.pets[p.ID]; exists {
		return apperr.Conflict("pet already exists")
	}
	if p.TagID != "" {
		for _, other := range r.s.t.pets {
			if other.TagID == p.TagID {
				return apperr.Conflict("tag_id already in use")
			}
		}
	}
	r.s.t.pets[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	defer r.s.write(ctx)()

	if _, exists := r.s.t.pets[p.ID]; !exists {
		return apperr.ErrNotFound
	}
	r.s.t.pets[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	defer r.s.read(ctx)()

	p, ok := r.s.t.pets[id]
	if !ok {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	defer r.s.read(ctx)()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.t.pets {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.PetTypeID != "" && p.PetTypeID != f.PetTypeID {
			continue
		}
		if p.Removed && !f.IncludeRemoved {
			continue
		}
		if !contains(f.Query, p.Name, p.TagID, p.Species, p.Breed) {
			continue
		}
		out = append(out, p)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sortByCreated(out, func(p pets.Pet) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *petRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, p := range r.s.t.pets {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *petRepo) CountActive(ctx context.Context) (int, error) {
	defer r.s.read(ctx)()

	n := 0
	for _, p := range r.s.t.pets {
		if p.Active() {
			n++
		}
	}
	return n, nil
}

type petTypeRepo struct {
	s *Store
}

func NewPetTypeRepo(s *Store) pets.TypeRepository {
	return &petTypeRepo{s: s}
}

func (r *petTypeRepo) CreateType(ctx context.Context, t pets.PetType) error {
	defer r.s.write(ctx)()

	if err := r.uniqueName(t); err != nil {
		return err
	}
	r.s.t.petTypes[t.ID] = t
	return nil
}

func (r *petTypeRepo) UpdateType(ctx context.Context, t pets.PetType) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.petTypes[t.ID]; !ok {
		return apperr.ErrNotFound
	}
	if err := r.uniqueName(t); err != nil {
		return err
	}
	r.s.t.petTypes[t.ID] = t
	return nil
}

func (r *petTypeRepo) uniqueName(t pets.PetType) error {
	for _, other := range r.s.t.petTypes {
		if other.ID != t.ID && strings.EqualFold(other.Name, t.Name) {
			return apperr.Conflict("pet type name already exists")
		}
	}
	return nil
}

func (r *petTypeRepo) DeleteType(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.t.petTypes[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.petTypes, id)
	return nil
}

func (r *petTypeRepo) GetType(ctx context.Context, id string) (pets.PetType, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.t.petTypes[id]
	if !ok {
		return pets.PetType{}, apperr.ErrNotFound
	}
	return t, nil
}

func (r *petTypeRepo) ListTypes(ctx context.Context) ([]pets.PetType, error) {
	defer r.s.read(ctx)()

	out := make([]pets.PetType, 0, len(r.s.t.petTypes))
	for _, t := range r.s.t.petTypes {
		out = append(out, t)
	}
	sortByName(out, func(t pets.PetType) string { return t.Name })
	return out, nil
}
