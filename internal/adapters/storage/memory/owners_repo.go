package memory

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/platform/apperr"
)

type ownerRepo struct {
	s *Store
}

func NewOwnerRepo(s *Store) owners.Repository {
	return &ownerRepo{s: s}
}

func (r *ownerRepo) Create(ctx context.Context, o owners.Owner) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(o.ID) == "" {
		return errIDRequired
	}
	if _, exists := r.s.t.owners[o.ID]; exists {
		return apperr.Conflict("owner already exists")
	}
	if r.phoneTaken(o) {
		return owners.ErrPhoneTaken
	}
	r.s.t.owners[o.ID] = o
	return nil
}

func (r *ownerRepo) Update(ctx context.Context, o owners.Owner) error {
	defer r.s.write(ctx)()

	if _, exists := r.s.t.owners[o.ID]; !exists {
		return apperr.ErrNotFound
	}
	if r.phoneTaken(o) {
		return owners.ErrPhoneTaken
	}
	r.s.t.owners[o.ID] = o
	return nil
}

// phoneTaken replica el índice único parcial de Postgres. Requiere el lock.
func (r *ownerRepo) phoneTaken(o owners.Owner) bool {
	if !o.Active {
		return false
	}
	for id, other := range r.s.t.owners {
		if id != o.ID && other.Active && other.Phone == o.Phone {
			return true
		}
	}
	return false
}

func (r *ownerRepo) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()

	if _, exists := r.s.t.owners[id]; !exists {
		return apperr.ErrNotFound
	}
	delete(r.s.t.owners, id)
	return nil
}

func (r *ownerRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	defer r.s.read(ctx)()

	o, ok := r.s.t.owners[id]
	if !ok {
		return owners.Owner{}, apperr.ErrNotFound
	}
	return o, nil
}

func (r *ownerRepo) FindActiveByPhone(ctx context.Context, phone string) (owners.Owner, error) {
	defer r.s.read(ctx)()

	for _, o := range r.s.t.owners {
		if o.Active && o.Phone == phone {
			return o, nil
		}
	}
	return owners.Owner{}, apperr.ErrNotFound
}

func (r *ownerRepo) List(ctx context.Context, f owners.ListFilter) ([]owners.Owner, error) {
	defer r.s.read(ctx)()

	out := make([]owners.Owner, 0)
	for _, o := range r.s.t.owners {
		if f.Active != nil && o.Active != *f.Active {
			continue
		}
		if !contains(f.Query, o.Name, o.Phone, o.Email) {
			continue
		}
		out = append(out, o)
	}
	sortByCreated(out, func(o owners.Owner) time.Time { return o.CreatedAt })
	return out, nil
}
