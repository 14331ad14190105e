package memory

import (
	"context"
	"strings"

	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/platform/apperr"
)

type accountRepo struct {
	s *Store
}

func NewAccountRepo(s *Store) accounts.Repository {
	return &accountRepo{s: s}
}

func (r *accountRepo) Create(ctx context.Context, a accounts.Account) error {
	defer r.s.write(ctx)()

	if strings.TrimSpace(a.ID) == "" {
		return errIDRequired
	}
	for _, other := range r.s.t.accounts {
		if strings.EqualFold(other.Email, a.Email) {
			return apperr.Conflict("email already registered")
		}
	}
	r.s.t.accounts[a.ID] = a
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	defer r.s.read(ctx)()

	a, ok := r.s.t.accounts[id]
	if !ok {
		return accounts.Account{}, apperr.ErrNotFound
	}
	return a, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	defer r.s.read(ctx)()

	for _, a := range r.s.t.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return accounts.Account{}, apperr.ErrNotFound
}
