package accounts

import "context"

type Repository interface {
	// Create devuelve ErrConflict si el email ya existe.
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
}
