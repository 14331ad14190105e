package owners

import "context"

type Repository interface {
	Create(ctx context.Context, o Owner) error
	Update(ctx context.Context, o Owner) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Owner, error)
	// FindActiveByPhone busca por teléfono normalizado; ErrNotFound si no hay.
	FindActiveByPhone(ctx context.Context, phone string) (Owner, error)
	List(ctx context.Context, f ListFilter) ([]Owner, error)
}

// PetCounter la implementa el repo de pets; evita borrar dueños con mascotas.
type PetCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}
