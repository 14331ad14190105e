package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, f ListFilter) ([]Pet, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// CountActive: removed=false o removal_reason='Cured'.
	CountActive(ctx context.Context) (int, error)
}

type TypeRepository interface {
	CreateType(ctx context.Context, t PetType) error
	UpdateType(ctx context.Context, t PetType) error
	DeleteType(ctx context.Context, id string) error
	GetType(ctx context.Context, id string) (PetType, error)
	ListTypes(ctx context.Context) ([]PetType, error)
}
