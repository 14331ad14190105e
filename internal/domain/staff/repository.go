package staff

import "context"

type Repository interface {
	Create(ctx context.Context, m Member) error
	Update(ctx context.Context, m Member) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Member, error)
	GetByUserID(ctx context.Context, userID string) (Member, error)
	List(ctx context.Context, f ListFilter) ([]Member, error)
}

type TypeRepository interface {
	CreateType(ctx context.Context, t StaffType) error
	UpdateType(ctx context.Context, t StaffType) error
	DeleteType(ctx context.Context, id string) error
	GetType(ctx context.Context, id string) (StaffType, error)
	ListTypes(ctx context.Context) ([]StaffType, error)
}
