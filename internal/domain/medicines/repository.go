package medicines

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	List(ctx context.Context, f ListFilter) ([]Medicine, error)

	// AdjustStock aplica stock_quantity = stock_quantity + delta de forma atómica.
	// Devuelve ErrBadState si el resultado quedaría negativo.
	AdjustStock(ctx context.Context, id string, delta int) (Medicine, error)
	CountLowStock(ctx context.Context) (int, error)
}
