package purchasing

import (
	"context"
	"time"
)

type Repository interface {
	// Create guarda cabecera e ítems.
	Create(ctx context.Context, o Order) error
	// Update reescribe la cabecera y reemplaza los ítems.
	Update(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)

	// Transition cambia el estado sólo si el actual está en from.
	// Devuelve ErrNotOpen si la orden ya no está en ninguno de esos estados.
	// Con to = received también fija received_at.
	Transition(ctx context.Context, id string, from []Status, to Status, at time.Time) error
	CountByStatus(ctx context.Context, statuses []Status) (int, error)
}
