package billing

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b Bill) error
	GetByID(ctx context.Context, id string) (Bill, error)
	// GetForUpdate bloquea la factura hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (Bill, error)
	List(ctx context.Context, f ListFilter) ([]Bill, error)

	SetPaid(ctx context.Context, id string, amountPaid float64, status Status, at time.Time) error
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error

	AddPayment(ctx context.Context, p Payment) error
	ListPayments(ctx context.Context, billID string) ([]Payment, error)
}
