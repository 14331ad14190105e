package billing

import (
	"time"

	"vet-hospital/internal/platform/money"
)

// Status
// @Enum pending, partial, paid, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

type Bill struct {
	ID            string
	InvoiceNumber string // INV-YYYY-NNNNNN
	AdmissionID   string
	OwnerID       string
	Items         []Item
	Subtotal      float64
	Discount      float64
	Total         float64
	AmountPaid    float64
	Status        Status
	Notes         string
	IssuedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balance es lo que falta cobrar.
func (b Bill) Balance() float64 {
	return money.Round2(b.Total - b.AmountPaid)
}

type Item struct {
	ID          string
	BillID      string
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

type Payment struct {
	ID     string
	BillID string
	Amount float64
	Method string
	PaidAt time.Time
	Notes  string
}

type ListFilter struct {
	Status      Status
	OwnerID     string
	AdmissionID string
}

// StatusFor recalcula el estado a partir de total y pagado.
func StatusFor(total, paid float64) Status {
	switch {
	case money.Cents(paid) >= money.Cents(total):
		return StatusPaid
	case money.Cents(paid) > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}
