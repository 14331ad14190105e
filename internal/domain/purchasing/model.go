package purchasing

import "time"

// Status
// @Enum draft, ordered, received, cancelled
type Status string

const (
	StatusDraft     Status = "draft"
	StatusOrdered   Status = "ordered"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusReceived, StatusCancelled:
		return true
	default:
		return false
	}
}

// Open: la orden todavía se puede editar, recibir o cancelar.
func (s Status) Open() bool {
	return s == StatusDraft || s == StatusOrdered
}

var OpenStatuses = []Status{StatusDraft, StatusOrdered}

type Order struct {
	ID           string
	Number       string // PO-YYYY-NNNNNN
	Supplier     string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Status       Status
	Notes        string
	TotalAmount  float64
	ReceivedAt   *time.Time
	Items        []Item
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Item struct {
	ID         string
	OrderID    string
	MedicineID string
	Quantity   int
	UnitPrice  float64
	LineTotal  float64
}

type ListFilter struct {
	Status Status
}
