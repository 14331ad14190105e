package medicines

import "time"

type Medicine struct {
	ID            string
	Name          string
	GenericName   string
	Category      string
	Unit          string
	StockQuantity int
	ReorderLevel  int
	UnitPrice     float64
	ExpiryDate    *time.Time
	Manufacturer  string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStock: stock en o por debajo del punto de reposición.
func (m Medicine) LowStock() bool {
	return m.StockQuantity <= m.ReorderLevel
}

func (m Medicine) ExpiredAt(now time.Time) bool {
	return m.ExpiryDate != nil && !m.ExpiryDate.After(now)
}

type ListFilter struct {
	Query    string
	Category string
	LowStock bool
}

// ExpiringWindow define "por vencer" en el resumen de inventario.
const ExpiringWindow = 30 * 24 * time.Hour

type InventorySummary struct {
	Items        int
	TotalUnits   int
	StockValue   float64
	LowStock     []Medicine
	Expired      []Medicine
	ExpiringSoon []Medicine
}
