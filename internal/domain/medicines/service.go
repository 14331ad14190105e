package medicines

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = apperr.ErrInvalidInput
	ErrNotFound          = apperr.ErrNotFound
	ErrInsufficientStock = apperr.BadState("insufficient stock")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Name          *string
	GenericName   *string
	Category      *string
	Unit          *string
	StockQuantity *int
	ReorderLevel  *int
	UnitPrice     *float64
	ExpiryDate    *time.Time
	Manufacturer  *string
	Notes         *string
}

func (s *Service) Create(ctx context.Context, in Input) (Medicine, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Medicine{}, apperr.Invalid("name is required")
	}
	now := s.now().UTC()
	m := Medicine{
		ID:        uuid.NewString(),
		Unit:      "unit",
		CreatedAt: now,
	}
	if err := apply(&m, in); err != nil {
		return Medicine{}, err
	}
	m.UpdatedAt = now

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Medicine, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}
	if err := apply(&m, in); err != nil {
		return Medicine{}, err
	}
	m.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func apply(m *Medicine, in Input) error {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return apperr.Invalid("name cannot be empty")
		}
		m.Name = n
	}
	if in.GenericName != nil {
		m.GenericName = strings.TrimSpace(*in.GenericName)
	}
	if in.Category != nil {
		m.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		m.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return apperr.Invalid("stock_quantity must be >= 0")
		}
		m.StockQuantity = *in.StockQuantity
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return apperr.Invalid("reorder_level must be >= 0")
		}
		m.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return apperr.Invalid("unit_price must be >= 0")
		}
		m.UnitPrice = *in.UnitPrice
	}
	if in.ExpiryDate != nil {
		m.ExpiryDate = in.ExpiryDate
	}
	if in.Manufacturer != nil {
		m.Manufacturer = strings.TrimSpace(*in.Manufacturer)
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lo usan clinical (prescripciones) y purchasing (ítems).
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.GetByID(ctx, id)
	return err
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Medicine, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, m.ID)
}

// AdjustStock suma delta (negativo para consumo) sin leer-modificar-escribir.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (Medicine, error) {
	if delta == 0 {
		return s.GetByID(ctx, id)
	}
	if strings.TrimSpace(id) == "" {
		return Medicine{}, ErrInvalidInput
	}
	return s.repo.AdjustStock(ctx, strings.TrimSpace(id), delta)
}

func (s *Service) CountLowStock(ctx context.Context) (int, error) {
	return s.repo.CountLowStock(ctx)
}

// Summary arma la vista de inventario.
func (s *Service) Summary(ctx context.Context) (InventorySummary, error) {
	items, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return InventorySummary{}, err
	}

	now := s.now().UTC()
	horizon := now.Add(ExpiringWindow)
	sum := InventorySummary{
		Items:        len(items),
		LowStock:     []Medicine{},
		Expired:      []Medicine{},
		ExpiringSoon: []Medicine{},
	}
	for _, m := range items {
		sum.TotalUnits += m.StockQuantity
		sum.StockValue += float64(m.StockQuantity) * m.UnitPrice
		if m.LowStock() {
			sum.LowStock = append(sum.LowStock, m)
		}
		switch {
		case m.ExpiredAt(now):
			sum.Expired = append(sum.Expired, m)
		case m.ExpiryDate != nil && !m.ExpiryDate.After(horizon):
			sum.ExpiringSoon = append(sum.ExpiringSoon, m)
		}
	}
	sum.StockValue = money.Round2(sum.StockValue)
	return sum, nil
}
