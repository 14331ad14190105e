package purchasing

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/money"
	"vet-hospital/internal/ports/numbering"
	"vet-hospital/internal/ports/tx"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrNotEditable  = apperr.BadState("purchase order is no longer editable")
	ErrNotOpen      = apperr.BadState("purchase order is not open")
)

// Stock es la parte del servicio de medicamentos que usa compras.
type Stock interface {
	Exists(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (medicines.Medicine, error)
}

type Service struct {
	repo    Repository
	stock   Stock
	tx      tx.Runner
	numbers numbering.Generator
	now     func() time.Time
}

func NewService(repo Repository, stock Stock, runner tx.Runner, numbers numbering.Generator) *Service {
	if runner == nil {
		runner = tx.NoTx
	}
	return &Service{repo: repo, stock: stock, tx: runner, numbers: numbers, now: time.Now}
}

type ItemInput struct {
	MedicineID string
	Quantity   int
	UnitPrice  float64
}

type CreateInput struct {
	Supplier     string
	OrderDate    *time.Time
	ExpectedDate *time.Time
	Notes        string
	Items        []ItemInput
}

type UpdateInput struct {
	Supplier     *string
	OrderDate    *time.Time
	ExpectedDate *time.Time
	Notes        *string
	// Items nil = sin cambios; slice vacío no está permitido.
	Items []ItemInput
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	supplier := strings.TrimSpace(in.Supplier)
	if supplier == "" {
		return Order{}, apperr.Invalid("supplier is required")
	}
	now := s.now().UTC()
	o := Order{
		ID:           uuid.NewString(),
		Supplier:     supplier,
		OrderDate:    now,
		ExpectedDate: in.ExpectedDate,
		Status:       StatusDraft,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.OrderDate != nil {
		o.OrderDate = in.OrderDate.UTC()
	}
	if err := s.setItems(ctx, &o, in.Items); err != nil {
		return Order{}, err
	}

	// Número, cabecera e ítems van juntos.
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		num, err := s.numbers.Next(ctx, numbering.KindPurchaseOrder, o.OrderDate)
		if err != nil {
			return err
		}
		o.Number = num
		return s.repo.Create(ctx, o)
	}); err != nil {
		return Order{}, err
	}
	return o, nil
}

// setItems valida los ítems y recalcula line_total y total_amount.
func (s *Service) setItems(ctx context.Context, o *Order, in []ItemInput) error {
	if len(in) == 0 {
		return apperr.Invalid("at least one item is required")
	}
	items := make([]Item, 0, len(in))
	total := 0.0
	for _, it := range in {
		id := strings.TrimSpace(it.MedicineID)
		if id == "" {
			return apperr.Invalid("item medicine_id is required")
		}
		if it.Quantity <= 0 {
			return apperr.Invalid("item quantity must be > 0")
		}
		if it.UnitPrice < 0 {
			return apperr.Invalid("item unit_price must be >= 0")
		}
		if err := s.stock.Exists(ctx, id); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Invalid("medicine " + id + " not found")
			}
			return err
		}
		line := money.Line(float64(it.Quantity), it.UnitPrice)
		total += line
		items = append(items, Item{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			MedicineID: id,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LineTotal:  line,
		})
	}
	o.Items = items
	o.TotalAmount = money.Round2(total)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("unknown status")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) CountOpen(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, OpenStatuses)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !o.Status.Open() {
		return Order{}, ErrNotEditable
	}

	if in.Supplier != nil {
		v := strings.TrimSpace(*in.Supplier)
		if v == "" {
			return Order{}, apperr.Invalid("supplier cannot be empty")
		}
		o.Supplier = v
	}
	if in.OrderDate != nil {
		o.OrderDate = in.OrderDate.UTC()
	}
	if in.ExpectedDate != nil {
		o.ExpectedDate = in.ExpectedDate
	}
	if in.Notes != nil {
		o.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Items != nil {
		if err := s.setItems(ctx, &o, in.Items); err != nil {
			return Order{}, err
		}
	}
	o.UpdatedAt = s.now().UTC()

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, o)
	}); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Service) MarkOrdered(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, []Status{StatusDraft}, StatusOrdered)
}

func (s *Service) Cancel(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, OpenStatuses, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, from []Status, to Status) (Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := s.repo.Transition(ctx, o.ID, from, to, s.now().UTC()); err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(ctx, o.ID)
}

// Receive marca la orden como recibida y suma cada ítem al stock, todo o nada.
// El cambio de estado es condicional: dos recepciones concurrentes no duplican stock.
func (s *Service) Receive(ctx context.Context, id string) (Order, error) {
	var out Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Transition(ctx, o.ID, OpenStatuses, StatusReceived, s.now().UTC()); err != nil {
			return err
		}
		for _, it := range o.Items {
			if _, err := s.stock.AdjustStock(ctx, it.MedicineID, it.Quantity); err != nil {
				return err
			}
		}
		out, err = s.repo.GetByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return Order{}, err
	}
	return out, nil
}
