package billing

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/money"
	"vet-hospital/internal/ports/numbering"
	"vet-hospital/internal/ports/tx"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
	ErrNotFound     = apperr.ErrNotFound
	ErrOverpayment  = apperr.Invalid("payment exceeds outstanding balance")
	ErrCancelled    = apperr.BadState("bill is cancelled")
	ErrSettled      = apperr.BadState("bill is already paid")
	ErrHasPayments  = apperr.BadState("bill has payments")
)

type OwnerGetter interface {
	GetByID(ctx context.Context, id string) (owners.Owner, error)
}

type AdmissionGetter interface {
	GetByID(ctx context.Context, id string) (admissions.Admission, error)
}

type PetOwners interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Deps struct {
	Owners     OwnerGetter
	Admissions AdmissionGetter
	Pets       PetOwners
	Tx         tx.Runner
	Numbers    numbering.Generator
}

type Service struct {
	repo       Repository
	owners     OwnerGetter
	admissions AdmissionGetter
	pets       PetOwners
	tx         tx.Runner
	numbers    numbering.Generator
	now        func() time.Time
}

func NewService(repo Repository, d Deps) *Service {
	if d.Tx == nil {
		d.Tx = tx.NoTx
	}
	return &Service{
		repo:       repo,
		owners:     d.Owners,
		admissions: d.Admissions,
		pets:       d.Pets,
		tx:         d.Tx,
		numbers:    d.Numbers,
		now:        time.Now,
	}
}

type ItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

type CreateInput struct {
	AdmissionID string
	OwnerID     string
	Items       []ItemInput
	Discount    float64
	Notes       string
}

// Create emite la factura. Sin owner_id, se toma el dueño de la mascota internada.
func (s *Service) Create(ctx context.Context, in CreateInput) (Bill, error) {
	if len(in.Items) == 0 {
		return Bill{}, apperr.Invalid("at least one item is required")
	}
	if in.Discount < 0 {
		return Bill{}, apperr.Invalid("discount must be >= 0")
	}

	admissionID := strings.TrimSpace(in.AdmissionID)
	ownerID := strings.TrimSpace(in.OwnerID)
	if admissionID != "" {
		a, err := s.admissions.GetByID(ctx, admissionID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return Bill{}, apperr.Invalid("admission not found")
			}
			return Bill{}, err
		}
		if ownerID == "" {
			if ownerID, err = s.pets.OwnerOf(ctx, a.PetID); err != nil {
				return Bill{}, err
			}
		}
	}
	if ownerID == "" {
		return Bill{}, apperr.Invalid("owner_id or admission_id is required")
	}
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		if apperr.IsNotFound(err) {
			return Bill{}, apperr.Invalid("owner not found")
		}
		return Bill{}, err
	}

	now := s.now().UTC()
	b := Bill{
		ID:          uuid.NewString(),
		AdmissionID: admissionID,
		OwnerID:     ownerID,
		Status:      StatusPending,
		Notes:       strings.TrimSpace(in.Notes),
		IssuedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	subtotal := 0.0
	for _, it := range in.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			return Bill{}, apperr.Invalid("item description is required")
		}
		if it.Quantity <= 0 {
			return Bill{}, apperr.Invalid("item quantity must be > 0")
		}
		if it.UnitPrice < 0 {
			return Bill{}, apperr.Invalid("item unit_price must be >= 0")
		}
		line := money.Line(it.Quantity, it.UnitPrice)
		subtotal += line
		b.Items = append(b.Items, Item{
			ID:          uuid.NewString(),
			BillID:      b.ID,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   line,
		})
	}
	b.Subtotal = money.Round2(subtotal)
	b.Discount = money.Round2(in.Discount)
	if money.Cents(b.Discount) > money.Cents(b.Subtotal) {
		return Bill{}, apperr.Invalid("discount cannot exceed subtotal")
	}
	b.Total = money.Round2(b.Subtotal - b.Discount)
	b.Status = StatusFor(b.Total, 0)

	// El correlativo se consume sólo si la factura se guarda.
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, numbering.KindInvoice, now)
		if err != nil {
			return err
		}
		b.InvoiceNumber = number
		return s.repo.Create(ctx, b)
	}); err != nil {
		return Bill{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Bill{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Bill, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("unknown status")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Payments(ctx context.Context, billID string) ([]Payment, error) {
	b, err := s.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, b.ID)
}

type PaymentInput struct {
	Amount float64
	Method string
	PaidAt *time.Time
	Notes  string
}

// RecordPayment suma un pago y recalcula el estado. No se acepta pagar de más.
func (s *Service) RecordPayment(ctx context.Context, id string, in PaymentInput) (Bill, error) {
	if money.Cents(in.Amount) <= 0 {
		return Bill{}, apperr.Invalid("amount must be > 0")
	}

	var out Bill
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		switch b.Status {
		case StatusCancelled:
			return ErrCancelled
		case StatusPaid:
			return ErrSettled
		}
		if money.Cents(in.Amount) > money.Cents(b.Balance()) {
			return ErrOverpayment
		}

		now := s.now().UTC()
		paidAt := now
		if in.PaidAt != nil {
			paidAt = in.PaidAt.UTC()
		}
		method := strings.ToLower(strings.TrimSpace(in.Method))
		if method == "" {
			method = "cash"
		}
		if err := s.repo.AddPayment(ctx, Payment{
			ID:     uuid.NewString(),
			BillID: b.ID,
			Amount: money.Round2(in.Amount),
			Method: method,
			PaidAt: paidAt,
			Notes:  strings.TrimSpace(in.Notes),
		}); err != nil {
			return err
		}

		b.AmountPaid = money.Round2(b.AmountPaid + in.Amount)
		b.Status = StatusFor(b.Total, b.AmountPaid)
		b.UpdatedAt = now
		if err := s.repo.SetPaid(ctx, b.ID, b.AmountPaid, b.Status, now); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return Bill{}, err
	}
	return out, nil
}

// Cancel anula una factura sin pagos.
func (s *Service) Cancel(ctx context.Context, id string) (Bill, error) {
	var out Bill
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if b.Status == StatusCancelled {
			return ErrCancelled
		}
		if money.Cents(b.AmountPaid) > 0 {
			return ErrHasPayments
		}
		now := s.now().UTC()
		if err := s.repo.SetStatus(ctx, b.ID, StatusCancelled, now); err != nil {
			return err
		}
		b.Status = StatusCancelled
		b.UpdatedAt = now
		out = b
		return nil
	})
	if err != nil {
		return Bill{}, err
	}
	return out, nil
}
