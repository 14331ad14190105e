package donations

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/platform/money"
	"vet-hospital/internal/ports/notify"
	"vet-hospital/internal/ports/numbering"
	"vet-hospital/internal/ports/receipts"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = apperr.ErrInvalidInput
	ErrNotFound       = apperr.ErrNotFound
	ErrDonorHasGifts  = apperr.Conflict("donor has donations")
	ErrReceiptsOff    = apperr.BadState("receipt storage is not configured")
	ErrRendererAbsent = apperr.BadState("receipt rendering is not configured")
)

type Deps struct {
	Donors   DonorRepository
	Numbers  numbering.Generator
	Renderer receipts.Renderer
	Store    receipts.Store
	Mailer   notify.Mailer
	Log      logger.Logger
}

type Service struct {
	repo     Repository
	donors   DonorRepository
	numbers  numbering.Generator
	renderer receipts.Renderer
	store    receipts.Store
	mailer   notify.Mailer
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, d Deps) *Service {
	s := &Service{
		repo:     repo,
		donors:   d.Donors,
		numbers:  d.Numbers,
		renderer: d.Renderer,
		store:    d.Store,
		mailer:   d.Mailer,
		log:      d.Log,
		now:      time.Now,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

type CreateInput struct {
	DonorID     string
	DonorName   string
	Amount      float64
	Method      Method
	Purpose     string
	AdmissionID string
	DonatedAt   *time.Time
	Notes       string
}

// Create registra la donación con su número de recibo.
// Corre igual dentro o fuera de una transacción (intake la usa dentro).
func (s *Service) Create(ctx context.Context, in CreateInput) (Donation, error) {
	amount := money.Round2(in.Amount)
	if amount <= 0 {
		return Donation{}, apperr.Invalid("amount must be > 0")
	}
	method := Method(strings.ToLower(strings.TrimSpace(string(in.Method))))
	if method == "" {
		method = MethodCash
	}
	if !method.Valid() {
		return Donation{}, apperr.Invalid("unknown payment method")
	}

	name := strings.TrimSpace(in.DonorName)
	donorID := strings.TrimSpace(in.DonorID)
	if donorID != "" {
		d, err := s.donors.GetDonor(ctx, donorID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return Donation{}, apperr.Invalid("donor not found")
			}
			return Donation{}, err
		}
		if name == "" {
			name = d.Name
		}
	}
	if name == "" {
		name = AnonymousDonor
	}

	now := s.now().UTC()
	at := now
	if in.DonatedAt != nil {
		at = in.DonatedAt.UTC()
	}

	number, err := s.numbers.Next(ctx, numbering.KindReceipt, at)
	if err != nil {
		return Donation{}, err
	}

	d := Donation{
		ID:            uuid.NewString(),
		DonorID:       donorID,
		DonorName:     name,
		Amount:        amount,
		Method:        method,
		Purpose:       strings.TrimSpace(in.Purpose),
		AdmissionID:   strings.TrimSpace(in.AdmissionID),
		ReceiptNumber: number,
		DonatedAt:     at,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Donation{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donation{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Donation, error) {
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, apperr.Invalid("to must be after from")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, d.ID)
}

// Summary suma total, cantidad y desglose por método para el filtro dado.
func (s *Service) Summary(ctx context.Context, f ListFilter) (Summary, error) {
	items, err := s.List(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{ByMethod: make(map[Method]MethodTotal, len(AllMethods))}
	for _, m := range AllMethods {
		sum.ByMethod[m] = MethodTotal{}
	}
	for _, d := range items {
		sum.Total += d.Amount
		sum.Count++
		mt := sum.ByMethod[d.Method]
		mt.Count++
		mt.Amount = money.Round2(mt.Amount + d.Amount)
		sum.ByMethod[d.Method] = mt
	}
	sum.Total = money.Round2(sum.Total)
	return sum, nil
}

// MonthRange devuelve [inicio de mes, inicio del mes siguiente) en UTC.
func MonthRange(at time.Time) (time.Time, time.Time) {
	at = at.UTC()
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
