// Package dashboard arma los contadores de la pantalla principal.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"vet-hospital/internal/domain/donations"
)

type PetCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type AdmissionCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type CageTotals interface {
	Totals(ctx context.Context) (total, available int, err error)
}

type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int, error)
}

type DonationSummarizer interface {
	Summary(ctx context.Context, f donations.ListFilter) (donations.Summary, error)
}

type OpenOrderCounter interface {
	CountOpen(ctx context.Context) (int, error)
}

type Deps struct {
	Pets       PetCounter
	Admissions AdmissionCounter
	Cages      CageTotals
	Medicines  LowStockCounter
	Donations  DonationSummarizer
	Purchasing OpenOrderCounter
}

type Stats struct {
	ActivePets         int
	CurrentAdmissions  int
	TotalCages         int
	AvailableCages     int
	LowStockMedicines  int
	DonationsTotal     float64
	DonationsMonth     float64
	OpenPurchaseOrders int
}

type Service struct {
	d   Deps
	now func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{d: d, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.ActivePets, err = s.d.Pets.CountActive(ctx); err != nil {
		return Stats{}, fmt.Errorf("count pets: %w", err)
	}
	if st.CurrentAdmissions, err = s.d.Admissions.CountActive(ctx); err != nil {
		return Stats{}, fmt.Errorf("count admissions: %w", err)
	}
	if st.TotalCages, st.AvailableCages, err = s.d.Cages.Totals(ctx); err != nil {
		return Stats{}, fmt.Errorf("count cages: %w", err)
	}
	if st.LowStockMedicines, err = s.d.Medicines.CountLowStock(ctx); err != nil {
		return Stats{}, fmt.Errorf("count low stock: %w", err)
	}
	if st.OpenPurchaseOrders, err = s.d.Purchasing.CountOpen(ctx); err != nil {
		return Stats{}, fmt.Errorf("count purchase orders: %w", err)
	}

	all, err := s.d.Donations.Summary(ctx, donations.ListFilter{})
	if err != nil {
		return Stats{}, fmt.Errorf("sum donations: %w", err)
	}
	from, to := donations.MonthRange(s.now())
	month, err := s.d.Donations.Summary(ctx, donations.ListFilter{From: &from, To: &to})
	if err != nil {
		return Stats{}, fmt.Errorf("sum donations of month: %w", err)
	}
	st.DonationsTotal = all.Total
	st.DonationsMonth = month.Total
	return st, nil
}
