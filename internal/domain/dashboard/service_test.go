package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-hospital/internal/domain/donations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countFunc func(context.Context) (int, error)

func (f countFunc) CountActive(ctx context.Context) (int, error)   { return f(ctx) }
func (f countFunc) CountLowStock(ctx context.Context) (int, error) { return f(ctx) }
func (f countFunc) CountOpen(ctx context.Context) (int, error)     { return f(ctx) }

func fixed(n int) countFunc { return func(context.Context) (int, error) { return n, nil } }

type cages struct{ total, available int }

func (c cages) Totals(context.Context) (int, int, error) { return c.total, c.available, nil }

type donationSums struct {
	filters []donations.ListFilter
}

func (d *donationSums) Summary(_ context.Context, f donations.ListFilter) (donations.Summary, error) {
	d.filters = append(d.filters, f)
	if f.From == nil {
		return donations.Summary{Total: 1500.5, Count: 7}, nil
	}
	return donations.Summary{Total: 200, Count: 1}, nil
}

func TestStats(t *testing.T) {
	sums := &donationSums{}
	svc := NewService(Deps{
		Pets:       fixed(12),
		Admissions: fixed(4),
		Cages:      cages{total: 10, available: 6},
		Medicines:  fixed(3),
		Donations:  sums,
		Purchasing: fixed(2),
	})
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{
		ActivePets:         12,
		CurrentAdmissions:  4,
		TotalCages:         10,
		AvailableCages:     6,
		LowStockMedicines:  3,
		DonationsTotal:     1500.5,
		DonationsMonth:     200,
		OpenPurchaseOrders: 2,
	}, st)

	require.Len(t, sums.filters, 2)
	month := sums.filters[1]
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *month.From)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *month.To)
}

func TestStats_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(Deps{
		Pets: countFunc(func(context.Context) (int, error) { return 0, boom }),
	})
	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}
