package medicines

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Medicine
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Medicine{}} }

func (r *testRepo) Create(_ context.Context, m Medicine) error { r.byID[m.ID] = m; return nil }
func (r *testRepo) Update(_ context.Context, m Medicine) error { r.byID[m.ID] = m; return nil }
func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}
func (r *testRepo) GetByID(_ context.Context, id string) (Medicine, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medicine{}, ErrNotFound
	}
	return m, nil
}
func (r *testRepo) List(_ context.Context, f ListFilter) ([]Medicine, error) {
	out := []Medicine{}
	for _, m := range r.byID {
		if f.LowStock && !m.LowStock() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r *testRepo) AdjustStock(_ context.Context, id string, delta int) (Medicine, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medicine{}, ErrNotFound
	}
	if m.StockQuantity+delta < 0 {
		return Medicine{}, ErrInsufficientStock
	}
	m.StockQuantity += delta
	r.byID[id] = m
	return m, nil
}
func (r *testRepo) CountLowStock(ctx context.Context) (int, error) {
	items, _ := r.List(ctx, ListFilter{LowStock: true})
	return len(items), nil
}

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, Input{Name: ptr("Amoxicillin"), StockQuantity: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, Input{Name: ptr("Amoxicillin"), UnitPrice: ptr(-0.5)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	m, err := svc.Create(ctx, Input{Name: ptr("Amoxicillin"), StockQuantity: ptr(5), ReorderLevel: ptr(5)})
	require.NoError(t, err)
	assert.True(t, m.LowStock(), "stock equal to reorder level counts as low")
}

func TestAdjustStock_NeverNegative(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m, err := svc.Create(ctx, Input{Name: ptr("Meloxicam"), StockQuantity: ptr(3)})
	require.NoError(t, err)

	m, err = svc.AdjustStock(ctx, m.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, m.StockQuantity)

	_, err = svc.AdjustStock(ctx, m.ID, -2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSummary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	expired := fixedNow.AddDate(0, 0, -1)
	soon := fixedNow.AddDate(0, 0, 10)
	later := fixedNow.AddDate(1, 0, 0)

	_, err := svc.Create(ctx, Input{Name: ptr("A"), StockQuantity: ptr(10), ReorderLevel: ptr(2), UnitPrice: ptr(1.5), ExpiryDate: &expired})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: ptr("B"), StockQuantity: ptr(1), ReorderLevel: ptr(2), UnitPrice: ptr(2.25), ExpiryDate: &soon})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: ptr("C"), StockQuantity: ptr(4), ReorderLevel: ptr(1), ExpiryDate: &later})
	require.NoError(t, err)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, 15, sum.TotalUnits)
	assert.Equal(t, 17.25, sum.StockValue)
	assert.Len(t, sum.LowStock, 1)
	assert.Len(t, sum.Expired, 1)
	assert.Len(t, sum.ExpiringSoon, 1)
}
