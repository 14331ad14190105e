package purchasing

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/numbering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct{ byID map[string]Order }

func (r *testRepo) Create(_ context.Context, o Order) error { r.byID[o.ID] = o; return nil }
func (r *testRepo) Update(_ context.Context, o Order) error { r.byID[o.ID] = o; return nil }
func (r *testRepo) GetByID(_ context.Context, id string) (Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}
func (r *testRepo) List(_ context.Context, _ ListFilter) ([]Order, error) { return nil, nil }
func (r *testRepo) Transition(_ context.Context, id string, from []Status, to Status, at time.Time) error {
	o, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(from, o.Status) {
		return ErrNotOpen
	}
	o.Status = to
	if to == StatusReceived {
		o.ReceivedAt = &at
	}
	r.byID[id] = o
	return nil
}
func (r *testRepo) CountByStatus(_ context.Context, statuses []Status) (int, error) {
	n := 0
	for _, o := range r.byID {
		if slices.Contains(statuses, o.Status) {
			n++
		}
	}
	return n, nil
}

type testStock struct{ qty map[string]int }

func (s *testStock) Exists(_ context.Context, id string) error {
	if _, ok := s.qty[id]; !ok {
		return apperr.ErrNotFound
	}
	return nil
}
func (s *testStock) AdjustStock(_ context.Context, id string, delta int) (medicines.Medicine, error) {
	s.qty[id] += delta
	return medicines.Medicine{ID: id, StockQuantity: s.qty[id]}, nil
}

type seqNumbers struct{ n int64 }

func (g *seqNumbers) Next(_ context.Context, kind numbering.Kind, at time.Time) (string, error) {
	g.n++
	return numbering.Format(kind, at.Year(), g.n), nil
}

func newTestService() (*Service, *testRepo, *testStock) {
	repo := &testRepo{byID: map[string]Order{}}
	stock := &testStock{qty: map[string]int{"amox": 2, "saline": 0}}
	svc := NewService(repo, stock, nil, &seqNumbers{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo, stock
}

func TestCreate_ComputesTotals(t *testing.T) {
	svc, _, _ := newTestService()

	o, err := svc.Create(context.Background(), CreateInput{
		Supplier: " Pharma Co ",
		Items: []ItemInput{
			{MedicineID: "amox", Quantity: 3, UnitPrice: 10.25},
			{MedicineID: "saline", Quantity: 2, UnitPrice: 0.5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pharma Co", o.Supplier)
	assert.Equal(t, "PO-2026-000001", o.Number)
	assert.Equal(t, StatusDraft, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 30.75, o.Items[0].LineTotal)
	assert.Equal(t, 31.75, o.TotalAmount)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []CreateInput{
		{Items: []ItemInput{{MedicineID: "amox", Quantity: 1}}},
		{Supplier: "X"},
		{Supplier: "X", Items: []ItemInput{{MedicineID: "amox", Quantity: 0}}},
		{Supplier: "X", Items: []ItemInput{{MedicineID: "amox", Quantity: 1, UnitPrice: -1}}},
		{Supplier: "X", Items: []ItemInput{{MedicineID: "ghost", Quantity: 1}}},
	}
	for i, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, fmt.Sprintf("case %d", i))
	}
}

func TestReceive_OnlyOnce(t *testing.T) {
	svc, _, stock := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateInput{Supplier: "X", Items: []ItemInput{
		{MedicineID: "amox", Quantity: 5, UnitPrice: 1},
		{MedicineID: "saline", Quantity: 4, UnitPrice: 1},
	}})
	require.NoError(t, err)

	got, err := svc.Receive(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
	assert.Equal(t, 7, stock.qty["amox"])
	assert.Equal(t, 4, stock.qty["saline"])

	_, err = svc.Receive(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.Equal(t, 7, stock.qty["amox"])
}

func TestUpdate_ClosedOrderRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateInput{Supplier: "X", Items: []ItemInput{{MedicineID: "amox", Quantity: 1, UnitPrice: 2}}})
	require.NoError(t, err)

	_, err = svc.MarkOrdered(ctx, o.ID)
	require.NoError(t, err)

	supplier := "Y"
	updated, err := svc.Update(ctx, o.ID, UpdateInput{Supplier: &supplier, Items: []ItemInput{{MedicineID: "saline", Quantity: 3, UnitPrice: 2}}})
	require.NoError(t, err)
	assert.Equal(t, "Y", updated.Supplier)
	assert.Equal(t, 6.0, updated.TotalAmount)

	_, err = svc.Cancel(ctx, o.ID)
	require.NoError(t, err)
	_, err = svc.Update(ctx, o.ID, UpdateInput{Supplier: &supplier})
	assert.ErrorIs(t, err, ErrNotEditable)

	n, err := svc.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
