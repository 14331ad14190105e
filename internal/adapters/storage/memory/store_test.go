package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/ports/numbering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollbackRestoresSnapshot(t *testing.T) {
	s := NewStore()
	repo := NewMedicineRepo(s)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, medicines.Medicine{ID: "m1", Name: "Saline", StockQuantity: 2, CreatedAt: now, UpdatedAt: now}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.AdjustStock(ctx, "m1", 5); err != nil {
			return err
		}
		if err := repo.Create(ctx, medicines.Medicine{ID: "m2", Name: "Dextrose", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	m, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, m.StockQuantity)

	_, err = repo.GetByID(ctx, "m2")
	assert.Error(t, err)
}

func TestWithinTx_PanicRestoresAndRethrows(t *testing.T) {
	s := NewStore()
	repo := NewMedicineRepo(s)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			_ = repo.Create(ctx, medicines.Medicine{ID: "m1", Name: "Saline"})
			panic("kaboom")
		})
	})

	_, err := repo.GetByID(ctx, "m1")
	assert.Error(t, err)
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	repo := NewMedicineRepo(s)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		inner := s.WithinTx(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, medicines.Medicine{ID: "m1", Name: "Saline"})
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "m1")
	assert.Error(t, err, "la transacción interna no debe commitear sola")
}

func TestRead_WaitsForOpenTx(t *testing.T) {
	s := NewStore()
	repo := NewMedicineRepo(s)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	boom := errors.New("boom")
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithinTx(ctx, func(ctx context.Context) error {
			if err := repo.Create(ctx, medicines.Medicine{ID: "m1", Name: "Saline"}); err != nil {
				return err
			}
			close(started)
			<-release
			return boom
		})
	}()
	<-started

	readDone := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(ctx, "m1")
		readDone <- err
	}()

	select {
	case <-readDone:
		t.Fatal("la lectura no debe ver la transacción abierta")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-txDone, boom)
	assert.Error(t, <-readDone, "m1 se descartó en el rollback")
}

func TestAdjustStock_RejectsNegative(t *testing.T) {
	s := NewStore()
	repo := NewMedicineRepo(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, medicines.Medicine{ID: "m1", Name: "Saline", StockQuantity: 1}))

	_, err := repo.AdjustStock(ctx, "m1", -2)
	assert.ErrorIs(t, err, medicines.ErrInsufficientStock)
}

func TestNumberGenerator_PerYearAndConcurrent(t *testing.T) {
	s := NewStore()
	g := NewNumberGenerator(s)
	ctx := context.Background()
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	first, err := g.Next(ctx, numbering.KindReceipt, at)
	require.NoError(t, err)
	assert.Equal(t, "RCPT-2026-000001", first)

	other, err := g.Next(ctx, numbering.KindReceipt, at.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "RCPT-2027-000001", other)

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := g.Next(ctx, numbering.KindInvoice, at)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestNumberGenerator_RollbackReleasesNumber(t *testing.T) {
	s := NewStore()
	g := NewNumberGenerator(s)
	ctx := context.Background()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_ = s.WithinTx(ctx, func(ctx context.Context) error {
		_, _ = g.Next(ctx, numbering.KindPurchaseOrder, at)
		return errors.New("abort")
	})

	got, err := g.Next(ctx, numbering.KindPurchaseOrder, at)
	require.NoError(t, err)
	assert.Equal(t, "PO-2026-000001", got)
}

func TestOwnerRepo_ActivePhoneIsUnique(t *testing.T) {
	repo := NewOwnerRepo(NewStore())
	ctx := context.Background()

	ana := owners.Owner{ID: "o1", Name: "Ana", Phone: "5550101", Active: true}
	bob := owners.Owner{ID: "o2", Name: "Bob", Phone: "5550101", Active: true}
	require.NoError(t, repo.Create(ctx, ana))
	assert.ErrorIs(t, repo.Create(ctx, bob), owners.ErrPhoneTaken)

	bob.Phone = "5550202"
	require.NoError(t, repo.Create(ctx, bob))
	bob.Phone = ana.Phone
	assert.ErrorIs(t, repo.Update(ctx, bob), owners.ErrPhoneTaken)

	ana.Active = false
	require.NoError(t, repo.Update(ctx, ana))
	require.NoError(t, repo.Update(ctx, bob))
}
