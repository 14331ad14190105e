//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/clinical"
	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/numbering"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vet_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := NewMigrator(db).Up(ctx)
	require.NoError(t, err)
	require.Positive(t, applied)
	return db
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db         *sql.DB
	runner     *TxRunner
	numbers    *NumberGenerator
	facilities *facilities.Service
	facRepo    *FacilitiesRepo
	pets       *pets.Service
	owners     *owners.Service
	admissions *admissions.Service
	medicines  *medicines.Service
}

func newFixture(t *testing.T) fixture {
	db := startPostgres(t)
	runner := NewTxRunner(db)
	numbers := NewNumberGenerator(db)

	petsRepo := NewPetsRepo(db)
	ownersSvc := owners.NewService(NewOwnersRepo(db), petsRepo)
	petsSvc := pets.NewService(petsRepo, NewPetTypesRepo(db), ownersSvc, numbers)

	facRepo := NewFacilitiesRepo(db)
	admRepo := NewAdmissionsRepo(db)
	admSvc := admissions.NewService(admRepo, admissions.Deps{
		Cages:   facRepo,
		Pets:    petsSvc,
		Staff:   staffNever{},
		Tx:      runner,
		Numbers: numbers,
	})

	return fixture{
		db:         db,
		runner:     runner,
		numbers:    numbers,
		facilities: facilities.NewService(facRepo, admRepo),
		facRepo:    facRepo,
		pets:       petsSvc,
		owners:     ownersSvc,
		admissions: admSvc,
		medicines:  medicines.NewService(NewMedicinesRepo(db)),
	}
}

type staffNever struct{}

func (staffNever) Exists(context.Context, string) error { return apperr.ErrNotFound }

func (f fixture) newPet(t *testing.T, name string) pets.Pet {
	t.Helper()
	ctx := context.Background()
	o, _, err := f.owners.Create(ctx, owners.CreateInput{Name: "Owner " + name, Phone: "98" + name})
	require.NoError(t, err)
	p, err := f.pets.Create(ctx, pets.CreateInput{OwnerID: o.ID, Name: name, Species: "dog"})
	require.NoError(t, err)
	return p
}

func TestIntegration_MigratorStatus(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	st, err := NewMigrator(db).Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, st)
	for _, s := range st {
		assert.True(t, s.Applied, s.Name)
	}

	// Segunda corrida no aplica nada.
	n, err := NewMigrator(db).Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIntegration_NumberGenerator(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	g := NewNumberGenerator(db)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := g.Next(ctx, numbering.KindAdmission, at)
	require.NoError(t, err)
	second, err := g.Next(ctx, numbering.KindAdmission, at)
	require.NoError(t, err)
	assert.Equal(t, "ADM-2026-000001", first)
	assert.Equal(t, "ADM-2026-000002", second)

	nextYear, err := g.Next(ctx, numbering.KindAdmission, at.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "ADM-2027-000001", nextYear)

	tag, err := g.Next(ctx, numbering.KindPetTag, at)
	require.NoError(t, err)
	assert.Equal(t, "TAG-000001", tag)
}

func TestIntegration_NumberRollsBackWithTx(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	g := NewNumberGenerator(db)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	err := NewTxRunner(db).WithinTx(ctx, func(ctx context.Context) error {
		if _, err := g.Next(ctx, numbering.KindInvoice, at); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := g.Next(ctx, numbering.KindInvoice, at)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-000001", got)
}

func TestIntegration_AssignCageRespectsCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.facilities.CreateBuilding(ctx, facilities.BuildingInput{Name: ptr("Main"), Code: ptr("M")})
	require.NoError(t, err)
	room, err := f.facilities.CreateRoom(ctx, facilities.RoomInput{BuildingID: ptr(b.ID), Name: ptr("Ward A")})
	require.NoError(t, err)
	cage, err := f.facilities.CreateCage(ctx, facilities.CageInput{RoomID: ptr(room.ID), CageNumber: ptr("C1"), MaxPetCount: ptr(1)})
	require.NoError(t, err)

	first, err := f.admissions.Create(ctx, admissions.CreateInput{PetID: f.newPet(t, "111").ID, CageID: cage.ID})
	require.NoError(t, err)
	assert.Equal(t, cage.ID, first.CageID)

	occ, err := f.facilities.Occupancy(ctx, cage.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Current)
	assert.Equal(t, facilities.CageOccupied, occ.Cage.Status)

	_, err = f.admissions.Create(ctx, admissions.CreateInput{PetID: f.newPet(t, "222").ID, CageID: cage.ID})
	require.ErrorIs(t, err, admissions.ErrCageFull)

	// El rollback no deja internación huérfana.
	active, err := f.admissions.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	_, err = f.admissions.Discharge(ctx, first.ID, admissions.DischargeInput{Status: admissions.StatusDischarged})
	require.NoError(t, err)

	got, err := f.facilities.GetCage(ctx, cage.ID)
	require.NoError(t, err)
	assert.Equal(t, facilities.CageAvailable, got.Status)

	// Sin ocupantes actuales la jaula se puede borrar; el historial queda sin jaula.
	require.NoError(t, f.facilities.DeleteCage(ctx, cage.ID))
	closed, err := f.admissions.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, closed.CageID)
	allot, err := f.admissions.Allotments(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, allot)
}

func TestIntegration_DeleteStaffUnlinksAdmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	members := NewStaffRepo(f.db)
	now := time.Now().UTC()
	doc := staff.Member{ID: uuid.NewString(), Name: "Dr. Rao", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, members.Create(ctx, doc))

	a, err := f.admissions.Create(ctx, admissions.CreateInput{PetID: f.newPet(t, "444").ID})
	require.NoError(t, err)
	_, err = f.db.ExecContext(ctx, `UPDATE admissions SET doctor_id = $1 WHERE id = $2`, doc.ID, a.ID)
	require.NoError(t, err)

	require.NoError(t, members.Delete(ctx, doc.ID))

	got, err := f.admissions.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DoctorID)
}

func TestIntegration_ActivePhoneIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana, _, err := f.owners.Create(ctx, owners.CreateInput{Name: "Ana", Phone: "5550101"})
	require.NoError(t, err)
	bob, _, err := f.owners.Create(ctx, owners.CreateInput{Name: "Bob", Phone: "5550202"})
	require.NoError(t, err)

	// El índice parcial frena la colisión aunque no pase por el servicio.
	repo := NewOwnersRepo(f.db)
	bob.Phone = ana.Phone
	require.ErrorIs(t, repo.Update(ctx, bob), owners.ErrPhoneTaken)

	ana.Active = false
	require.NoError(t, repo.Update(ctx, ana))
	require.NoError(t, repo.Update(ctx, bob))
}

func TestIntegration_ReceiveIncrementsStockOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	med, err := f.medicines.Create(ctx, medicines.Input{Name: ptr("Amoxicillin"), StockQuantity: ptr(5)})
	require.NoError(t, err)

	po := purchasing.NewService(NewPurchaseOrdersRepo(f.db), f.medicines, f.runner, f.numbers)
	order, err := po.Create(ctx, purchasing.CreateInput{
		Supplier: "Acme",
		Items:    []purchasing.ItemInput{{MedicineID: med.ID, Quantity: 10, UnitPrice: 2.5}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, order.TotalAmount, 0.001)

	received, err := po.Receive(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	_, err = po.Receive(ctx, order.ID)
	require.ErrorIs(t, err, purchasing.ErrNotOpen)

	got, err := f.medicines.GetByID(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.StockQuantity)
}

func TestIntegration_AdjustStockNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	med, err := f.medicines.Create(ctx, medicines.Input{Name: ptr("Meloxicam"), StockQuantity: ptr(3)})
	require.NoError(t, err)

	_, err = f.medicines.AdjustStock(ctx, med.ID, -4)
	require.ErrorIs(t, err, medicines.ErrInsufficientStock)

	got, err := f.medicines.AdjustStock(ctx, med.ID, -3)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)

	_, err = f.medicines.AdjustStock(ctx, "6f1c1f9e-0000-4000-8000-000000000000", 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIntegration_MergeVisitKeepsBothShifts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.admissions.Create(ctx, admissions.CreateInput{PetID: f.newPet(t, "333").ID})
	require.NoError(t, err)

	repo := NewClinicalRepo(f.db)
	svc := clinical.NewService(clinical.Deps{
		Treatments:    repo,
		Visits:        repo,
		Prescriptions: repo,
		Admissions:    f.admissions,
		Staff:         noStaff{},
		Medicines:     f.medicines,
	})

	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.RecordVisit(ctx, "", clinical.VisitInput{
		AdmissionID: a.ID, Date: &day, Shift: "am", Vitals: json.RawMessage(`{"temp":38.5}`),
	})
	require.NoError(t, err)
	v, err := svc.RecordVisit(ctx, "", clinical.VisitInput{
		AdmissionID: a.ID, Date: &day, Shift: "PM", Vitals: json.RawMessage(`{"temp":38.9}`), Notes: "eating",
	})
	require.NoError(t, err)

	assert.Contains(t, v.Vitals, "am")
	assert.Contains(t, v.Vitals, "pm")
	assert.Equal(t, "eating", v.Notes)

	hist, err := svc.History(ctx, clinical.HistoryFilter{AdmissionID: a.ID})
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

type noStaff struct{}

func (noStaff) ForUser(context.Context, string) (staff.Member, error) {
	return staff.Member{}, apperr.ErrNotFound
}

func (noStaff) Exists(context.Context, string) error { return apperr.ErrNotFound }
