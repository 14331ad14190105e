package memory

import (
	"context"
	"errors"
	"testing"

	"vet-hospital/internal/adapters/receipts/memstore"
	"vet-hospital/internal/adapters/receipts/pdf"
	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/billing"
	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/domain/intake"
	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/receipts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anyStaff struct{}

func (anyStaff) Exists(context.Context, string) error { return nil }

type world struct {
	store      *Store
	owners     *owners.Service
	pets       *pets.Service
	facilities *facilities.Service
	admissions *admissions.Service
	medicines  *medicines.Service
	orders     *purchasing.Service
	donations  *donations.Service
	bills      *billing.Service
	receipts   *memstore.Store
}

func newWorld(t *testing.T, store receipts.Store) world {
	t.Helper()
	s := NewStore()
	numbers := NewNumberGenerator(s)

	petRepo := NewPetRepo(s)
	ownersSvc := owners.NewService(NewOwnerRepo(s), petRepo)
	petsSvc := pets.NewService(petRepo, NewPetTypeRepo(s), ownersSvc, numbers)

	facRepo := NewFacilityRepo(s)
	admRepo := NewAdmissionRepo(s)
	admSvc := admissions.NewService(admRepo, admissions.Deps{
		Cages:   facRepo,
		Pets:    petsSvc,
		Staff:   anyStaff{},
		Tx:      s,
		Numbers: numbers,
	})
	medSvc := medicines.NewService(NewMedicineRepo(s))

	mem := memstore.New()
	if store == nil {
		store = mem
	}
	donSvc := donations.NewService(NewDonationRepo(s), donations.Deps{
		Donors:   NewDonorRepo(s),
		Numbers:  numbers,
		Renderer: pdf.NewRenderer("Test Hospital"),
		Store:    store,
	})

	return world{
		store:      s,
		owners:     ownersSvc,
		pets:       petsSvc,
		facilities: facilities.NewService(facRepo, admRepo),
		admissions: admSvc,
		medicines:  medSvc,
		orders:     purchasing.NewService(NewPurchaseOrderRepo(s), medSvc, s, numbers),
		donations:  donSvc,
		bills: billing.NewService(NewBillRepo(s), billing.Deps{
			Owners:     ownersSvc,
			Admissions: admSvc,
			Pets:       petsSvc,
			Tx:         s,
			Numbers:    numbers,
		}),
		receipts: mem,
	}
}

func (w world) intake() *intake.Service {
	return intake.NewService(intake.Deps{
		Owners:     w.owners,
		Pets:       w.pets,
		Admissions: w.admissions,
		Donations:  w.donations,
		Tx:         w.store,
	})
}

func sp(v string) *string { return &v }
func ip(v int) *int       { return &v }

func (w world) cage(t *testing.T, capacity int) facilities.Cage {
	t.Helper()
	ctx := context.Background()
	b, err := w.facilities.CreateBuilding(ctx, facilities.BuildingInput{Name: sp("Main")})
	require.NoError(t, err)
	r, err := w.facilities.CreateRoom(ctx, facilities.RoomInput{BuildingID: sp(b.ID), Name: sp("Ward")})
	require.NoError(t, err)
	c, err := w.facilities.CreateCage(ctx, facilities.CageInput{RoomID: sp(r.ID), CageNumber: sp("C-1"), MaxPetCount: ip(capacity)})
	require.NoError(t, err)
	return c
}

func (w world) pet(t *testing.T, phone string) pets.Pet {
	t.Helper()
	ctx := context.Background()
	o, _, err := w.owners.Create(ctx, owners.CreateInput{Name: "Owner " + phone, Phone: phone})
	require.NoError(t, err)
	p, err := w.pets.Create(ctx, pets.CreateInput{OwnerID: o.ID, Name: "Rex", Species: "dog"})
	require.NoError(t, err)
	return p
}

func TestAdmissions_CageCapacityAndRelease(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	c := w.cage(t, 2)

	a1, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000001").ID, CageID: c.ID})
	require.NoError(t, err)
	a2, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000002").ID, CageID: c.ID})
	require.NoError(t, err)

	_, err = w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000003").ID, CageID: c.ID})
	require.ErrorIs(t, err, admissions.ErrCageFull)

	active, err := w.admissions.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active, "la internación rechazada no debe quedar guardada")

	occ, err := w.facilities.Occupancy(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, occ.Current)
	assert.Equal(t, facilities.CageOccupied, occ.Cage.Status)

	_, err = w.admissions.AssignCage(ctx, a1.ID, "")
	require.NoError(t, err)
	_, err = w.admissions.Discharge(ctx, a2.ID, admissions.DischargeInput{Status: admissions.StatusDischarged})
	require.NoError(t, err)

	got, err := w.facilities.GetCage(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, facilities.CageAvailable, got.Status)

	allot, err := w.admissions.Allotments(ctx, a2.ID)
	require.NoError(t, err)
	require.Len(t, allot, 1)
	assert.NotNil(t, allot[0].ReleasedAt)

	_, err = w.admissions.Discharge(ctx, a2.ID, admissions.DischargeInput{})
	assert.ErrorIs(t, err, admissions.ErrClosed)
}

func TestFacilities_DeleteCageAfterDischarge(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	c := w.cage(t, 1)

	a, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000004").ID, CageID: c.ID})
	require.NoError(t, err)
	require.ErrorIs(t, w.facilities.DeleteCage(ctx, c.ID), facilities.ErrCageInUse)

	_, err = w.admissions.Discharge(ctx, a.ID, admissions.DischargeInput{})
	require.NoError(t, err)
	require.NoError(t, w.facilities.DeleteCage(ctx, c.ID))

	got, err := w.admissions.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CageID)

	allot, err := w.admissions.Allotments(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, allot)
}

func TestStaff_DeleteUnlinksAdmissions(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	repo := NewStaffRepo(w.store)
	require.NoError(t, repo.Create(ctx, staff.Member{ID: "doc-1", Name: "Dr. Rao", Active: true}))

	a, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000005").ID, DoctorID: "doc-1"})
	require.NoError(t, err)
	require.Equal(t, "doc-1", a.DoctorID)

	require.NoError(t, repo.Delete(ctx, "doc-1"))

	got, err := w.admissions.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DoctorID)
}

func TestAdmissions_DeleteKeepsDonationsAndBills(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	a, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000006").ID})
	require.NoError(t, err)

	d, err := w.donations.Create(ctx, donations.CreateInput{Amount: 100, AdmissionID: a.ID})
	require.NoError(t, err)
	b, err := w.bills.Create(ctx, billing.CreateInput{
		AdmissionID: a.ID,
		Items:       []billing.ItemInput{{Description: "Boarding", Quantity: 1, UnitPrice: 500}},
	})
	require.NoError(t, err)

	require.NoError(t, w.admissions.Delete(ctx, a.ID))

	gotD, err := w.donations.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, gotD.AdmissionID)

	gotB, err := w.bills.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, gotB.AdmissionID)
	assert.Equal(t, b.OwnerID, gotB.OwnerID)
}

func TestAdmissions_DeceasedRemovesPet(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	p := w.pet(t, "9000000010")

	a, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: p.ID})
	require.NoError(t, err)
	assert.Regexp(t, `^ADM-\d{4}-000001$`, a.Number)

	_, err = w.admissions.Discharge(ctx, a.ID, admissions.DischargeInput{Status: admissions.StatusDeceased})
	require.NoError(t, err)

	got, err := w.pets.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Removed)

	_, err = w.admissions.Create(ctx, admissions.CreateInput{PetID: p.ID})
	assert.ErrorIs(t, err, admissions.ErrPetRemoved)
}

func TestPurchasing_ReceiveOnce(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()

	med, err := w.medicines.Create(ctx, medicines.Input{Name: sp("Ceftriaxone"), StockQuantity: ip(1)})
	require.NoError(t, err)

	o, err := w.orders.Create(ctx, purchasing.CreateInput{
		Supplier: "Vet Supplies",
		Items: []purchasing.ItemInput{
			{MedicineID: med.ID, Quantity: 4, UnitPrice: 1.255},
			{MedicineID: med.ID, Quantity: 2, UnitPrice: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchasing.StatusDraft, o.Status)

	_, err = w.orders.MarkOrdered(ctx, o.ID)
	require.NoError(t, err)

	r, err := w.orders.Receive(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.StatusReceived, r.Status)

	_, err = w.orders.Receive(ctx, o.ID)
	require.ErrorIs(t, err, purchasing.ErrNotOpen)
	_, err = w.orders.Cancel(ctx, o.ID)
	require.ErrorIs(t, err, purchasing.ErrNotOpen)

	got, err := w.medicines.GetByID(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)
}

func TestPurchasing_UnknownMedicineRejected(t *testing.T) {
	w := newWorld(t, nil)
	_, err := w.orders.Create(context.Background(), purchasing.CreateInput{
		Supplier: "Vet Supplies",
		Items:    []purchasing.ItemInput{{MedicineID: "missing", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput) || errors.Is(err, apperr.ErrNotFound), err)
}

func TestBilling_PaymentsAndOverpay(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	p := w.pet(t, "9000000020")
	a, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: p.ID})
	require.NoError(t, err)

	b, err := w.bills.Create(ctx, billing.CreateInput{
		AdmissionID: a.ID,
		Items: []billing.ItemInput{
			{Description: "Boarding", Quantity: 3, UnitPrice: 500},
			{Description: "X-ray", Quantity: 1, UnitPrice: 800},
		},
		Discount: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, p.OwnerID, b.OwnerID)
	assert.InDelta(t, 2000, b.Total, 0.001)
	assert.Equal(t, billing.StatusPending, b.Status)

	b, err = w.bills.RecordPayment(ctx, b.ID, billing.PaymentInput{Amount: 1500, Method: "UPI"})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPartial, b.Status)

	_, err = w.bills.RecordPayment(ctx, b.ID, billing.PaymentInput{Amount: 600})
	require.ErrorIs(t, err, billing.ErrOverpayment)

	_, err = w.bills.Cancel(ctx, b.ID)
	require.ErrorIs(t, err, billing.ErrHasPayments)

	b, err = w.bills.RecordPayment(ctx, b.ID, billing.PaymentInput{Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, b.Status)

	pays, err := w.bills.Payments(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, pays, 2)
	methods := []string{pays[0].Method, pays[1].Method}
	assert.ElementsMatch(t, []string{"upi", "cash"}, methods)
}

func TestDonations_IssueReceiptStoresPDF(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()

	d, err := w.donations.Create(ctx, donations.CreateInput{Amount: 250, Method: "UPI", Purpose: "food"})
	require.NoError(t, err)
	assert.Equal(t, donations.AnonymousDonor, d.DonorName)
	assert.Regexp(t, `^RCPT-\d{4}-000001$`, d.ReceiptNumber)

	issued, err := w.donations.IssueReceipt(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "mem://"+donations.ReceiptKey(d), issued.Ref)
	assert.False(t, issued.Emailed)

	body, err := w.receipts.Get(ctx, issued.Donation.ReceiptKey)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(body[:5]))

	got, err := w.donations.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.Donation.ReceiptKey, got.ReceiptKey)
}

func TestDonations_AmountRoundsBeforeValidation(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()

	_, err := w.donations.Create(ctx, donations.CreateInput{Amount: 0.004})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	d, err := w.donations.Create(ctx, donations.CreateInput{Amount: 0.006})
	require.NoError(t, err)
	assert.Equal(t, 0.01, d.Amount)

	sum, err := w.donations.Summary(ctx, donations.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
}

func TestDonations_DonorWithGiftsCannotBeDeleted(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()

	donor, err := w.donations.CreateDonor(ctx, donations.DonorInput{Name: sp("Asha")})
	require.NoError(t, err)
	_, err = w.donations.Create(ctx, donations.CreateInput{DonorID: donor.ID, Amount: 100})
	require.NoError(t, err)

	err = w.donations.DeleteDonor(ctx, donor.ID)
	assert.ErrorIs(t, err, donations.ErrDonorHasGifts)
}

func TestIntake_FullCageRollsBackEverything(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	c := w.cage(t, 1)
	_, err := w.admissions.Create(ctx, admissions.CreateInput{PetID: w.pet(t, "9000000030").ID, CageID: c.ID})
	require.NoError(t, err)

	_, err = w.intake().Admit(ctx, intake.Input{
		Owner:          owners.CreateInput{Name: "New Owner", Phone: "9000000031"},
		Pet:            pets.CreateInput{Name: "Milo", Species: "cat"},
		Admission:      admissions.CreateInput{CageID: c.ID},
		DonationAmount: 100,
	})
	require.ErrorIs(t, err, admissions.ErrCageFull)

	found, err := w.owners.List(ctx, owners.ListFilter{Query: "9000000031"})
	require.NoError(t, err)
	assert.Empty(t, found)

	sum, err := w.donations.Summary(ctx, donations.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
}

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, apperr.ErrNotFound }

func TestIntake_ReceiptFailureIsAWarning(t *testing.T) {
	w := newWorld(t, brokenStore{})
	ctx := context.Background()

	res, err := w.intake().Admit(ctx, intake.Input{
		Owner:          owners.CreateInput{Name: "Ravi", Phone: "9000000040"},
		Pet:            pets.CreateInput{Name: "Bruno", Species: "dog"},
		DonationAmount: 500,
		DonationMethod: donations.MethodCash,
	})
	require.NoError(t, err)
	assert.True(t, res.PetCreated)
	assert.NotEmpty(t, res.Admission.ID)
	require.NotNil(t, res.Donation)
	assert.Equal(t, res.Admission.ID, res.Donation.AdmissionID)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "receipt not generated")
	assert.Empty(t, res.ReceiptRef)
}

func TestIntake_MergesOwnerByPhone(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	existing := w.pet(t, "9000000050")

	res, err := w.intake().Admit(ctx, intake.Input{
		Owner:     owners.CreateInput{Name: "Renamed Owner", Phone: "900 000 0050"},
		PetID:     existing.ID,
		Pet:       pets.CreateInput{Breed: "Labrador"},
		Admission: admissions.CreateInput{Reason: "fever"},
	})
	require.NoError(t, err)
	assert.False(t, res.PetCreated)
	assert.Equal(t, existing.ID, res.Pet.ID)
	assert.Equal(t, "Labrador", res.Pet.Breed)
	assert.Empty(t, res.Warnings)
}

func TestIntake_UnknownOwnerKeepsExistingPetOwner(t *testing.T) {
	w := newWorld(t, nil)
	ctx := context.Background()
	existing := w.pet(t, "9000000060")

	res, err := w.intake().Admit(ctx, intake.Input{
		UnknownOwner: true,
		PetID:        existing.ID,
		Admission:    admissions.CreateInput{Reason: "found injured"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.OwnerID, res.Pet.OwnerID)
	assert.Equal(t, existing.OwnerID, res.Owner.ID)

	got, err := w.pets.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.OwnerID, got.OwnerID)

	// Sin mascota previa sí se usa el dueño desconocido.
	res, err = w.intake().Admit(ctx, intake.Input{
		UnknownOwner: true,
		Pet:          pets.CreateInput{Name: "Stray", Species: "dog"},
	})
	require.NoError(t, err)
	assert.Equal(t, owners.UnknownOwnerName, res.Owner.Name)
	assert.Equal(t, res.Owner.ID, res.Pet.OwnerID)
}
