package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"vet-hospital/internal/adapters/auth/jwtauth"
	"vet-hospital/internal/adapters/receipts/memstore"
	"vet-hospital/internal/adapters/receipts/pdf"
	mem "vet-hospital/internal/adapters/storage/memory"
	pg "vet-hospital/internal/adapters/storage/postgres"
	_ "vet-hospital/internal/docs"
	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/billing"
	"vet-hospital/internal/domain/clinical"
	"vet-hospital/internal/domain/dashboard"
	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/domain/intake"
	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/middleware"
	"vet-hospital/internal/platform/httpx"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/ports/auth"
	"vet-hospital/internal/ports/notify"
	"vet-hospital/internal/ports/numbering"
	"vet-hospital/internal/ports/receipts"
	"vet-hospital/internal/ports/tx"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Tokens emite y revoca sesiones de /auth. Obligatorio.
	Tokens *jwtauth.Manager

	// DevAuth acepta X-Debug-User-ID en lugar del Bearer token.
	DevAuth bool

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales; sin Receipts los PDFs quedan en memoria y sin Mailer no se envían emails.
	Receipts receipts.Store
	Mailer   notify.Mailer

	Hospital string
	Log      logger.Logger
}

// stores agrupa los repositorios de un backend (memory o postgres).
type stores struct {
	tx      tx.Runner
	numbers numbering.Generator

	accounts   accounts.Repository
	rbac       rbac.Repository
	owners     owners.Repository
	pets       pets.Repository
	petTypes   pets.TypeRepository
	facilities facilities.Repository
	admissions admissions.Repository
	staff      staff.Repository
	staffTypes staff.TypeRepository
	medicines  medicines.Repository
	treatments clinical.TreatmentRepository
	visits     clinical.VisitRepository
	rx         clinical.PrescriptionRepository
	orders     purchasing.Repository
	donors     donations.DonorRepository
	donations  donations.Repository
	bills      billing.Repository
}

func memoryStores() stores {
	s := mem.NewStore()
	clin := mem.NewClinicalRepo(s)
	return stores{
		tx:         s,
		numbers:    mem.NewNumberGenerator(s),
		accounts:   mem.NewAccountRepo(s),
		rbac:       mem.NewRBACRepo(s),
		owners:     mem.NewOwnerRepo(s),
		pets:       mem.NewPetRepo(s),
		petTypes:   mem.NewPetTypeRepo(s),
		facilities: mem.NewFacilityRepo(s),
		admissions: mem.NewAdmissionRepo(s),
		staff:      mem.NewStaffRepo(s),
		staffTypes: mem.NewStaffTypeRepo(s),
		medicines:  mem.NewMedicineRepo(s),
		treatments: clin,
		visits:     clin,
		rx:         clin,
		orders:     mem.NewPurchaseOrderRepo(s),
		donors:     mem.NewDonorRepo(s),
		donations:  mem.NewDonationRepo(s),
		bills:      mem.NewBillRepo(s),
	}
}

func postgresStores(db *sql.DB) stores {
	clin := pg.NewClinicalRepo(db)
	return stores{
		tx:         pg.NewTxRunner(db),
		numbers:    pg.NewNumberGenerator(db),
		accounts:   pg.NewAccountsRepo(db),
		rbac:       pg.NewRBACRepo(db),
		owners:     pg.NewOwnersRepo(db),
		pets:       pg.NewPetsRepo(db),
		petTypes:   pg.NewPetTypesRepo(db),
		facilities: pg.NewFacilitiesRepo(db),
		admissions: pg.NewAdmissionsRepo(db),
		staff:      pg.NewStaffRepo(db),
		staffTypes: pg.NewStaffTypesRepo(db),
		medicines:  pg.NewMedicinesRepo(db),
		treatments: clin,
		visits:     clin,
		rx:         clin,
		orders:     pg.NewPurchaseOrdersRepo(db),
		donors:     pg.NewDonorsRepo(db),
		donations:  pg.NewDonationsRepo(db),
		bills:      pg.NewBillsRepo(db),
	}
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("router: token manager is required")
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	st := memoryStores()
	if opts.DB != nil {
		st = postgresStores(opts.DB)
	}

	// Services por módulo
	rbacSvc := rbac.NewService(st.rbac, st.tx)
	if opts.DB == nil {
		// En memoria no hay migraciones ni seed previo: la matriz se carga al arrancar.
		matrix, err := rbac.LoadDefaults()
		if err != nil {
			return nil, err
		}
		if _, err := rbacSvc.SeedDefaults(context.Background(), matrix); err != nil {
			return nil, fmt.Errorf("seed role matrix: %w", err)
		}
	}

	accountsSvc := accounts.NewService(st.accounts, opts.Tokens, opts.Tokens,
		accounts.WithBootstrapper(rbacSvc),
		accounts.WithLogger(log.With(map[string]any{"module": "accounts"})),
	)
	ownersSvc := owners.NewService(st.owners, st.pets)
	petsSvc := pets.NewService(st.pets, st.petTypes, ownersSvc, st.numbers)
	facilitiesSvc := facilities.NewService(st.facilities, st.admissions)
	staffSvc := staff.NewService(st.staff, st.staffTypes, accountsSvc, rbacSvc, st.tx)
	admissionsSvc := admissions.NewService(st.admissions, admissions.Deps{
		Cages:   st.facilities,
		Pets:    petsSvc,
		Staff:   staffSvc,
		Tx:      st.tx,
		Numbers: st.numbers,
	})
	medicinesSvc := medicines.NewService(st.medicines)
	clinicalSvc := clinical.NewService(clinical.Deps{
		Treatments:    st.treatments,
		Visits:        st.visits,
		Prescriptions: st.rx,
		Admissions:    admissionsSvc,
		Staff:         staffSvc,
		Medicines:     medicinesSvc,
	})
	purchasingSvc := purchasing.NewService(st.orders, medicinesSvc, st.tx, st.numbers)

	receiptStore := opts.Receipts
	if receiptStore == nil {
		receiptStore = memstore.New()
	}
	donationsSvc := donations.NewService(st.donations, donations.Deps{
		Donors:   st.donors,
		Numbers:  st.numbers,
		Renderer: pdf.NewRenderer(opts.Hospital),
		Store:    receiptStore,
		Mailer:   opts.Mailer,
		Log:      log.With(map[string]any{"module": "donations"}),
	})
	billingSvc := billing.NewService(st.bills, billing.Deps{
		Owners:     ownersSvc,
		Admissions: admissionsSvc,
		Pets:       petsSvc,
		Tx:         st.tx,
		Numbers:    st.numbers,
	})
	intakeSvc := intake.NewService(intake.Deps{
		Owners:     ownersSvc,
		Pets:       petsSvc,
		Admissions: admissionsSvc,
		Donations:  donationsSvc,
		Tx:         st.tx,
		Log:        log.With(map[string]any{"module": "intake"}),
	})
	dashboardSvc := dashboard.NewService(dashboard.Deps{
		Pets:       petsSvc,
		Admissions: admissionsSvc,
		Cages:      facilitiesSvc,
		Medicines:  medicinesSvc,
		Donations:  donationsSvc,
		Purchasing: purchasingSvc,
	})

	var verifier auth.AuthVerifier
	if !opts.DevAuth {
		verifier = opts.Tokens
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc)
	rbac.RegisterRoutes(r, rbacSvc)

	owners.RegisterRoutes(r, ownersSvc, rbacSvc)
	pets.RegisterRoutes(r, petsSvc, rbacSvc)
	facilities.RegisterRoutes(r, facilitiesSvc, rbacSvc)
	admissions.RegisterRoutes(r, admissionsSvc, rbacSvc)
	intake.RegisterRoutes(r, intakeSvc, rbacSvc)
	staff.RegisterRoutes(r, staffSvc, rbacSvc)
	medicines.RegisterRoutes(r, medicinesSvc, rbacSvc)
	clinical.RegisterRoutes(r, clinicalSvc, rbacSvc)
	purchasing.RegisterRoutes(r, purchasingSvc, rbacSvc)
	donations.RegisterRoutes(r, donationsSvc, rbacSvc)
	billing.RegisterRoutes(r, billingSvc, rbacSvc)
	dashboard.RegisterRoutes(r, dashboardSvc, rbacSvc)

	return r, nil
}
