// Package memory implementa todos los repositorios en memoria (dev y tests).
//
// Un único Store guarda todas las tablas bajo un mutex. Las transacciones se
// serializan con txMu y, ante error, se restaura la foto tomada al empezar.
// Las lecturas fuera de una transacción esperan a que termine la que esté en
// curso: nunca ven datos sin confirmar.
// Los valores guardados nunca se modifican en el lugar: siempre se reemplazan,
// por eso alcanza con copiar los mapas para la foto.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/billing"
	"vet-hospital/internal/domain/clinical"
	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/domain/medicines"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/domain/purchasing"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/domain/staff"
)

type userRole struct {
	userID string
	role   rbac.Role
}

type tables struct {
	accounts map[string]accounts.Account
	roles    map[userRole]time.Time
	grants   map[rbac.Role][]rbac.Grant

	owners   map[string]owners.Owner
	pets     map[string]pets.Pet
	petTypes map[string]pets.PetType

	buildings map[string]facilities.Building
	rooms     map[string]facilities.Room
	cages     map[string]facilities.Cage

	admissions map[string]admissions.Admission
	allotments map[string]admissions.CageAllotment

	staff      map[string]staff.Member
	staffTypes map[string]staff.StaffType

	medicines     map[string]medicines.Medicine
	treatments    map[string]clinical.Treatment
	visits        map[string]clinical.Visit
	prescriptions map[string]clinical.Prescription

	orders    map[string]purchasing.Order
	donors    map[string]donations.Donor
	donations map[string]donations.Donation
	bills     map[string]billing.Bill
	payments  map[string]billing.Payment

	sequences map[string]int64
}

func newTables() tables {
	return tables{
		accounts:      map[string]accounts.Account{},
		roles:         map[userRole]time.Time{},
		grants:        map[rbac.Role][]rbac.Grant{},
		owners:        map[string]owners.Owner{},
		pets:          map[string]pets.Pet{},
		petTypes:      map[string]pets.PetType{},
		buildings:     map[string]facilities.Building{},
		rooms:         map[string]facilities.Room{},
		cages:         map[string]facilities.Cage{},
		admissions:    map[string]admissions.Admission{},
		allotments:    map[string]admissions.CageAllotment{},
		staff:         map[string]staff.Member{},
		staffTypes:    map[string]staff.StaffType{},
		medicines:     map[string]medicines.Medicine{},
		treatments:    map[string]clinical.Treatment{},
		visits:        map[string]clinical.Visit{},
		prescriptions: map[string]clinical.Prescription{},
		orders:        map[string]purchasing.Order{},
		donors:        map[string]donations.Donor{},
		donations:     map[string]donations.Donation{},
		bills:         map[string]billing.Bill{},
		payments:      map[string]billing.Payment{},
		sequences:     map[string]int64{},
	}
}

func (t tables) clone() tables {
	return tables{
		accounts:      maps.Clone(t.accounts),
		roles:         maps.Clone(t.roles),
		grants:        maps.Clone(t.grants),
		owners:        maps.Clone(t.owners),
		pets:          maps.Clone(t.pets),
		petTypes:      maps.Clone(t.petTypes),
		buildings:     maps.Clone(t.buildings),
		rooms:         maps.Clone(t.rooms),
		cages:         maps.Clone(t.cages),
		admissions:    maps.Clone(t.admissions),
		allotments:    maps.Clone(t.allotments),
		staff:         maps.Clone(t.staff),
		staffTypes:    maps.Clone(t.staffTypes),
		medicines:     maps.Clone(t.medicines),
		treatments:    maps.Clone(t.treatments),
		visits:        maps.Clone(t.visits),
		prescriptions: maps.Clone(t.prescriptions),
		orders:        maps.Clone(t.orders),
		donors:        maps.Clone(t.donors),
		donations:     maps.Clone(t.donations),
		bills:         maps.Clone(t.bills),
		payments:      maps.Clone(t.payments),
		sequences:     maps.Clone(t.sequences),
	}
}

type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	t    tables
}

func NewStore() *Store {
	return &Store{t: newTables()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithinTx implementa tx.Runner. Las llamadas anidadas corren dentro de la transacción externa.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := s.t.clone()
	s.mu.RUnlock()

	restore := func() {
		s.mu.Lock()
		s.t = snap
		s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		restore()
	}
	return err
}

// write toma el lock de escritura. Fuera de una transacción también toma txMu
// para que un rollback concurrente no pise la escritura.
func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// read toma el lock de lectura. Fuera de una transacción también toma txMu en
// modo lectura.
func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.txMu.RLock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.RUnlock()
	}
}
