package admissions

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vet-hospital/internal/domain/facilities"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/numbering"
	"vet-hospital/internal/ports/tx"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = apperr.ErrInvalidInput
	ErrNotFound        = apperr.ErrNotFound
	ErrCageFull        = apperr.Conflict("cage is full")
	ErrCageUnavailable = apperr.Conflict("cage is under maintenance or reserved")
	ErrClosed          = apperr.BadState("admission is closed")
	ErrPetRemoved      = pets.ErrRemoved
)

// CageStore la cumple facilities.Repository.
type CageStore interface {
	GetCageForUpdate(ctx context.Context, id string) (facilities.Cage, error)
	SetCageStatus(ctx context.Context, id string, status facilities.CageStatus) error
}

// PetStore la cumple pets.Service.
type PetStore interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	Remove(ctx context.Context, id, reason string, at *time.Time) (pets.Pet, error)
}

// StaffChecker la cumple staff.Service.
type StaffChecker interface {
	Exists(ctx context.Context, staffID string) error
}

type Service struct {
	repo    Repository
	cages   CageStore
	pets    PetStore
	staff   StaffChecker
	tx      tx.Runner
	numbers numbering.Generator
	now     func() time.Time
}

type Deps struct {
	Cages   CageStore
	Pets    PetStore
	Staff   StaffChecker
	Tx      tx.Runner
	Numbers numbering.Generator
}

func NewService(repo Repository, d Deps) *Service {
	runner := d.Tx
	if runner == nil {
		runner = tx.NoTx
	}
	return &Service{
		repo:    repo,
		cages:   d.Cages,
		pets:    d.Pets,
		staff:   d.Staff,
		tx:      runner,
		numbers: d.Numbers,
		now:     time.Now,
	}
}

type CreateInput struct {
	PetID              string
	AdmissionDate      *time.Time
	Status             string
	CageID             string
	DoctorID           string
	Reason             string
	Diagnosis          string
	Symptoms           string
	XrayDate           *time.Time
	OperationDate      *time.Time
	AntibioticSchedule json.RawMessage
	BloodTestNotes     string
	AmountReceived     float64
	Notes              string
}

// Create abre su propia transacción.
func (s *Service) Create(ctx context.Context, in CreateInput) (Admission, error) {
	var out Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.CreateInTx(ctx, in)
		out = a
		return err
	})
	if err != nil {
		return Admission{}, err
	}
	return out, nil
}

// CreateInTx asume que ya hay una transacción en ctx (la usa intake).
func (s *Service) CreateInTx(ctx context.Context, in CreateInput) (Admission, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Admission{}, apperr.Invalid("pet_id is required")
	}
	status := StatusAdmitted
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status = Status(strings.ToLower(raw))
		if !status.Active() {
			return Admission{}, apperr.Invalid("status must be pending or admitted")
		}
	}
	if err := validateMoney(in.AmountReceived); err != nil {
		return Admission{}, err
	}
	schedule, err := normalizeSchedule(in.AntibioticSchedule)
	if err != nil {
		return Admission{}, err
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Admission{}, err
	}
	if p.Removed {
		return Admission{}, ErrPetRemoved
	}
	doctorID := strings.TrimSpace(in.DoctorID)
	if doctorID != "" {
		if err := s.staff.Exists(ctx, doctorID); err != nil {
			return Admission{}, err
		}
	}

	now := s.now().UTC()
	admittedAt := now
	if in.AdmissionDate != nil {
		admittedAt = in.AdmissionDate.UTC()
	}
	number, err := s.numbers.Next(ctx, numbering.KindAdmission, admittedAt)
	if err != nil {
		return Admission{}, err
	}

	a := Admission{
		ID:                 uuid.NewString(),
		Number:             number,
		PetID:              p.ID,
		AdmissionDate:      admittedAt,
		Status:             status,
		DoctorID:           doctorID,
		Reason:             strings.TrimSpace(in.Reason),
		Diagnosis:          strings.TrimSpace(in.Diagnosis),
		Symptoms:           strings.TrimSpace(in.Symptoms),
		XrayDate:           in.XrayDate,
		OperationDate:      in.OperationDate,
		AntibioticSchedule: schedule,
		BloodTestNotes:     strings.TrimSpace(in.BloodTestNotes),
		AmountReceived:     in.AmountReceived,
		Notes:              strings.TrimSpace(in.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Admission{}, err
	}

	if cageID := strings.TrimSpace(in.CageID); cageID != "" {
		if a, err = s.assignCageTx(ctx, a, cageID); err != nil {
			return Admission{}, err
		}
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Admission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Admission{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Admission, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("unknown status filter")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}

func (s *Service) Allotments(ctx context.Context, id string) ([]CageAllotment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAllotments(ctx, a.ID)
}

// AssignCage mueve la internación a cageID con control de capacidad.
// cageID vacío libera la jaula actual.
func (s *Service) AssignCage(ctx context.Context, id, cageID string) (Admission, error) {
	var out Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.Status.Active() {
			return ErrClosed
		}

		cageID = strings.TrimSpace(cageID)
		if cageID == "" {
			a, err = s.releaseCageTx(ctx, a)
			if err != nil {
				return err
			}
			a.CageID = ""
			a.UpdatedAt = s.now().UTC()
			out = a
			return s.repo.Update(ctx, a)
		}

		out, err = s.assignCageTx(ctx, a, cageID)
		return err
	})
	if err != nil {
		return Admission{}, err
	}
	return out, nil
}

// assignCageTx corre dentro de la transacción: bloquea la fila de la jaula,
// cuenta ocupantes y recién entonces asigna.
func (s *Service) assignCageTx(ctx context.Context, a Admission, cageID string) (Admission, error) {
	if a.CageID == cageID {
		return a, nil
	}

	cage, err := s.cages.GetCageForUpdate(ctx, cageID)
	if err != nil {
		return Admission{}, err
	}
	if !cage.Status.Assignable() {
		return Admission{}, ErrCageUnavailable
	}
	current, err := s.repo.CountActiveInCage(ctx, cage.ID, a.ID)
	if err != nil {
		return Admission{}, err
	}
	if current >= cage.MaxPetCount {
		return Admission{}, ErrCageFull
	}

	if a.CageID != "" {
		if a, err = s.releaseCageTx(ctx, a); err != nil {
			return Admission{}, err
		}
	}

	now := s.now().UTC()
	a.CageID = cage.ID
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Admission{}, err
	}
	if err := s.repo.OpenAllotment(ctx, CageAllotment{
		ID:          uuid.NewString(),
		AdmissionID: a.ID,
		CageID:      cage.ID,
		PetID:       a.PetID,
		Status:      AllotmentActive,
		AllottedAt:  now,
	}); err != nil {
		return Admission{}, err
	}
	if cage.Status != facilities.CageOccupied {
		if err := s.cages.SetCageStatus(ctx, cage.ID, facilities.CageOccupied); err != nil {
			return Admission{}, err
		}
	}
	return a, nil
}

// releaseCageTx cierra allotments y deja la jaula disponible si quedó vacía.
// No modifica a.CageID: la internación conserva la referencia histórica.
func (s *Service) releaseCageTx(ctx context.Context, a Admission) (Admission, error) {
	if a.CageID == "" {
		return a, nil
	}
	if err := s.repo.ReleaseAllotments(ctx, a.ID, s.now().UTC()); err != nil {
		return Admission{}, err
	}

	cage, err := s.cages.GetCageForUpdate(ctx, a.CageID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return a, nil
		}
		return Admission{}, err
	}
	remaining, err := s.repo.CountActiveInCage(ctx, cage.ID, a.ID)
	if err != nil {
		return Admission{}, err
	}
	if remaining == 0 && cage.Status == facilities.CageOccupied {
		if err := s.cages.SetCageStatus(ctx, cage.ID, facilities.CageAvailable); err != nil {
			return Admission{}, err
		}
	}
	return a, nil
}

func (s *Service) AssignDoctor(ctx context.Context, id, staffID string) (Admission, error) {
	staffID = strings.TrimSpace(staffID)
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Admission{}, err
	}
	if !a.Status.Active() {
		return Admission{}, ErrClosed
	}
	if staffID != "" {
		if err := s.staff.Exists(ctx, staffID); err != nil {
			return Admission{}, err
		}
	}
	a.DoctorID = staffID
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Admission{}, err
	}
	return a, nil
}

// Admit pasa pending -> admitted.
func (s *Service) Admit(ctx context.Context, id string) (Admission, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Admission{}, err
	}
	switch a.Status {
	case StatusAdmitted:
		return a, nil
	case StatusPending:
	default:
		return Admission{}, ErrClosed
	}
	a.Status = StatusAdmitted
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Admission{}, err
	}
	return a, nil
}

type DischargeInput struct {
	Status Status // discharged | deceased
	Date   *time.Time
	Notes  string
}

// Discharge cierra la internación, libera la jaula y, si falleció, da de baja a la mascota.
func (s *Service) Discharge(ctx context.Context, id string, in DischargeInput) (Admission, error) {
	if in.Status == "" {
		in.Status = StatusDischarged
	}
	if in.Status != StatusDischarged && in.Status != StatusDeceased {
		return Admission{}, apperr.Invalid("status must be discharged or deceased")
	}

	var out Admission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.Status.Active() {
			return ErrClosed
		}

		when := s.now().UTC()
		if in.Date != nil {
			when = in.Date.UTC()
		}
		if when.Before(a.AdmissionDate.Truncate(24 * time.Hour)) {
			return apperr.Invalid("discharge_date is before admission_date")
		}

		// Primero se cierra el estado para que el conteo de la jaula ya no lo incluya.
		a.Status = in.Status
		a.DischargeDate = &when
		if n := strings.TrimSpace(in.Notes); n != "" {
			a.Notes = strings.TrimSpace(a.Notes + "\n" + n)
		}
		a.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		if _, err := s.releaseCageTx(ctx, a); err != nil {
			return err
		}

		if in.Status == StatusDeceased {
			if _, err := s.pets.Remove(ctx, a.PetID, pets.RemovalDeceased, &when); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return Admission{}, err
	}
	return out, nil
}

type UpdateInput struct {
	AdmissionDate      *time.Time
	Reason             *string
	Diagnosis          *string
	Symptoms           *string
	XrayDate           *time.Time
	OperationDate      *time.Time
	AntibioticSchedule json.RawMessage
	BloodTestNotes     *string
	AmountReceived     *float64
	Notes              *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Admission, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Admission{}, err
	}
	if !a.Status.Active() {
		return Admission{}, ErrClosed
	}

	if in.AdmissionDate != nil {
		a.AdmissionDate = in.AdmissionDate.UTC()
	}
	if in.Reason != nil {
		a.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.Diagnosis != nil {
		a.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Symptoms != nil {
		a.Symptoms = strings.TrimSpace(*in.Symptoms)
	}
	if in.XrayDate != nil {
		a.XrayDate = in.XrayDate
	}
	if in.OperationDate != nil {
		a.OperationDate = in.OperationDate
	}
	if in.AntibioticSchedule != nil {
		schedule, err := normalizeSchedule(in.AntibioticSchedule)
		if err != nil {
			return Admission{}, err
		}
		a.AntibioticSchedule = schedule
	}
	if in.BloodTestNotes != nil {
		a.BloodTestNotes = strings.TrimSpace(*in.BloodTestNotes)
	}
	if in.AmountReceived != nil {
		if err := validateMoney(*in.AmountReceived); err != nil {
			return Admission{}, err
		}
		a.AmountReceived = *in.AmountReceived
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}
	a.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return Admission{}, err
	}
	return a, nil
}

// Delete libera la jaula antes de borrar.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Status.Active() && a.CageID != "" {
			if _, err := s.releaseCageTx(ctx, a); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, a.ID)
	})
}

func normalizeSchedule(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, apperr.Invalid("antibiotic_schedule must be valid JSON")
	}
	return raw, nil
}

func validateMoney(v float64) error {
	if v < 0 {
		return apperr.Invalid("amount must be >= 0")
	}
	return nil
}
