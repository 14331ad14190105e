package clinical

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = apperr.ErrInvalidInput
	ErrNotFound        = apperr.ErrNotFound
	ErrAdmissionClosed = apperr.BadState("admission is closed")
)

type AdmissionReader interface {
	GetByID(ctx context.Context, id string) (admissions.Admission, error)
	List(ctx context.Context, f admissions.ListFilter) ([]admissions.Admission, error)
}

type StaffFinder interface {
	ForUser(ctx context.Context, userID string) (staff.Member, error)
	Exists(ctx context.Context, id string) error
}

type MedicineChecker interface {
	Exists(ctx context.Context, id string) error
}

type Deps struct {
	Treatments    TreatmentRepository
	Visits        VisitRepository
	Prescriptions PrescriptionRepository
	Admissions    AdmissionReader
	Staff         StaffFinder
	Medicines     MedicineChecker
}

type Service struct {
	treatments    TreatmentRepository
	visits        VisitRepository
	prescriptions PrescriptionRepository
	admissions    AdmissionReader
	staff         StaffFinder
	medicines     MedicineChecker
	now           func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		treatments:    d.Treatments,
		visits:        d.Visits,
		prescriptions: d.Prescriptions,
		admissions:    d.Admissions,
		staff:         d.Staff,
		medicines:     d.Medicines,
		now:           time.Now,
	}
}

// ----- Dashboard del doctor -----

// Dashboard devuelve las internaciones activas asignadas al staff del usuario.
// Un usuario sin ficha de staff ve un tablero vacío.
func (s *Service) Dashboard(ctx context.Context, userID string) (DoctorDashboard, error) {
	member, err := s.staff.ForUser(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return DoctorDashboard{Admissions: []AdmissionRef{}}, nil
		}
		return DoctorDashboard{}, err
	}

	items, err := s.admissions.List(ctx, admissions.ListFilter{DoctorID: member.ID, ActiveOnly: true})
	if err != nil {
		return DoctorDashboard{}, err
	}
	out := DoctorDashboard{StaffID: member.ID, Admissions: make([]AdmissionRef, 0, len(items))}
	for _, a := range items {
		out.Admissions = append(out.Admissions, AdmissionRef{
			ID:     a.ID,
			Number: a.Number,
			PetID:  a.PetID,
			CageID: a.CageID,
			Status: string(a.Status),
			Since:  a.AdmissionDate,
			Reason: a.Reason,
		})
	}
	return out, nil
}

// ----- Visitas -----

type VisitInput struct {
	AdmissionID string
	Date        *time.Time
	Shift       Shift
	Vitals      json.RawMessage
	Notes       string
	DoctorID    string
}

// RecordVisit registra el turno (AM/PM) de la visita del día.
// Si ya hay visita para esa fecha, el turno se mezcla en sus vitals.
func (s *Service) RecordVisit(ctx context.Context, userID string, in VisitInput) (Visit, error) {
	in.Shift = Shift(strings.ToUpper(strings.TrimSpace(string(in.Shift))))
	if in.Shift.Key() == "" {
		return Visit{}, apperr.Invalid("shift must be AM or PM")
	}
	entry, err := normalizeVitals(in.Vitals)
	if err != nil {
		return Visit{}, err
	}

	a, err := s.admissions.GetByID(ctx, strings.TrimSpace(in.AdmissionID))
	if err != nil {
		return Visit{}, err
	}
	if !a.Status.Active() {
		return Visit{}, ErrAdmissionClosed
	}

	doctorID, err := s.resolveDoctor(ctx, userID, in.DoctorID, a.DoctorID)
	if err != nil {
		return Visit{}, err
	}

	now := s.now().UTC()
	day := now
	if in.Date != nil {
		day = *in.Date
	}
	return s.visits.MergeVisit(ctx, Visit{
		ID:          uuid.NewString(),
		AdmissionID: a.ID,
		PetID:       a.PetID,
		DoctorID:    doctorID,
		VisitDate:   truncateDay(day),
		Vitals:      map[string]json.RawMessage{in.Shift.Key(): entry},
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// resolveDoctor: el doctor explícito, si no el staff del usuario, si no el de la internación.
func (s *Service) resolveDoctor(ctx context.Context, userID, explicit, fallback string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		if err := s.staff.Exists(ctx, id); err != nil {
			if apperr.IsNotFound(err) {
				return "", apperr.Invalid("doctor not found")
			}
			return "", err
		}
		return id, nil
	}
	if strings.TrimSpace(userID) != "" {
		m, err := s.staff.ForUser(ctx, userID)
		if err == nil {
			return m.ID, nil
		}
		if !apperr.IsNotFound(err) {
			return "", err
		}
	}
	return fallback, nil
}

func (s *Service) History(ctx context.Context, f HistoryFilter) ([]Visit, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, apperr.Invalid("to must be after from")
	}
	if f.From != nil {
		d := truncateDay(*f.From)
		f.From = &d
	}
	if f.To != nil {
		d := truncateDay(*f.To)
		f.To = &d
	}
	return s.visits.ListVisits(ctx, f)
}

func normalizeVitals(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, apperr.Invalid("vitals must be a JSON object")
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ----- Prescripciones -----

type PrescriptionInput struct {
	AdmissionID  string
	MedicineID   string
	Dosage       string
	Frequency    string
	DurationDays int
	Quantity     int
	Notes        string
}

func (s *Service) Prescribe(ctx context.Context, userID string, in PrescriptionInput) (Prescription, error) {
	in.Dosage = strings.TrimSpace(in.Dosage)
	in.MedicineID = strings.TrimSpace(in.MedicineID)
	if in.MedicineID == "" || in.Dosage == "" {
		return Prescription{}, apperr.Invalid("medicine_id and dosage are required")
	}
	if in.DurationDays < 0 || in.Quantity < 0 {
		return Prescription{}, apperr.Invalid("duration_days and quantity must be >= 0")
	}

	a, err := s.admissions.GetByID(ctx, strings.TrimSpace(in.AdmissionID))
	if err != nil {
		return Prescription{}, err
	}
	if err := s.medicines.Exists(ctx, in.MedicineID); err != nil {
		if apperr.IsNotFound(err) {
			return Prescription{}, apperr.Invalid("medicine not found")
		}
		return Prescription{}, err
	}
	doctorID, err := s.resolveDoctor(ctx, userID, "", "")
	if err != nil {
		return Prescription{}, err
	}

	p := Prescription{
		ID:           uuid.NewString(),
		AdmissionID:  a.ID,
		MedicineID:   in.MedicineID,
		Dosage:       in.Dosage,
		Frequency:    strings.TrimSpace(in.Frequency),
		DurationDays: in.DurationDays,
		Quantity:     in.Quantity,
		PrescribedBy: doctorID,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.prescriptions.CreatePrescription(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) Prescriptions(ctx context.Context, admissionID string) ([]Prescription, error) {
	a, err := s.admissions.GetByID(ctx, strings.TrimSpace(admissionID))
	if err != nil {
		return nil, err
	}
	return s.prescriptions.ListPrescriptions(ctx, a.ID)
}

func (s *Service) DeletePrescription(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if _, err := s.prescriptions.GetPrescription(ctx, id); err != nil {
		return err
	}
	return s.prescriptions.DeletePrescription(ctx, id)
}
