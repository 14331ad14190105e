package clinical

import (
	"encoding/json"
	"time"
)

type Treatment struct {
	ID            string
	Name          string
	Description   string
	DefaultDosage string
	Cost          float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Shift
// @Enum AM, PM
type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

// Key es la clave del turno dentro del JSON de vitals.
func (s Shift) Key() string {
	switch s {
	case ShiftAM:
		return "am"
	case ShiftPM:
		return "pm"
	default:
		return ""
	}
}

// Visit es la ronda diaria de un doctor sobre una internación.
// Hay a lo sumo una por (admission, fecha); los turnos viven dentro de Vitals.
type Visit struct {
	ID          string
	AdmissionID string
	PetID       string
	DoctorID    string
	VisitDate   time.Time
	Vitals      map[string]json.RawMessage
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type HistoryFilter struct {
	AdmissionID string
	PetID       string
	DoctorID    string
	From        *time.Time
	To          *time.Time
}

type Prescription struct {
	ID           string
	AdmissionID  string
	MedicineID   string
	Dosage       string
	Frequency    string
	DurationDays int
	Quantity     int
	PrescribedBy string // staff.id, vacío si el que receta no tiene ficha de staff
	Notes        string
	CreatedAt    time.Time
}

// DoctorDashboard agrupa lo que ve un doctor al entrar.
type DoctorDashboard struct {
	StaffID    string
	Admissions []AdmissionRef
}

type AdmissionRef struct {
	ID     string
	Number string
	PetID  string
	CageID string
	Status string
	Since  time.Time
	Reason string
}
