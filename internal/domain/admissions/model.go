package admissions

import (
	"encoding/json"
	"time"
)

// Status
// @Enum pending, admitted, discharged, deceased
type Status string

const (
	StatusPending    Status = "pending"
	StatusAdmitted   Status = "admitted"
	StatusDischarged Status = "discharged"
	StatusDeceased   Status = "deceased"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAdmitted, StatusDischarged, StatusDeceased:
		return true
	default:
		return false
	}
}

// Active: estos estados ocupan lugar en la jaula.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAdmitted
}

// ActiveStatuses se usa en los conteos de ocupación.
var ActiveStatuses = []Status{StatusPending, StatusAdmitted}

type Admission struct {
	ID     string
	Number string // ADM-YYYY-NNNNNN
	PetID  string

	AdmissionDate time.Time
	DischargeDate *time.Time
	Status        Status

	CageID   string
	DoctorID string // staff.id

	Reason    string
	Diagnosis string
	Symptoms  string

	XrayDate           *time.Time
	OperationDate      *time.Time
	AntibioticSchedule json.RawMessage
	BloodTestNotes     string

	AmountReceived float64
	Notes          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllotmentStatus
// @Enum active, released
type AllotmentStatus string

const (
	AllotmentActive   AllotmentStatus = "active"
	AllotmentReleased AllotmentStatus = "released"
)

// CageAllotment es el historial de jaulas de una internación.
type CageAllotment struct {
	ID          string
	AdmissionID string
	CageID      string
	PetID       string
	Status      AllotmentStatus
	AllottedAt  time.Time
	ReleasedAt  *time.Time
}

type ListFilter struct {
	Status     Status
	ActiveOnly bool
	PetID      string
	CageID     string
	DoctorID   string
}
