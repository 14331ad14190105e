package facilities

import "time"

// CageStatus: available/occupied las maneja el sistema; maintenance/reserved son manuales.
// @Enum available, occupied, maintenance, reserved
type CageStatus string

const (
	CageAvailable   CageStatus = "available"
	CageOccupied    CageStatus = "occupied"
	CageMaintenance CageStatus = "maintenance"
	CageReserved    CageStatus = "reserved"
)

func (s CageStatus) Valid() bool {
	switch s {
	case CageAvailable, CageOccupied, CageMaintenance, CageReserved:
		return true
	default:
		return false
	}
}

// Assignable: una jaula en mantenimiento o reservada no recibe pacientes.
func (s CageStatus) Assignable() bool {
	return s == CageAvailable || s == CageOccupied
}

type Building struct {
	ID          string
	Name        string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Room struct {
	ID          string
	BuildingID  string
	Name        string
	Floor       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Cage struct {
	ID          string
	RoomID      string
	CageNumber  string
	MaxPetCount int
	Status      CageStatus
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occupancy es derivada: admissions admitted/pending que apuntan a la jaula.
type Occupancy struct {
	Cage    Cage
	Current int
}

func (o Occupancy) Free() int {
	if n := o.Cage.MaxPetCount - o.Current; n > 0 {
		return n
	}
	return 0
}

func (o Occupancy) HasRoom() bool {
	return o.Cage.Status.Assignable() && o.Current < o.Cage.MaxPetCount
}

type CageFilter struct {
	RoomID     string
	BuildingID string
	Status     CageStatus
}
