package pets

import "time"

// Gender define el sexo de la mascota.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	default:
		return false
	}
}

// Motivos de baja con significado para el dashboard.
const (
	RemovalCured    = "Cured"
	RemovalDeceased = "Deceased"
)

// Pet representa un animal registrado. La baja es lógica (Removed).
type Pet struct {
	ID        string
	OwnerID   string
	PetTypeID string

	Name    string
	Species string
	Breed   string
	Gender  Gender
	Age     string
	Weight  *float64 // kg
	Color   string
	TagID   string

	Removed       bool
	RemovalReason string
	RemovedAt     *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active cuenta para el tablero: no dado de baja, o dado de alta por curación.
func (p Pet) Active() bool {
	return !p.Removed || p.RemovalReason == RemovalCured
}

type ListFilter struct {
	OwnerID        string
	PetTypeID      string
	Query          string
	IncludeRemoved bool
}

// PetType es el catálogo de tipos (perro, gato, ave...).
type PetType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
