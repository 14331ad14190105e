package staff

import "time"

type StaffType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Member es una persona del personal. UserID queda vacío hasta que se le crea cuenta.
type Member struct {
	ID             string
	UserID         string
	Name           string
	Email          string
	Phone          string
	StaffTypeID    string
	Specialization string
	LicenseNumber  string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ListFilter struct {
	StaffTypeID string
	ActiveOnly  bool
	// UserIDs restringe a miembros con esas cuentas (nil = sin filtro).
	UserIDs []string
}

const (
	MaxAccountNameLen = 100
)

// AccountResult es el sobre que devuelven el endpoint y la función serverless.
type AccountResult struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
