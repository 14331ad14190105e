package owners

import "time"

// UnknownOwnerPhone identifica el registro compartido para animales sin dueño conocido.
const (
	UnknownOwnerPhone = "0000000000"
	UnknownOwnerName  = "Unknown Owner"
)

type Owner struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Active    bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListFilter struct {
	Query  string
	Active *bool
}
