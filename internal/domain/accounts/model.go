package accounts

import "time"

const (
	MinPasswordLen = 8
	// bcrypt ignora lo que pase de 72 bytes.
	MaxPasswordLen = 72
)

// Account es la credencial de login. Los datos de la persona viven en staff.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   Account
}
