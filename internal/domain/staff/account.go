package staff

import (
	"context"
	"strings"
	"unicode/utf8"

	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/apperr"

	"github.com/google/uuid"
)

type AccountInput struct {
	StaffID  string
	Email    string
	Password string
	Name     string
	// Role opcional que se asigna a la cuenta nueva.
	Role rbac.Role
}

// Validate replica las reglas del alta de cuentas de staff.
func (in AccountInput) Validate() error {
	if _, err := uuid.Parse(strings.TrimSpace(in.StaffID)); err != nil {
		return apperr.Invalid("staff_id must be a UUID")
	}
	if _, err := accounts.NormalizeEmail(in.Email); err != nil {
		return err
	}
	if err := accounts.ValidatePassword(in.Password); err != nil {
		return err
	}
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxAccountNameLen {
		return apperr.Invalid("name must be 1 to 100 characters")
	}
	if in.Role != "" && !in.Role.Valid() {
		return apperr.Invalid("unknown role")
	}
	return nil
}

// CreateAccount crea la cuenta de login de un miembro del staff y la vincula.
// Solo admin/superadmin. Todo corre en una transacción.
func (s *Service) CreateAccount(ctx context.Context, caller rbac.PermissionSet, in AccountInput) (string, error) {
	if !caller.IsAdmin() {
		return "", ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return "", err
	}

	var userID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.GetByID(ctx, in.StaffID)
		if err != nil {
			return err
		}
		if m.UserID != "" {
			return ErrAlreadyLinked
		}

		acc, err := s.accounts.SignUp(ctx, accounts.SignUpInput{Email: in.Email, Password: in.Password})
		if err != nil {
			return err
		}

		m.UserID = acc.ID
		m.Name = strings.TrimSpace(in.Name)
		if m.Email == "" {
			m.Email = acc.Email
		}
		m.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}

		if in.Role != "" {
			if err := s.roles.AssignRole(ctx, caller, acc.ID, in.Role); err != nil {
				return err
			}
		}
		userID = acc.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Envelope arma el sobre {success, user_id} / {success:false, error}.
func Envelope(userID string, err error) AccountResult {
	if err != nil {
		msg := err.Error()
		if apperr.IsInternal(err) {
			msg = "internal error"
		}
		return AccountResult{Success: false, Error: msg}
	}
	return AccountResult{Success: true, UserID: userID}
}
