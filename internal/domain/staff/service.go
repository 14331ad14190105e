package staff

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/tx"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = apperr.ErrInvalidInput
	ErrNotFound      = apperr.ErrNotFound
	ErrForbidden     = apperr.ErrForbidden
	ErrAlreadyLinked = apperr.Conflict("staff member already has an account")
)

// AccountCreator la cumple accounts.Service.
type AccountCreator interface {
	SignUp(ctx context.Context, in accounts.SignUpInput) (accounts.Account, error)
}

// RoleDirectory la cumple rbac.Service.
type RoleDirectory interface {
	UsersWithRole(ctx context.Context, role rbac.Role) ([]string, error)
	AssignRole(ctx context.Context, caller rbac.PermissionSet, userID string, role rbac.Role) error
}

type Service struct {
	repo     Repository
	types    TypeRepository
	accounts AccountCreator
	roles    RoleDirectory
	tx       tx.Runner
	now      func() time.Time
}

func NewService(repo Repository, types TypeRepository, accountsSvc AccountCreator, roles RoleDirectory, runner tx.Runner) *Service {
	if runner == nil {
		runner = tx.NoTx
	}
	return &Service{
		repo:     repo,
		types:    types,
		accounts: accountsSvc,
		roles:    roles,
		tx:       runner,
		now:      time.Now,
	}
}

type CreateInput struct {
	UserID         string
	Name           string
	Email          string
	Phone          string
	StaffTypeID    string
	Specialization string
	LicenseNumber  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Member{}, apperr.Invalid("name is required")
	}
	typeID := strings.TrimSpace(in.StaffTypeID)
	if typeID != "" {
		if _, err := s.types.GetType(ctx, typeID); err != nil {
			return Member{}, err
		}
	}

	now := s.now().UTC()
	m := Member{
		ID:             uuid.NewString(),
		UserID:         strings.TrimSpace(in.UserID),
		Name:           name,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		StaffTypeID:    typeID,
		Specialization: strings.TrimSpace(in.Specialization),
		LicenseNumber:  strings.TrimSpace(in.LicenseNumber),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Member, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Member{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lo usan admissions y clinical para validar doctor_id.
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.GetByID(ctx, id)
	return err
}

// ForUser devuelve el registro de staff vinculado a una cuenta.
func (s *Service) ForUser(ctx context.Context, userID string) (Member, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Member{}, ErrInvalidInput
	}
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Member, error) {
	return s.repo.List(ctx, f)
}

// Doctors lista el staff cuya cuenta tiene el rol doctor.
func (s *Service) Doctors(ctx context.Context) ([]Member, error) {
	ids, err := s.roles.UsersWithRole(ctx, rbac.RoleDoctor)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Member{}, nil
	}
	return s.repo.List(ctx, ListFilter{UserIDs: ids, ActiveOnly: true})
}

type UpdateInput struct {
	Name           *string
	Email          *string
	Phone          *string
	StaffTypeID    *string
	Specialization *string
	LicenseNumber  *string
	Active         *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Member, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Member{}, err
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return Member{}, apperr.Invalid("name cannot be empty")
		}
		m.Name = n
	}
	if in.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		m.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.StaffTypeID != nil {
		typeID := strings.TrimSpace(*in.StaffTypeID)
		if typeID != "" {
			if _, err := s.types.GetType(ctx, typeID); err != nil {
				return Member{}, err
			}
		}
		m.StaffTypeID = typeID
	}
	if in.Specialization != nil {
		m.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.LicenseNumber != nil {
		m.LicenseNumber = strings.TrimSpace(*in.LicenseNumber)
	}
	if in.Active != nil {
		m.Active = *in.Active
	}
	m.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, m.ID)
}
