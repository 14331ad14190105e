package accounts

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = apperr.ErrInvalidInput
	ErrNotFound           = apperr.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Bootstrapper lo implementa rbac.Service.
type Bootstrapper interface {
	EnsureFirstSuperadmin(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	repo      Repository
	issuer    auth.TokenIssuer
	revoker   auth.TokenRevoker
	bootstrap Bootstrapper
	log       logger.Logger
	now       func() time.Time
	cost      int
}

type Option func(*Service)

func WithBootstrapper(b Bootstrapper) Option { return func(s *Service) { s.bootstrap = b } }
func WithLogger(l logger.Logger) Option      { return func(s *Service) { s.log = l } }

// WithBcryptCost baja el costo en tests.
func WithBcryptCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func NewService(repo Repository, issuer auth.TokenIssuer, revoker auth.TokenRevoker, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		issuer:  issuer,
		revoker: revoker,
		log:     logger.Nop(),
		now:     time.Now,
		cost:    bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type SignUpInput struct {
	Email    string
	Password string
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Account, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return Account{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Account{}, err
	}

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// SignIn valida credenciales y emite token. Después intenta el bootstrap del
// primer superadmin; si falla solo se loguea.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if s.issuer == nil {
		return Session{}, errors.New("token issuer not configured")
	}

	token, exp, err := s.issuer.Issue(ctx, a.ID, a.Email)
	if err != nil {
		return Session{}, err
	}

	if s.bootstrap != nil {
		if assigned, err := s.bootstrap.EnsureFirstSuperadmin(ctx, a.ID); err != nil {
			s.log.Warn("bootstrap superadmin failed", map[string]any{"user_id": a.ID, "err": err})
		} else if assigned {
			s.log.Info("first superadmin assigned", map[string]any{"user_id": a.ID})
		}
	}

	return Session{Token: token, ExpiresAt: exp, Account: a}, nil
}

func (s *Service) SignOut(ctx context.Context, claims auth.Claims) error {
	if s.revoker == nil || claims.SessionID == "" {
		return nil
	}
	until := claims.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(24 * time.Hour)
	}
	return s.revoker.Revoke(ctx, claims.SessionID, until)
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Invalid("email is not valid")
	}
	return email, nil
}

func ValidatePassword(p string) error {
	if len(p) < MinPasswordLen || len(p) > MaxPasswordLen {
		return apperr.Invalid("password must be 8 to 72 characters")
	}
	return nil
}
