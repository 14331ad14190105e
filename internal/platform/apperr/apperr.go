// Package apperr define los errores base que comparten dominios, adapters y handlers.
// Los dominios envuelven estos sentinels con fmt.Errorf("%w: ...") para dar contexto.
package apperr

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrBadState     = errors.New("invalid state")
)

// Invalid arma un ErrInvalidInput con detalle legible para el cliente.
func Invalid(detail string) error {
	return &detailed{base: ErrInvalidInput, detail: detail}
}

// Conflict arma un ErrConflict con detalle.
func Conflict(detail string) error {
	return &detailed{base: ErrConflict, detail: detail}
}

// BadState arma un ErrBadState con detalle.
func BadState(detail string) error {
	return &detailed{base: ErrBadState, detail: detail}
}

type detailed struct {
	base   error
	detail string
}

func (e *detailed) Error() string {
	if e.detail == "" {
		return e.base.Error()
	}
	return e.base.Error() + ": " + e.detail
}

func (e *detailed) Unwrap() error { return e.base }

// IsNotFound es un atajo para errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInternal indica que err no deriva de ningún sentinel conocido.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	for _, base := range []error{ErrInvalidInput, ErrNotFound, ErrForbidden, ErrUnauthorized, ErrConflict, ErrBadState} {
		if errors.Is(err, base) {
			return false
		}
	}
	return true
}
