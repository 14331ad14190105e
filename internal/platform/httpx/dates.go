package httpx

import (
	"strings"
	"time"

	"vet-hospital/internal/platform/apperr"
)

const DateLayout = "2006-01-02"

// ParseDate acepta YYYY-MM-DD o RFC3339. Vacío => nil.
func ParseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Invalid(field + " must be YYYY-MM-DD or RFC3339")
	}
	t = t.UTC()
	return &t, nil
}

// ParseDatePtr es la variante para PATCH: nil = no enviado.
func ParseDatePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return ParseDate(field, *raw)
}
