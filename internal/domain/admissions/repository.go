package admissions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Admission) error
	Update(ctx context.Context, a Admission) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Admission, error)
	List(ctx context.Context, f ListFilter) ([]Admission, error)

	// CountActiveInCage cuenta admissions pending/admitted en la jaula, sin contar excludeID.
	CountActiveInCage(ctx context.Context, cageID, excludeID string) (int, error)
	// CountActiveByCage agrupa en una sola consulta; cageIDs vacío => todas.
	CountActiveByCage(ctx context.Context, cageIDs []string) (map[string]int, error)
	CountActive(ctx context.Context) (int, error)

	OpenAllotment(ctx context.Context, a CageAllotment) error
	// ReleaseAllotments cierra las asignaciones activas de la internación.
	ReleaseAllotments(ctx context.Context, admissionID string, at time.Time) error
	ListAllotments(ctx context.Context, admissionID string) ([]CageAllotment, error)
}
