package clinical

import "context"

type TreatmentRepository interface {
	CreateTreatment(ctx context.Context, t Treatment) error
	UpdateTreatment(ctx context.Context, t Treatment) error
	DeleteTreatment(ctx context.Context, id string) error
	GetTreatment(ctx context.Context, id string) (Treatment, error)
	ListTreatments(ctx context.Context, query string) ([]Treatment, error)
}

type VisitRepository interface {
	// MergeVisit inserta la visita de (admission, fecha) o, si ya existe, mezcla
	// las claves de v.Vitals sobre las guardadas. Devuelve la fila resultante.
	MergeVisit(ctx context.Context, v Visit) (Visit, error)
	ListVisits(ctx context.Context, f HistoryFilter) ([]Visit, error)
}

type PrescriptionRepository interface {
	CreatePrescription(ctx context.Context, p Prescription) error
	DeletePrescription(ctx context.Context, id string) error
	GetPrescription(ctx context.Context, id string) (Prescription, error)
	ListPrescriptions(ctx context.Context, admissionID string) ([]Prescription, error)
}
