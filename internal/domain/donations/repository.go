package donations

import "context"

type DonorRepository interface {
	CreateDonor(ctx context.Context, d Donor) error
	UpdateDonor(ctx context.Context, d Donor) error
	DeleteDonor(ctx context.Context, id string) error
	GetDonor(ctx context.Context, id string) (Donor, error)
	ListDonors(ctx context.Context, query string) ([]Donor, error)
}

type Repository interface {
	Create(ctx context.Context, d Donation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Donation, error)
	// List devuelve las donaciones por fecha descendente.
	List(ctx context.Context, f ListFilter) ([]Donation, error)
	SetReceiptKey(ctx context.Context, id, key string) error
}
