// Package intake implementa el alta de una internación en un solo paso:
// dueño, mascota, internación (con jaula) y donación opcional.
package intake

import (
	"context"
	"strings"
	"time"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/platform/logger"
	"vet-hospital/internal/ports/tx"
)

type OwnerStep interface {
	Create(ctx context.Context, in owners.CreateInput) (owners.Owner, bool, error)
	UnknownOwner(ctx context.Context) (owners.Owner, error)
	GetByID(ctx context.Context, id string) (owners.Owner, error)
}

type PetStep interface {
	Create(ctx context.Context, in pets.CreateInput) (pets.Pet, error)
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	Update(ctx context.Context, id string, in pets.UpdateInput) (pets.Pet, error)
}

type AdmissionStep interface {
	CreateInTx(ctx context.Context, in admissions.CreateInput) (admissions.Admission, error)
}

type DonationStep interface {
	Create(ctx context.Context, in donations.CreateInput) (donations.Donation, error)
	IssueReceipt(ctx context.Context, id string) (donations.IssuedReceipt, error)
}

type Deps struct {
	Owners     OwnerStep
	Pets       PetStep
	Admissions AdmissionStep
	Donations  DonationStep
	Tx         tx.Runner
	Log        logger.Logger
}

type Service struct {
	d Deps
}

func NewService(d Deps) *Service {
	if d.Tx == nil {
		d.Tx = tx.NoTx
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Service{d: d}
}

type Input struct {
	UnknownOwner bool
	Owner        owners.CreateInput

	// PetID reutiliza una mascota existente; Pet se aplica como actualización.
	PetID string
	Pet   pets.CreateInput

	Admission admissions.CreateInput

	DonationAmount float64
	DonationMethod donations.Method
	DonationNotes  string
}

type Result struct {
	Owner       owners.Owner
	OwnerMerged bool
	Pet         pets.Pet
	PetCreated  bool
	Admission   admissions.Admission
	Donation    *donations.Donation
	ReceiptRef  string
	Warnings    []string
}

// Admit corre todo el alta en una transacción. El recibo de la donación se
// emite después del commit; si falla queda como warning y la internación sigue.
func (s *Service) Admit(ctx context.Context, in Input) (Result, error) {
	if !in.UnknownOwner && strings.TrimSpace(in.Owner.Phone) == "" && strings.TrimSpace(in.PetID) == "" {
		return Result{}, apperr.Invalid("owner phone is required unless unknown_owner is set")
	}
	if in.DonationAmount < 0 {
		return Result{}, apperr.Invalid("donation amount must be >= 0")
	}

	var res Result
	err := s.d.Tx.WithinTx(ctx, func(ctx context.Context) error {
		res = Result{}
		if err := s.ownerStep(ctx, in, &res); err != nil {
			return err
		}
		if err := s.petStep(ctx, in, &res); err != nil {
			return err
		}

		adm := in.Admission
		adm.PetID = res.Pet.ID
		a, err := s.d.Admissions.CreateInTx(ctx, adm)
		if err != nil {
			return err
		}
		res.Admission = a

		if in.DonationAmount > 0 {
			d, err := s.d.Donations.Create(ctx, donations.CreateInput{
				DonorName:   res.Owner.Name,
				Amount:      in.DonationAmount,
				Method:      in.DonationMethod,
				Purpose:     "admission " + a.Number,
				AdmissionID: a.ID,
				DonatedAt:   ptr(a.AdmissionDate),
				Notes:       in.DonationNotes,
			})
			if err != nil {
				return err
			}
			res.Donation = &d
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Warnings = []string{}
	if res.Donation != nil {
		issued, err := s.d.Donations.IssueReceipt(ctx, res.Donation.ID)
		if err != nil {
			s.d.Log.Warn("intake receipt failed", map[string]any{
				"admission_id": res.Admission.ID,
				"donation_id":  res.Donation.ID,
				"err":          err,
			})
			res.Warnings = append(res.Warnings, "receipt not generated: "+err.Error())
		} else {
			res.Donation = &issued.Donation
			res.ReceiptRef = issued.Ref
		}
	}
	return res, nil
}

func (s *Service) ownerStep(ctx context.Context, in Input, res *Result) error {
	if in.UnknownOwner {
		// una mascota existente conserva su dueño
		if strings.TrimSpace(in.PetID) != "" {
			return nil
		}
		o, err := s.d.Owners.UnknownOwner(ctx)
		if err != nil {
			return err
		}
		res.Owner = o
		return nil
	}
	if strings.TrimSpace(in.Owner.Phone) == "" {
		// sólo pasa con una mascota existente: el dueño se resuelve en petStep
		return nil
	}
	o, merged, err := s.d.Owners.Create(ctx, in.Owner)
	if err != nil {
		return err
	}
	res.Owner = o
	res.OwnerMerged = merged
	return nil
}

func (s *Service) petStep(ctx context.Context, in Input, res *Result) error {
	id := strings.TrimSpace(in.PetID)
	if id == "" {
		if res.Owner.ID == "" {
			return apperr.Invalid("owner is required for a new pet")
		}
		p := in.Pet
		p.OwnerID = res.Owner.ID
		created, err := s.d.Pets.Create(ctx, p)
		if err != nil {
			return err
		}
		res.Pet = created
		res.PetCreated = true
		return nil
	}

	upd := patchFrom(in.Pet)
	if res.Owner.ID != "" {
		upd.OwnerID = &res.Owner.ID
	}
	p, err := s.d.Pets.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	res.Pet = p
	if res.Owner.ID == "" {
		o, err := s.d.Owners.GetByID(ctx, p.OwnerID)
		if err != nil {
			return err
		}
		res.Owner = o
	}
	return nil
}

// patchFrom convierte los campos no vacíos del alta en un patch.
func patchFrom(in pets.CreateInput) pets.UpdateInput {
	var out pets.UpdateInput
	set := func(v string) *string {
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return &v
	}
	out.PetTypeID = set(in.PetTypeID)
	out.Name = set(in.Name)
	out.Species = set(in.Species)
	out.Breed = set(in.Breed)
	out.Gender = set(in.Gender)
	out.Age = set(in.Age)
	out.Color = set(in.Color)
	out.Notes = set(in.Notes)
	out.Weight = in.Weight
	return out
}

func ptr(t time.Time) *time.Time { return &t }
