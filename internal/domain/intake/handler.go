package intake

import (
	"net/http"

	"vet-hospital/internal/domain/admissions"
	"vet-hospital/internal/domain/donations"
	"vet-hospital/internal/domain/owners"
	"vet-hospital/internal/domain/pets"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.With(guard.Require(rbac.ModuleAdmissions, rbac.PermAdd)).Post("/intake", intakeHandler(svc))
}

type ownerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type petRequest struct {
	OwnerID   string   `json:"-"`
	PetTypeID string   `json:"pet_type_id"`
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	Gender    string   `json:"gender"`
	Age       string   `json:"age"`
	Weight    *float64 `json:"weight"`
	Color     string   `json:"color"`
	Notes     string   `json:"notes"`
}

type donationRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Notes  string  `json:"notes"`
}

type intakeRequest struct {
	UnknownOwner bool                              `json:"unknown_owner"`
	Owner        ownerRequest                      `json:"owner"`
	PetID        string                            `json:"pet_id"`
	Pet          petRequest                        `json:"pet"`
	Admission    admissions.CreateAdmissionRequest `json:"admission"`
	Donation     *donationRequest                  `json:"donation"`
}

type intakeResponse struct {
	Owner       owners.OwnerResponse         `json:"owner"`
	OwnerMerged bool                         `json:"owner_merged"`
	Pet         pets.PetResponse             `json:"pet"`
	PetCreated  bool                         `json:"pet_created"`
	Admission   admissions.AdmissionResponse `json:"admission"`
	Donation    *donations.DonationResponse  `json:"donation,omitempty"`
	ReceiptRef  string                       `json:"receipt_ref,omitempty"`
	Warnings    []string                     `json:"warnings"`
}

// intakeHandler godoc
// @Summary Alta de internación
// @Description Dueño (merge por teléfono o unknown_owner), mascota nueva o existente, internación con jaula y donación opcional en una transacción.
// @Description Si la donación se registró pero el recibo falla, la respuesta trae warnings.
// @Tags admissions
// @Accept json
// @Produce json
// @Param payload body intakeRequest true "Alta"
// @Success 201 {object} intakeResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "cage is full"
// @Router /intake [post]
func intakeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req intakeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		adm, err := req.Admission.ToInput()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		in := Input{
			UnknownOwner: req.UnknownOwner,
			Owner:        owners.CreateInput(req.Owner),
			PetID:        req.PetID,
			Pet:          pets.CreateInput(req.Pet),
			Admission:    adm,
		}
		if req.Donation != nil {
			in.DonationAmount = req.Donation.Amount
			in.DonationMethod = donations.Method(req.Donation.Method)
			in.DonationNotes = req.Donation.Notes
		}

		res, err := svc.Admit(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := intakeResponse{
			Owner:       owners.ToOwnerResponse(res.Owner),
			OwnerMerged: res.OwnerMerged,
			Pet:         pets.ToPetResponse(res.Pet),
			PetCreated:  res.PetCreated,
			Admission:   admissions.ToAdmissionResponse(res.Admission),
			ReceiptRef:  res.ReceiptRef,
			Warnings:    res.Warnings,
		}
		if res.Donation != nil {
			d := donations.ToDonationResponse(*res.Donation)
			out.Donation = &d
		}
		httpx.WriteJSON(w, http.StatusCreated, out)
	}
}
