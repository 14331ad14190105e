package donations

import (
	"net/http"
	"strconv"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"
	"vet-hospital/internal/ports/receipts"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.Route("/donors", func(dr chi.Router) {
		dr.With(guard.Require(rbac.ModuleDonors, rbac.PermView)).Get("/", listDonorsHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonors, rbac.PermAdd)).Post("/", createDonorHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonors, rbac.PermView)).Get("/{donorID}", getDonorHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonors, rbac.PermEdit)).Patch("/{donorID}", updateDonorHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonors, rbac.PermDelete)).Delete("/{donorID}", deleteDonorHandler(svc))
	})

	view := guard.Require(rbac.ModuleDonations, rbac.PermView)
	r.Route("/donations", func(dr chi.Router) {
		dr.With(view).Get("/", listDonationsHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonations, rbac.PermAdd)).Post("/", createDonationHandler(svc))
		dr.With(view).Get("/summary", summaryHandler(svc))
		dr.With(view).Get("/{donationID}", getDonationHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonations, rbac.PermDelete)).Delete("/{donationID}", deleteDonationHandler(svc))
		dr.With(view).Get("/{donationID}/receipt", renderReceiptHandler(svc))
		dr.With(guard.Require(rbac.ModuleDonations, rbac.PermEdit)).Post("/{donationID}/receipt", issueReceiptHandler(svc))
	})
}

type donorRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type donorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type donationRequest struct {
	DonorID     string  `json:"donor_id"`
	DonorName   string  `json:"donor_name"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Purpose     string  `json:"purpose"`
	AdmissionID string  `json:"admission_id"`
	DonatedAt   string  `json:"donated_at"`
	Notes       string  `json:"notes"`
}

type DonationResponse struct {
	ID            string    `json:"id"`
	DonorID       string    `json:"donor_id,omitempty"`
	DonorName     string    `json:"donor_name"`
	Amount        float64   `json:"amount"`
	Method        Method    `json:"method"`
	Purpose       string    `json:"purpose"`
	AdmissionID   string    `json:"admission_id,omitempty"`
	ReceiptNumber string    `json:"receipt_number"`
	DonatedAt     time.Time `json:"donated_at"`
	Notes         string    `json:"notes"`
	ReceiptKey    string    `json:"receipt_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type methodTotalResponse struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type summaryResponse struct {
	Total    float64                        `json:"total"`
	Count    int                            `json:"count"`
	ByMethod map[Method]methodTotalResponse `json:"by_method"`
}

type issuedReceiptResponse struct {
	Donation DonationResponse `json:"donation"`
	Ref      string           `json:"ref"`
	Emailed  bool             `json:"emailed"`
}

func listDonorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDonors(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]donorResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDonorResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donorRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		d, err := svc.CreateDonor(r.Context(), DonorInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toDonorResponse(d))
	}
}

func getDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDonor(r.Context(), chi.URLParam(r, "donorID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDonorResponse(d))
	}
}

func updateDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donorRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		d, err := svc.UpdateDonor(r.Context(), chi.URLParam(r, "donorID"), DonorInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDonorResponse(d))
	}
}

func deleteDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteDonor(r.Context(), chi.URLParam(r, "donorID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listFilter lee donor_id, admission_id, from y to (fechas inclusivas).
func listFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{DonorID: q.Get("donor_id"), AdmissionID: q.Get("admission_id")}
	from, err := httpx.ParseDate("from", q.Get("from"))
	if err != nil {
		return ListFilter{}, err
	}
	to, err := httpx.ParseDate("to", q.Get("to"))
	if err != nil {
		return ListFilter{}, err
	}
	f.From = from
	if to != nil {
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	return f, nil
}

// listDonationsHandler godoc
// @Summary Listar donaciones
// @Tags donations
// @Produce json
// @Param donor_id query string false "Donante"
// @Param admission_id query string false "Internación"
// @Param from query string false "Desde (YYYY-MM-DD)"
// @Param to query string false "Hasta inclusive (YYYY-MM-DD)"
// @Success 200 {array} DonationResponse
// @Router /donations [get]
func listDonationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]DonationResponse, 0, len(items))
		for _, d := range items {
			out = append(out, ToDonationResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createDonationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donationRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		at, err := httpx.ParseDate("donated_at", req.DonatedAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		d, err := svc.Create(r.Context(), CreateInput{
			DonorID:     req.DonorID,
			DonorName:   req.DonorName,
			Amount:      req.Amount,
			Method:      Method(req.Method),
			Purpose:     req.Purpose,
			AdmissionID: req.AdmissionID,
			DonatedAt:   at,
			Notes:       req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToDonationResponse(d))
	}
}

func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		sum, err := svc.Summary(r.Context(), f)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := summaryResponse{Total: sum.Total, Count: sum.Count, ByMethod: map[Method]methodTotalResponse{}}
		for m, t := range sum.ByMethod {
			out.ByMethod[m] = methodTotalResponse(t)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getDonationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "donationID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToDonationResponse(d))
	}
}

func deleteDonationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "donationID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// renderReceiptHandler godoc
// @Summary Descargar recibo
// @Tags donations
// @Produce application/pdf
// @Param donationID path string true "Donation ID"
// @Success 200 {file} file
// @Router /donations/{donationID}/receipt [get]
func renderReceiptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, pdf, err := svc.RenderReceipt(r.Context(), chi.URLParam(r, "donationID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", receipts.ContentTypePDF)
		w.Header().Set("Content-Disposition", `inline; filename="`+d.ReceiptNumber+`.pdf"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

func issueReceiptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.IssueReceipt(r.Context(), chi.URLParam(r, "donationID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, issuedReceiptResponse{
			Donation: ToDonationResponse(out.Donation),
			Ref:      out.Ref,
			Emailed:  out.Emailed,
		})
	}
}

func toDonorResponse(d Donor) donorResponse {
	return donorResponse{
		ID:        d.ID,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Address:   d.Address,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToDonationResponse(d Donation) DonationResponse {
	return DonationResponse{
		ID:            d.ID,
		DonorID:       d.DonorID,
		DonorName:     d.DonorName,
		Amount:        d.Amount,
		Method:        d.Method,
		Purpose:       d.Purpose,
		AdmissionID:   d.AdmissionID,
		ReceiptNumber: d.ReceiptNumber,
		DonatedAt:     d.DonatedAt,
		Notes:         d.Notes,
		ReceiptKey:    d.ReceiptKey,
		CreatedAt:     d.CreatedAt,
	}
}
