package billing

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	view := guard.Require(rbac.ModuleBilling, rbac.PermView)
	edit := guard.Require(rbac.ModuleBilling, rbac.PermEdit)

	r.Route("/bills", func(br chi.Router) {
		br.With(view).Get("/", listBillsHandler(svc))
		br.With(guard.Require(rbac.ModuleBilling, rbac.PermAdd)).Post("/", createBillHandler(svc))
		br.With(view).Get("/{billID}", getBillHandler(svc))
		br.With(view).Get("/{billID}/payments", listPaymentsHandler(svc))
		br.With(edit).Post("/{billID}/payments", recordPaymentHandler(svc))
		br.With(edit).Post("/{billID}/cancel", cancelBillHandler(svc))
	})
}

type itemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type createBillRequest struct {
	AdmissionID string        `json:"admission_id"`
	OwnerID     string        `json:"owner_id"`
	Items       []itemRequest `json:"items"`
	Discount    float64       `json:"discount"`
	Notes       string        `json:"notes"`
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	PaidAt string  `json:"paid_at"`
	Notes  string  `json:"notes"`
}

type itemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type billResponse struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoice_number"`
	AdmissionID   string         `json:"admission_id,omitempty"`
	OwnerID       string         `json:"owner_id"`
	Items         []itemResponse `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount"`
	Total         float64        `json:"total"`
	AmountPaid    float64        `json:"amount_paid"`
	Balance       float64        `json:"balance"`
	Status        Status         `json:"status"`
	Notes         string         `json:"notes"`
	IssuedAt      time.Time      `json:"issued_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type paymentResponse struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Method string    `json:"method"`
	PaidAt time.Time `json:"paid_at"`
	Notes  string    `json:"notes"`
}

func listBillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Status:      Status(q.Get("status")),
			OwnerID:     q.Get("owner_id"),
			AdmissionID: q.Get("admission_id"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]billResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBillResponse(b))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createBillHandler godoc
// @Summary Emitir factura
// @Description Subtotal, descuento y total se calculan en el servidor. Sin owner_id se usa el dueño de la internación.
// @Tags billing
// @Accept json
// @Produce json
// @Param body body createBillRequest true "Factura"
// @Success 201 {object} billResponse
// @Failure 400 {object} map[string]string
// @Router /bills [post]
func createBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBillRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		items := make([]ItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, ItemInput(it))
		}
		b, err := svc.Create(r.Context(), CreateInput{
			AdmissionID: req.AdmissionID,
			OwnerID:     req.OwnerID,
			Items:       items,
			Discount:    req.Discount,
			Notes:       req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toBillResponse(b))
	}
}

func getBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "billID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBillResponse(b))
	}
}

func listPaymentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Payments(r.Context(), chi.URLParam(r, "billID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]paymentResponse, 0, len(items))
		for _, p := range items {
			out = append(out, paymentResponse{ID: p.ID, Amount: p.Amount, Method: p.Method, PaidAt: p.PaidAt, Notes: p.Notes})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// recordPaymentHandler godoc
// @Summary Registrar pago
// @Tags billing
// @Accept json
// @Produce json
// @Param billID path string true "Bill ID"
// @Param body body paymentRequest true "Pago"
// @Success 200 {object} billResponse
// @Failure 400 {object} map[string]string "Pago mayor al saldo"
// @Failure 409 {object} map[string]string "Factura anulada o pagada"
// @Router /bills/{billID}/payments [post]
func recordPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		paidAt, err := httpx.ParseDate("paid_at", req.PaidAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		b, err := svc.RecordPayment(r.Context(), chi.URLParam(r, "billID"), PaymentInput{
			Amount: req.Amount,
			Method: req.Method,
			PaidAt: paidAt,
			Notes:  req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBillResponse(b))
	}
}

func cancelBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Cancel(r.Context(), chi.URLParam(r, "billID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBillResponse(b))
	}
}

func toBillResponse(b Bill) billResponse {
	items := make([]itemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, itemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return billResponse{
		ID:            b.ID,
		InvoiceNumber: b.InvoiceNumber,
		AdmissionID:   b.AdmissionID,
		OwnerID:       b.OwnerID,
		Items:         items,
		Subtotal:      b.Subtotal,
		Discount:      b.Discount,
		Total:         b.Total,
		AmountPaid:    b.AmountPaid,
		Balance:       b.Balance(),
		Status:        b.Status,
		Notes:         b.Notes,
		IssuedAt:      b.IssuedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
