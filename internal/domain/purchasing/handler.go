package purchasing

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	view := guard.Require(rbac.ModulePurchaseOrders, rbac.PermView)
	edit := guard.Require(rbac.ModulePurchaseOrders, rbac.PermEdit)

	r.Route("/purchase-orders", func(pr chi.Router) {
		pr.With(view).Get("/", listOrdersHandler(svc))
		pr.With(guard.Require(rbac.ModulePurchaseOrders, rbac.PermAdd)).Post("/", createOrderHandler(svc))
		pr.With(view).Get("/{orderID}", getOrderHandler(svc))
		pr.With(edit).Patch("/{orderID}", updateOrderHandler(svc))
		pr.With(edit).Post("/{orderID}/order", markOrderedHandler(svc))
		pr.With(edit).Post("/{orderID}/receive", receiveHandler(svc))
		pr.With(edit).Post("/{orderID}/cancel", cancelHandler(svc))
	})
}

type itemRequest struct {
	MedicineID string  `json:"medicine_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type createOrderRequest struct {
	Supplier     string        `json:"supplier"`
	OrderDate    string        `json:"order_date"`
	ExpectedDate string        `json:"expected_date"`
	Notes        string        `json:"notes"`
	Items        []itemRequest `json:"items"`
}

type updateOrderRequest struct {
	Supplier     *string       `json:"supplier"`
	OrderDate    *string       `json:"order_date"`
	ExpectedDate *string       `json:"expected_date"`
	Notes        *string       `json:"notes"`
	Items        []itemRequest `json:"items"`
}

type itemResponse struct {
	ID         string  `json:"id"`
	MedicineID string  `json:"medicine_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LineTotal  float64 `json:"line_total"`
}

type orderResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"po_number"`
	Supplier     string         `json:"supplier"`
	OrderDate    time.Time      `json:"order_date"`
	ExpectedDate *time.Time     `json:"expected_date,omitempty"`
	Status       Status         `json:"status"`
	Notes        string         `json:"notes"`
	TotalAmount  float64        `json:"total_amount"`
	ReceivedAt   *time.Time     `json:"received_at,omitempty"`
	Items        []itemResponse `json:"items"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toItemInputs(items []itemRequest) []ItemInput {
	if items == nil {
		return nil
	}
	out := make([]ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, ItemInput(it))
	}
	return out
}

func listOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{Status: Status(r.URL.Query().Get("status"))})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]orderResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOrderResponse(o))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createOrderHandler godoc
// @Summary Crear orden de compra
// @Description La orden nace en draft; los totales se calculan en el servidor.
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param body body createOrderRequest true "Orden"
// @Success 201 {object} orderResponse
// @Failure 400 {object} map[string]string
// @Router /purchase-orders [post]
func createOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		orderDate, err := httpx.ParseDate("order_date", req.OrderDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		expected, err := httpx.ParseDate("expected_date", req.ExpectedDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		o, err := svc.Create(r.Context(), CreateInput{
			Supplier:     req.Supplier,
			OrderDate:    orderDate,
			ExpectedDate: expected,
			Notes:        req.Notes,
			Items:        toItemInputs(req.Items),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toOrderResponse(o))
	}
}

func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

func updateOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOrderRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		orderDate, err := httpx.ParseDatePtr("order_date", req.OrderDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		expected, err := httpx.ParseDatePtr("expected_date", req.ExpectedDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		o, err := svc.Update(r.Context(), chi.URLParam(r, "orderID"), UpdateInput{
			Supplier:     req.Supplier,
			OrderDate:    orderDate,
			ExpectedDate: expected,
			Notes:        req.Notes,
			Items:        toItemInputs(req.Items),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

func markOrderedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.MarkOrdered(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

// receiveHandler godoc
// @Summary Recibir orden de compra
// @Description Marca la orden como received y suma las cantidades al stock en una transacción.
// @Tags purchase-orders
// @Produce json
// @Param orderID path string true "Order ID"
// @Success 200 {object} orderResponse
// @Failure 409 {object} map[string]string
// @Router /purchase-orders/{orderID}/receive [post]
func receiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Receive(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Cancel(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrderResponse(o))
	}
}

func toOrderResponse(o Order) orderResponse {
	items := make([]itemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemResponse{
			ID:         it.ID,
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LineTotal:  it.LineTotal,
		})
	}
	return orderResponse{
		ID:           o.ID,
		Number:       o.Number,
		Supplier:     o.Supplier,
		OrderDate:    o.OrderDate,
		ExpectedDate: o.ExpectedDate,
		Status:       o.Status,
		Notes:        o.Notes,
		TotalAmount:  o.TotalAmount,
		ReceivedAt:   o.ReceivedAt,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
