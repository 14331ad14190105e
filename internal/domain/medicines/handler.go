package medicines

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.With(guard.Require(rbac.ModuleMedicines, rbac.PermView)).Get("/", listMedicinesHandler(svc))
		mr.With(guard.Require(rbac.ModuleMedicines, rbac.PermAdd)).Post("/", createMedicineHandler(svc))
		mr.With(guard.Require(rbac.ModuleMedicines, rbac.PermView)).Get("/{medicineID}", getMedicineHandler(svc))
		mr.With(guard.Require(rbac.ModuleMedicines, rbac.PermEdit)).Patch("/{medicineID}", updateMedicineHandler(svc))
		mr.With(guard.Require(rbac.ModuleMedicines, rbac.PermDelete)).Delete("/{medicineID}", deleteMedicineHandler(svc))
	})

	r.Route("/inventory", func(ir chi.Router) {
		ir.With(guard.Require(rbac.ModuleInventory, rbac.PermView)).Get("/", inventorySummaryHandler(svc))
		ir.With(guard.Require(rbac.ModuleInventory, rbac.PermEdit)).Post("/{medicineID}/adjust", adjustStockHandler(svc))
	})
}

type medicineRequest struct {
	Name          *string  `json:"name"`
	GenericName   *string  `json:"generic_name"`
	Category      *string  `json:"category"`
	Unit          *string  `json:"unit"`
	StockQuantity *int     `json:"stock_quantity"`
	ReorderLevel  *int     `json:"reorder_level"`
	UnitPrice     *float64 `json:"unit_price"`
	ExpiryDate    *string  `json:"expiry_date"` // YYYY-MM-DD
	Manufacturer  *string  `json:"manufacturer"`
	Notes         *string  `json:"notes"`
}

type adjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

type medicineResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	GenericName   string     `json:"generic_name"`
	Category      string     `json:"category"`
	Unit          string     `json:"unit"`
	StockQuantity int        `json:"stock_quantity"`
	ReorderLevel  int        `json:"reorder_level"`
	UnitPrice     float64    `json:"unit_price"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Manufacturer  string     `json:"manufacturer"`
	Notes         string     `json:"notes"`
	LowStock      bool       `json:"low_stock"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type inventoryResponse struct {
	Items        int                `json:"items"`
	TotalUnits   int                `json:"total_units"`
	StockValue   float64            `json:"stock_value"`
	LowStock     []medicineResponse `json:"low_stock"`
	Expired      []medicineResponse `json:"expired"`
	ExpiringSoon []medicineResponse `json:"expiring_soon"`
}

func (req medicineRequest) toInput() (Input, error) {
	exp, err := httpx.ParseDatePtr("expiry_date", req.ExpiryDate)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Name:          req.Name,
		GenericName:   req.GenericName,
		Category:      req.Category,
		Unit:          req.Unit,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		UnitPrice:     req.UnitPrice,
		ExpiryDate:    exp,
		Manufacturer:  req.Manufacturer,
		Notes:         req.Notes,
	}, nil
}

// listMedicinesHandler godoc
// @Summary Listar medicamentos
// @Tags medicines
// @Produce json
// @Param q query string false "Buscar por nombre o genérico"
// @Param category query string false "Categoría"
// @Param low_stock query bool false "Solo con stock <= reorder_level"
// @Success 200 {array} medicineResponse
// @Router /medicines [get]
func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Query:    q.Get("q"),
			Category: q.Get("category"),
			LowStock: httpx.BoolQuery(r, "low_stock"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMedicineResponses(items))
	}
}

func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicineRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		m, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toMedicineResponse(m))
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicineRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicineID"), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// inventorySummaryHandler godoc
// @Summary Resumen de inventario
// @Description Cantidad de ítems, valor del stock, faltantes, vencidos y por vencer (30 días).
// @Tags inventory
// @Produce json
// @Success 200 {object} inventoryResponse
// @Router /inventory [get]
func inventorySummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := svc.Summary(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, inventoryResponse{
			Items:        sum.Items,
			TotalUnits:   sum.TotalUnits,
			StockValue:   sum.StockValue,
			LowStock:     toMedicineResponses(sum.LowStock),
			Expired:      toMedicineResponses(sum.Expired),
			ExpiringSoon: toMedicineResponses(sum.ExpiringSoon),
		})
	}
}

func adjustStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adjustStockRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		m, err := svc.AdjustStock(r.Context(), chi.URLParam(r, "medicineID"), req.Delta)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func toMedicineResponses(items []Medicine) []medicineResponse {
	out := make([]medicineResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMedicineResponse(m))
	}
	return out
}

func toMedicineResponse(m Medicine) medicineResponse {
	return medicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		GenericName:   m.GenericName,
		Category:      m.Category,
		Unit:          m.Unit,
		StockQuantity: m.StockQuantity,
		ReorderLevel:  m.ReorderLevel,
		UnitPrice:     m.UnitPrice,
		ExpiryDate:    m.ExpiryDate,
		Manufacturer:  m.Manufacturer,
		Notes:         m.Notes,
		LowStock:      m.LowStock(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
