package dashboard

import (
	"net/http"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.With(guard.Require(rbac.ModuleDashboard, rbac.PermView)).Get("/dashboard", statsHandler(svc))
}

type statsResponse struct {
	ActivePets         int     `json:"active_pets"`
	CurrentAdmissions  int     `json:"current_admissions"`
	TotalCages         int     `json:"total_cages"`
	AvailableCages     int     `json:"available_cages"`
	LowStockMedicines  int     `json:"low_stock_medicines"`
	DonationsTotal     float64 `json:"donations_total"`
	DonationsThisMonth float64 `json:"donations_this_month"`
	OpenPurchaseOrders int     `json:"open_purchase_orders"`
}

// statsHandler godoc
// @Summary Contadores del tablero
// @Tags dashboard
// @Produce json
// @Success 200 {object} statsResponse
// @Router /dashboard [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, statsResponse{
			ActivePets:         st.ActivePets,
			CurrentAdmissions:  st.CurrentAdmissions,
			TotalCages:         st.TotalCages,
			AvailableCages:     st.AvailableCages,
			LowStockMedicines:  st.LowStockMedicines,
			DonationsTotal:     st.DonationsTotal,
			DonationsThisMonth: st.DonationsMonth,
			OpenPurchaseOrders: st.OpenPurchaseOrders,
		})
	}
}
