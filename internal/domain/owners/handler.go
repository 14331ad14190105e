package owners

import (
	"net/http"
	"strings"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.Route("/owners", func(or chi.Router) {
		or.With(guard.Require(rbac.ModuleOwners, rbac.PermView)).Get("/", listOwnersHandler(svc))
		or.With(guard.Require(rbac.ModuleOwners, rbac.PermAdd)).Post("/", createOwnerHandler(svc))
		or.With(guard.Require(rbac.ModuleOwners, rbac.PermView)).Get("/{ownerID}", getOwnerHandler(svc))
		or.With(guard.Require(rbac.ModuleOwners, rbac.PermEdit)).Patch("/{ownerID}", updateOwnerHandler(svc))
		or.With(guard.Require(rbac.ModuleOwners, rbac.PermDelete)).Delete("/{ownerID}", deleteOwnerHandler(svc))
	})
}

type createOwnerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type updateOwnerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
	Notes   *string `json:"notes"`
}

type OwnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	Notes     string    `json:"notes"`
	Merged    bool      `json:"merged,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createOwnerHandler godoc
// @Summary Registrar dueño
// @Description Si ya existe un dueño activo con el mismo teléfono se actualiza y se devuelve con merged=true.
// @Tags owners
// @Accept json
// @Produce json
// @Param payload body createOwnerRequest true "Datos del dueño"
// @Success 201 {object} OwnerResponse
// @Success 200 {object} OwnerResponse "merge por teléfono"
// @Failure 400 {object} map[string]string
// @Router /owners [post]
func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOwnerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		o, merged, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			Notes:   req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		status := http.StatusCreated
		if merged {
			status = http.StatusOK
		}
		resp := ToOwnerResponse(o)
		resp.Merged = merged
		httpx.WriteJSON(w, status, resp)
	}
}

func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := ListFilter{Query: r.URL.Query().Get("q")}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			active := httpx.BoolQuery(r, "active")
			f.Active = &active
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]OwnerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, ToOwnerResponse(o))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToOwnerResponse(o))
	}
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOwnerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "ownerID"), UpdateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			Active:  req.Active,
			Notes:   req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToOwnerResponse(o))
	}
}

func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "ownerID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToOwnerResponse(o Owner) OwnerResponse {
	return OwnerResponse{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Email:     o.Email,
		Address:   o.Address,
		Active:    o.Active,
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
