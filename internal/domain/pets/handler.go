package pets

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	view := guard.Require(rbac.ModulePets, rbac.PermView)
	edit := guard.Require(rbac.ModulePets, rbac.PermEdit)

	r.Route("/pets", func(pr chi.Router) {
		pr.With(view).Get("/", listPetsHandler(svc))
		pr.With(guard.Require(rbac.ModulePets, rbac.PermAdd)).Post("/", createPetHandler(svc))
		pr.With(view).Get("/{petID}", getPetHandler(svc))
		pr.With(edit).Patch("/{petID}", updatePetHandler(svc))

		// Baja lógica con motivo; restore la revierte.
		pr.With(guard.Require(rbac.ModulePets, rbac.PermDelete)).Post("/{petID}/remove", removePetHandler(svc))
		pr.With(edit).Post("/{petID}/restore", restorePetHandler(svc))
	})

	r.Route("/pet-types", func(tr chi.Router) {
		tr.With(guard.Require(rbac.ModulePetTypes, rbac.PermView)).Get("/", listTypesHandler(svc))
		tr.With(guard.Require(rbac.ModulePetTypes, rbac.PermAdd)).Post("/", createTypeHandler(svc))
		tr.With(guard.Require(rbac.ModulePetTypes, rbac.PermView)).Get("/{typeID}", getTypeHandler(svc))
		tr.With(guard.Require(rbac.ModulePetTypes, rbac.PermEdit)).Patch("/{typeID}", updateTypeHandler(svc))
		tr.With(guard.Require(rbac.ModulePetTypes, rbac.PermDelete)).Delete("/{typeID}", deleteTypeHandler(svc))
	})
}

type createPetRequest struct {
	OwnerID   string   `json:"owner_id"`
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

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	OwnerID   *string  `json:"owner_id"`
	PetTypeID *string  `json:"pet_type_id"`
	Name      *string  `json:"name"`
	Species   *string  `json:"species"`
	Breed     *string  `json:"breed"`
	Gender    *string  `json:"gender"`
	Age       *string  `json:"age"`
	Weight    *float64 `json:"weight"`
	Color     *string  `json:"color"`
	Notes     *string  `json:"notes"`
}

type removePetRequest struct {
	Reason string `json:"reason"`
	Date   string `json:"date"` // YYYY-MM-DD opcional
}

type PetResponse struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	PetTypeID     string     `json:"pet_type_id,omitempty"`
	Name          string     `json:"name"`
	Species       string     `json:"species"`
	Breed         string     `json:"breed"`
	Gender        Gender     `json:"gender"`
	Age           string     `json:"age"`
	Weight        *float64   `json:"weight,omitempty"`
	Color         string     `json:"color"`
	TagID         string     `json:"tag_id"`
	Removed       bool       `json:"removed"`
	RemovalReason string     `json:"removal_reason,omitempty"`
	RemovedAt     *time.Time `json:"removed_at,omitempty"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type petTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type petTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea la mascota para un dueño existente y le asigna un tag TAG-NNNNNN.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} PetResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string "owner not found"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerID:   req.OwnerID,
			PetTypeID: req.PetTypeID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Gender:    req.Gender,
			Age:       req.Age,
			Weight:    req.Weight,
			Color:     req.Color,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Tags pets
// @Produce json
// @Param owner_id query string false "Filtrar por dueño"
// @Param pet_type_id query string false "Filtrar por tipo"
// @Param q query string false "Buscar por nombre o tag"
// @Param include_removed query bool false "Incluir dadas de baja"
// @Success 200 {array} PetResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			OwnerID:        q.Get("owner_id"),
			PetTypeID:      q.Get("pet_type_id"),
			Query:          q.Get("q"),
			IncludeRemoved: httpx.BoolQuery(r, "include_removed"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), UpdateInput{
			OwnerID:   req.OwnerID,
			PetTypeID: req.PetTypeID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Gender:    req.Gender,
			Age:       req.Age,
			Weight:    req.Weight,
			Color:     req.Color,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(updated))
	}
}

func removePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		at, err := httpx.ParseDate("date", req.Date)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Remove(r.Context(), chi.URLParam(r, "petID"), req.Reason, at)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

func restorePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Restore(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

func listTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListTypes(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]petTypeResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toPetTypeResponse(t))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petTypeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		var name, desc string
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			desc = *req.Description
		}

		t, err := svc.CreateType(r.Context(), name, desc)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPetTypeResponse(t))
	}
}

func getTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetType(r.Context(), chi.URLParam(r, "typeID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetTypeResponse(t))
	}
}

func updateTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petTypeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		t, err := svc.UpdateType(r.Context(), chi.URLParam(r, "typeID"), req.Name, req.Description)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetTypeResponse(t))
	}
}

func deleteTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteType(r.Context(), chi.URLParam(r, "typeID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToPetResponse lo reutiliza intake para devolver la mascota creada.
func ToPetResponse(p Pet) PetResponse {
	return PetResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		PetTypeID:     p.PetTypeID,
		Name:          p.Name,
		Species:       p.Species,
		Breed:         p.Breed,
		Gender:        p.Gender,
		Age:           p.Age,
		Weight:        p.Weight,
		Color:         p.Color,
		TagID:         p.TagID,
		Removed:       p.Removed,
		RemovalReason: p.RemovalReason,
		RemovedAt:     p.RemovedAt,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPetTypeResponse(t PetType) petTypeResponse {
	return petTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt}
}
