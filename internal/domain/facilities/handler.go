package facilities

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.Route("/buildings", func(br chi.Router) {
		br.With(guard.Require(rbac.ModuleBuildings, rbac.PermView)).Get("/", listBuildingsHandler(svc))
		br.With(guard.Require(rbac.ModuleBuildings, rbac.PermAdd)).Post("/", createBuildingHandler(svc))
		br.With(guard.Require(rbac.ModuleBuildings, rbac.PermView)).Get("/{buildingID}", getBuildingHandler(svc))
		br.With(guard.Require(rbac.ModuleBuildings, rbac.PermEdit)).Patch("/{buildingID}", updateBuildingHandler(svc))
		br.With(guard.Require(rbac.ModuleBuildings, rbac.PermDelete)).Delete("/{buildingID}", deleteBuildingHandler(svc))
	})

	r.Route("/rooms", func(rr chi.Router) {
		rr.With(guard.Require(rbac.ModuleRooms, rbac.PermView)).Get("/", listRoomsHandler(svc))
		rr.With(guard.Require(rbac.ModuleRooms, rbac.PermAdd)).Post("/", createRoomHandler(svc))
		rr.With(guard.Require(rbac.ModuleRooms, rbac.PermView)).Get("/{roomID}", getRoomHandler(svc))
		rr.With(guard.Require(rbac.ModuleRooms, rbac.PermEdit)).Patch("/{roomID}", updateRoomHandler(svc))
		rr.With(guard.Require(rbac.ModuleRooms, rbac.PermDelete)).Delete("/{roomID}", deleteRoomHandler(svc))
	})

	r.Route("/cages", func(cr chi.Router) {
		view := guard.Require(rbac.ModuleCages, rbac.PermView)
		cr.With(view).Get("/", listCagesHandler(svc))
		// /available antes de /{cageID}
		cr.With(view).Get("/available", availableCagesHandler(svc))
		cr.With(guard.Require(rbac.ModuleCages, rbac.PermAdd)).Post("/", createCageHandler(svc))
		cr.With(view).Get("/{cageID}", getCageHandler(svc))
		cr.With(view).Get("/{cageID}/occupancy", occupancyHandler(svc))
		cr.With(guard.Require(rbac.ModuleCages, rbac.PermEdit)).Patch("/{cageID}", updateCageHandler(svc))
		cr.With(guard.Require(rbac.ModuleCages, rbac.PermDelete)).Delete("/{cageID}", deleteCageHandler(svc))
	})
}

type buildingRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

type buildingResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type roomRequest struct {
	BuildingID  *string `json:"building_id"`
	Name        *string `json:"name"`
	Floor       *string `json:"floor"`
	Description *string `json:"description"`
}

type roomResponse struct {
	ID          string    `json:"id"`
	BuildingID  string    `json:"building_id"`
	Name        string    `json:"name"`
	Floor       string    `json:"floor"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type cageRequest struct {
	RoomID      *string `json:"room_id"`
	CageNumber  *string `json:"cage_number"`
	MaxPetCount *int    `json:"max_pet_count"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

type cageResponse struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	CageNumber      string     `json:"cage_number"`
	MaxPetCount     int        `json:"max_pet_count"`
	CurrentPetCount int        `json:"current_pet_count"`
	FreeSlots       int        `json:"free_slots"`
	Status          CageStatus `json:"status"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func listBuildingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListBuildings(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]buildingResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBuildingResponse(b))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createBuildingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req buildingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		b, err := svc.CreateBuilding(r.Context(), BuildingInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toBuildingResponse(b))
	}
}

func getBuildingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBuilding(r.Context(), chi.URLParam(r, "buildingID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBuildingResponse(b))
	}
}

func updateBuildingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req buildingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		b, err := svc.UpdateBuilding(r.Context(), chi.URLParam(r, "buildingID"), BuildingInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBuildingResponse(b))
	}
}

// deleteBuildingHandler godoc
// @Summary Borrar edificio
// @Description Falla con 409 si el edificio todavía tiene salas.
// @Tags facilities
// @Param buildingID path string true "ID del edificio"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /buildings/{buildingID} [delete]
func deleteBuildingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteBuilding(r.Context(), chi.URLParam(r, "buildingID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listRoomsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListRooms(r.Context(), r.URL.Query().Get("building_id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]roomResponse, 0, len(items))
		for _, rm := range items {
			out = append(out, toRoomResponse(rm))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roomRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		rm, err := svc.CreateRoom(r.Context(), RoomInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toRoomResponse(rm))
	}
}

func getRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := svc.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRoomResponse(rm))
	}
}

func updateRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roomRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		rm, err := svc.UpdateRoom(r.Context(), chi.URLParam(r, "roomID"), RoomInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRoomResponse(rm))
	}
}

func deleteRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteRoom(r.Context(), chi.URLParam(r, "roomID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listCagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.ListCages(r.Context(), CageFilter{
			RoomID:     q.Get("room_id"),
			BuildingID: q.Get("building_id"),
			Status:     CageStatus(q.Get("status")),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeOccupancies(w, items)
	}
}

// availableCagesHandler godoc
// @Summary Jaulas con lugar libre
// @Description Jaulas en estado available u occupied cuya ocupación actual es menor a max_pet_count.
// @Tags facilities
// @Produce json
// @Param room_id query string false "Filtrar por sala"
// @Param building_id query string false "Filtrar por edificio"
// @Success 200 {array} cageResponse
// @Router /cages/available [get]
func availableCagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.Available(r.Context(), CageFilter{
			RoomID:     q.Get("room_id"),
			BuildingID: q.Get("building_id"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeOccupancies(w, items)
	}
}

func createCageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cageRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		c, err := svc.CreateCage(r.Context(), CageInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toCageResponse(Occupancy{Cage: c}))
	}
}

func getCageHandler(svc *Service) http.HandlerFunc {
	return occupancyHandler(svc)
}

func occupancyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Occupancy(r.Context(), chi.URLParam(r, "cageID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toCageResponse(o))
	}
}

func updateCageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cageRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		if _, err := svc.UpdateCage(r.Context(), chi.URLParam(r, "cageID"), CageInput(req)); err != nil {
			httpx.WriteError(w, err)
			return
		}
		occupancyHandler(svc)(w, r)
	}
}

func deleteCageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteCage(r.Context(), chi.URLParam(r, "cageID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeOccupancies(w http.ResponseWriter, items []Occupancy) {
	out := make([]cageResponse, 0, len(items))
	for _, o := range items {
		out = append(out, toCageResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toBuildingResponse(b Building) buildingResponse {
	return buildingResponse{
		ID:          b.ID,
		Name:        b.Name,
		Code:        b.Code,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toRoomResponse(r Room) roomResponse {
	return roomResponse{
		ID:          r.ID,
		BuildingID:  r.BuildingID,
		Name:        r.Name,
		Floor:       r.Floor,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toCageResponse(o Occupancy) cageResponse {
	c := o.Cage
	return cageResponse{
		ID:              c.ID,
		RoomID:          c.RoomID,
		CageNumber:      c.CageNumber,
		MaxPetCount:     c.MaxPetCount,
		CurrentPetCount: o.Current,
		FreeSlots:       o.Free(),
		Status:          c.Status,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
