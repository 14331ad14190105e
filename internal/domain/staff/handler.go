package staff

import (
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	view := guard.Require(rbac.ModuleStaff, rbac.PermView)

	r.Route("/staff", func(sr chi.Router) {
		sr.With(view).Get("/", listStaffHandler(svc))
		sr.With(view).Get("/doctors", listDoctorsHandler(svc))
		sr.With(guard.Require(rbac.ModuleStaff, rbac.PermAdd)).Post("/", createStaffHandler(svc))
		sr.With(view).Get("/{staffID}", getStaffHandler(svc))
		sr.With(guard.Require(rbac.ModuleStaff, rbac.PermEdit)).Patch("/{staffID}", updateStaffHandler(svc))
		sr.With(guard.Require(rbac.ModuleStaff, rbac.PermDelete)).Delete("/{staffID}", deleteStaffHandler(svc))
		sr.With(guard.Require(rbac.ModuleStaff, rbac.PermAdd)).Post("/{staffID}/account", createAccountHandler(svc))
	})

	r.Route("/staff-types", func(tr chi.Router) {
		tr.With(guard.Require(rbac.ModuleStaffTypes, rbac.PermView)).Get("/", listTypesHandler(svc))
		tr.With(guard.Require(rbac.ModuleStaffTypes, rbac.PermAdd)).Post("/", createTypeHandler(svc))
		tr.With(guard.Require(rbac.ModuleStaffTypes, rbac.PermView)).Get("/{typeID}", getTypeHandler(svc))
		tr.With(guard.Require(rbac.ModuleStaffTypes, rbac.PermEdit)).Patch("/{typeID}", updateTypeHandler(svc))
		tr.With(guard.Require(rbac.ModuleStaffTypes, rbac.PermDelete)).Delete("/{typeID}", deleteTypeHandler(svc))
	})
}

type createStaffRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	StaffTypeID    string `json:"staff_type_id"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

type updateStaffRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	StaffTypeID    *string `json:"staff_type_id"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"license_number"`
	Active         *bool   `json:"active"`
}

// AccountRequest también es el body de la función serverless (con staff_id).
type AccountRequest struct {
	StaffID  string    `json:"staff_id"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     rbac.Role `json:"role,omitempty"`
}

type staffResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	StaffTypeID    string    `json:"staff_type_id,omitempty"`
	Specialization string    `json:"specialization"`
	LicenseNumber  string    `json:"license_number"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type staffTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type staffTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func listStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{
			StaffTypeID: r.URL.Query().Get("staff_type_id"),
			ActiveOnly:  httpx.BoolQuery(r, "active"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeMembers(w, items)
	}
}

// listDoctorsHandler godoc
// @Summary Listar doctores
// @Description Staff activo cuya cuenta tiene el rol doctor.
// @Tags staff
// @Produce json
// @Success 200 {array} staffResponse
// @Router /staff/doctors [get]
func listDoctorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Doctors(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeMembers(w, items)
	}
}

func createStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStaffRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		m, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toStaffResponse(m))
	}
}

func getStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "staffID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toStaffResponse(m))
	}
}

func updateStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStaffRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		m, err := svc.Update(r.Context(), chi.URLParam(r, "staffID"), UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toStaffResponse(m))
	}
}

func deleteStaffHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "staffID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// createAccountHandler godoc
// @Summary Crear cuenta de login para un miembro del staff
// @Description Solo admin/superadmin. Responde {success, user_id} o {success:false, error}.
// @Tags staff
// @Accept json
// @Produce json
// @Param staffID path string true "ID del staff (UUID)"
// @Param payload body AccountRequest true "Email, password (8 a 72), nombre (1 a 100) y rol opcional"
// @Success 201 {object} AccountResult
// @Failure 400 {object} AccountResult
// @Failure 403 {object} AccountResult
// @Failure 409 {object} AccountResult
// @Router /staff/{staffID}/account [post]
func createAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AccountRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, Envelope("", err))
			return
		}
		req.StaffID = chi.URLParam(r, "staffID")

		caller, _ := rbac.FromContext(r.Context())
		userID, err := svc.CreateAccount(r.Context(), caller, req.ToInput())
		if err != nil {
			httpx.WriteJSON(w, httpx.StatusOf(err), Envelope("", err))
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, Envelope(userID, nil))
	}
}

func (req AccountRequest) ToInput() AccountInput {
	return AccountInput{
		StaffID:  req.StaffID,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}
}

func listTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListTypes(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]staffTypeResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toStaffTypeResponse(t))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffTypeRequest
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
		httpx.WriteJSON(w, http.StatusCreated, toStaffTypeResponse(t))
	}
}

func getTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetType(r.Context(), chi.URLParam(r, "typeID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toStaffTypeResponse(t))
	}
}

func updateTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffTypeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		t, err := svc.UpdateType(r.Context(), chi.URLParam(r, "typeID"), req.Name, req.Description)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toStaffTypeResponse(t))
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

func writeMembers(w http.ResponseWriter, items []Member) {
	out := make([]staffResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toStaffResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toStaffResponse(m Member) staffResponse {
	return staffResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		StaffTypeID:    m.StaffTypeID,
		Specialization: m.Specialization,
		LicenseNumber:  m.LicenseNumber,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toStaffTypeResponse(t StaffType) staffTypeResponse {
	return staffTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt}
}
