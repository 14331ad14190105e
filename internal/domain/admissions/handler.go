package admissions

import (
	"encoding/json"
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	view := guard.Require(rbac.ModuleAdmissions, rbac.PermView)
	edit := guard.Require(rbac.ModuleAdmissions, rbac.PermEdit)

	r.Route("/admissions", func(ar chi.Router) {
		ar.With(view).Get("/", listAdmissionsHandler(svc))
		ar.With(guard.Require(rbac.ModuleAdmissions, rbac.PermAdd)).Post("/", createAdmissionHandler(svc))
		ar.With(view).Get("/{admissionID}", getAdmissionHandler(svc))
		ar.With(edit).Patch("/{admissionID}", updateAdmissionHandler(svc))
		ar.With(guard.Require(rbac.ModuleAdmissions, rbac.PermDelete)).Delete("/{admissionID}", deleteAdmissionHandler(svc))

		ar.With(edit).Post("/{admissionID}/cage", assignCageHandler(svc))
		ar.With(edit).Post("/{admissionID}/doctor", assignDoctorHandler(svc))
		ar.With(edit).Post("/{admissionID}/admit", admitHandler(svc))
		ar.With(edit).Post("/{admissionID}/discharge", dischargeHandler(svc))
		ar.With(view).Get("/{admissionID}/allotments", allotmentsHandler(svc))
	})
}

type CreateAdmissionRequest struct {
	PetID              string          `json:"pet_id"`
	AdmissionDate      string          `json:"admission_date"`
	Status             string          `json:"status"`
	CageID             string          `json:"cage_id"`
	DoctorID           string          `json:"doctor_id"`
	Reason             string          `json:"reason"`
	Diagnosis          string          `json:"diagnosis"`
	Symptoms           string          `json:"symptoms"`
	XrayDate           string          `json:"xray_date"`
	OperationDate      string          `json:"operation_date"`
	AntibioticSchedule json.RawMessage `json:"antibiotic_schedule" swaggertype:"object"`
	BloodTestNotes     string          `json:"blood_test_notes"`
	AmountReceived     float64         `json:"amount_received"`
	Notes              string          `json:"notes"`
}

type updateAdmissionRequest struct {
	AdmissionDate      *string         `json:"admission_date"`
	Reason             *string         `json:"reason"`
	Diagnosis          *string         `json:"diagnosis"`
	Symptoms           *string         `json:"symptoms"`
	XrayDate           *string         `json:"xray_date"`
	OperationDate      *string         `json:"operation_date"`
	AntibioticSchedule json.RawMessage `json:"antibiotic_schedule" swaggertype:"object"`
	BloodTestNotes     *string         `json:"blood_test_notes"`
	AmountReceived     *float64        `json:"amount_received"`
	Notes              *string         `json:"notes"`
}

type assignCageRequest struct {
	CageID string `json:"cage_id"`
}

type assignDoctorRequest struct {
	DoctorID string `json:"doctor_id"`
}

type dischargeRequest struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}

type AdmissionResponse struct {
	ID                 string          `json:"id"`
	Number             string          `json:"admission_number"`
	PetID              string          `json:"pet_id"`
	AdmissionDate      time.Time       `json:"admission_date"`
	DischargeDate      *time.Time      `json:"discharge_date,omitempty"`
	Status             Status          `json:"status"`
	CageID             string          `json:"cage_id,omitempty"`
	DoctorID           string          `json:"doctor_id,omitempty"`
	Reason             string          `json:"reason"`
	Diagnosis          string          `json:"diagnosis"`
	Symptoms           string          `json:"symptoms"`
	XrayDate           *time.Time      `json:"xray_date,omitempty"`
	OperationDate      *time.Time      `json:"operation_date,omitempty"`
	AntibioticSchedule json.RawMessage `json:"antibiotic_schedule,omitempty" swaggertype:"object"`
	BloodTestNotes     string          `json:"blood_test_notes"`
	AmountReceived     float64         `json:"amount_received"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type allotmentResponse struct {
	ID         string          `json:"id"`
	CageID     string          `json:"cage_id"`
	PetID      string          `json:"pet_id"`
	Status     AllotmentStatus `json:"allotment_status"`
	AllottedAt time.Time       `json:"allotted_at"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
}

// createAdmissionHandler godoc
// @Summary Internar mascota
// @Description Crea la internación. Si viene cage_id se valida la capacidad de la jaula dentro de la misma transacción.
// @Tags admissions
// @Accept json
// @Produce json
// @Param payload body CreateAdmissionRequest true "Datos de la internación; fechas YYYY-MM-DD o RFC3339"
// @Success 201 {object} AdmissionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "pet/cage/doctor not found"
// @Failure 409 {object} map[string]string "cage is full / pet is removed"
// @Router /admissions [post]
func createAdmissionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAdmissionRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		in, err := req.ToInput()
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToAdmissionResponse(a))
	}
}

func (req CreateAdmissionRequest) ToInput() (CreateInput, error) {
	admitted, err := httpx.ParseDate("admission_date", req.AdmissionDate)
	if err != nil {
		return CreateInput{}, err
	}
	xray, err := httpx.ParseDate("xray_date", req.XrayDate)
	if err != nil {
		return CreateInput{}, err
	}
	operation, err := httpx.ParseDate("operation_date", req.OperationDate)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		PetID:              req.PetID,
		AdmissionDate:      admitted,
		Status:             req.Status,
		CageID:             req.CageID,
		DoctorID:           req.DoctorID,
		Reason:             req.Reason,
		Diagnosis:          req.Diagnosis,
		Symptoms:           req.Symptoms,
		XrayDate:           xray,
		OperationDate:      operation,
		AntibioticSchedule: req.AntibioticSchedule,
		BloodTestNotes:     req.BloodTestNotes,
		AmountReceived:     req.AmountReceived,
		Notes:              req.Notes,
	}, nil
}

// listAdmissionsHandler godoc
// @Summary Listar internaciones
// @Tags admissions
// @Produce json
// @Param status query string false "pending|admitted|discharged|deceased"
// @Param active query bool false "Solo pending/admitted"
// @Param pet_id query string false "Filtrar por mascota"
// @Param cage_id query string false "Filtrar por jaula"
// @Param doctor_id query string false "Filtrar por doctor (staff id)"
// @Success 200 {array} AdmissionResponse
// @Router /admissions [get]
func listAdmissionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Status:     Status(q.Get("status")),
			ActiveOnly: httpx.BoolQuery(r, "active"),
			PetID:      q.Get("pet_id"),
			CageID:     q.Get("cage_id"),
			DoctorID:   q.Get("doctor_id"),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]AdmissionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, ToAdmissionResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getAdmissionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "admissionID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func updateAdmissionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAdmissionRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		admitted, err := httpx.ParseDatePtr("admission_date", req.AdmissionDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		xray, err := httpx.ParseDatePtr("xray_date", req.XrayDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		operation, err := httpx.ParseDatePtr("operation_date", req.OperationDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "admissionID"), UpdateInput{
			AdmissionDate:      admitted,
			Reason:             req.Reason,
			Diagnosis:          req.Diagnosis,
			Symptoms:           req.Symptoms,
			XrayDate:           xray,
			OperationDate:      operation,
			AntibioticSchedule: req.AntibioticSchedule,
			BloodTestNotes:     req.BloodTestNotes,
			AmountReceived:     req.AmountReceived,
			Notes:              req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func deleteAdmissionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "admissionID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// assignCageHandler godoc
// @Summary Asignar jaula
// @Description Bloquea la jaula, cuenta ocupantes y rechaza con 409 si está llena. cage_id vacío libera la jaula.
// @Tags admissions
// @Accept json
// @Produce json
// @Param admissionID path string true "ID de la internación"
// @Param payload body assignCageRequest true "Jaula destino"
// @Success 200 {object} AdmissionResponse
// @Failure 409 {object} map[string]string "cage is full"
// @Router /admissions/{admissionID}/cage [post]
func assignCageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignCageRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		a, err := svc.AssignCage(r.Context(), chi.URLParam(r, "admissionID"), req.CageID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func assignDoctorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignDoctorRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		a, err := svc.AssignDoctor(r.Context(), chi.URLParam(r, "admissionID"), req.DoctorID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func admitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Admit(r.Context(), chi.URLParam(r, "admissionID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func dischargeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dischargeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		at, err := httpx.ParseDate("date", req.Date)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.Discharge(r.Context(), chi.URLParam(r, "admissionID"), DischargeInput{
			Status: Status(req.Status),
			Date:   at,
			Notes:  req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAdmissionResponse(a))
	}
}

func allotmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Allotments(r.Context(), chi.URLParam(r, "admissionID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]allotmentResponse, 0, len(items))
		for _, al := range items {
			out = append(out, allotmentResponse{
				ID:         al.ID,
				CageID:     al.CageID,
				PetID:      al.PetID,
				Status:     al.Status,
				AllottedAt: al.AllottedAt,
				ReleasedAt: al.ReleasedAt,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func ToAdmissionResponse(a Admission) AdmissionResponse {
	return AdmissionResponse{
		ID:                 a.ID,
		Number:             a.Number,
		PetID:              a.PetID,
		AdmissionDate:      a.AdmissionDate,
		DischargeDate:      a.DischargeDate,
		Status:             a.Status,
		CageID:             a.CageID,
		DoctorID:           a.DoctorID,
		Reason:             a.Reason,
		Diagnosis:          a.Diagnosis,
		Symptoms:           a.Symptoms,
		XrayDate:           a.XrayDate,
		OperationDate:      a.OperationDate,
		AntibioticSchedule: a.AntibioticSchedule,
		BloodTestNotes:     a.BloodTestNotes,
		AmountReceived:     a.AmountReceived,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
