package clinical

import (
	"encoding/json"
	"net/http"
	"time"

	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/middleware"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard rbac.Guard) {
	r.Route("/treatments", func(tr chi.Router) {
		tr.With(guard.Require(rbac.ModuleTreatments, rbac.PermView)).Get("/", listTreatmentsHandler(svc))
		tr.With(guard.Require(rbac.ModuleTreatments, rbac.PermAdd)).Post("/", createTreatmentHandler(svc))
		tr.With(guard.Require(rbac.ModuleTreatments, rbac.PermView)).Get("/{treatmentID}", getTreatmentHandler(svc))
		tr.With(guard.Require(rbac.ModuleTreatments, rbac.PermEdit)).Patch("/{treatmentID}", updateTreatmentHandler(svc))
		tr.With(guard.Require(rbac.ModuleTreatments, rbac.PermDelete)).Delete("/{treatmentID}", deleteTreatmentHandler(svc))
	})

	view := guard.Require(rbac.ModuleDoctorDashboard, rbac.PermView)
	r.Route("/doctor", func(dr chi.Router) {
		dr.With(view).Get("/dashboard", dashboardHandler(svc))
		dr.With(guard.Require(rbac.ModuleDoctorDashboard, rbac.PermEdit)).Post("/visits", recordVisitHandler(svc))
		dr.With(view).Get("/admissions/{admissionID}/prescriptions", listPrescriptionsHandler(svc))
		dr.With(guard.Require(rbac.ModuleDoctorDashboard, rbac.PermAdd)).Post("/admissions/{admissionID}/prescriptions", prescribeHandler(svc))
		dr.With(guard.Require(rbac.ModuleDoctorDashboard, rbac.PermDelete)).Delete("/prescriptions/{prescriptionID}", deletePrescriptionHandler(svc))
	})

	r.With(guard.Require(rbac.ModuleTreatmentHistory, rbac.PermView)).Get("/treatment-history", historyHandler(svc))
}

type treatmentRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	DefaultDosage *string  `json:"default_dosage"`
	Cost          *float64 `json:"cost"`
}

type treatmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	DefaultDosage string    `json:"default_dosage"`
	Cost          float64   `json:"cost"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type visitRequest struct {
	AdmissionID string          `json:"admission_id"`
	Date        *string         `json:"date"` // YYYY-MM-DD, default hoy
	Shift       string          `json:"shift"`
	Vitals      json.RawMessage `json:"vitals" swaggertype:"object"`
	Notes       string          `json:"notes"`
	DoctorID    string          `json:"doctor_id"`
}

type visitResponse struct {
	ID          string                     `json:"id"`
	AdmissionID string                     `json:"admission_id"`
	PetID       string                     `json:"pet_id"`
	DoctorID    string                     `json:"doctor_id,omitempty"`
	VisitDate   string                     `json:"visit_date"`
	Vitals      map[string]json.RawMessage `json:"vitals" swaggertype:"object"`
	Notes       string                     `json:"notes"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

type prescriptionRequest struct {
	MedicineID   string `json:"medicine_id"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
	Quantity     int    `json:"quantity"`
	Notes        string `json:"notes"`
}

type prescriptionResponse struct {
	ID           string    `json:"id"`
	AdmissionID  string    `json:"admission_id"`
	MedicineID   string    `json:"medicine_id"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	DurationDays int       `json:"duration_days"`
	Quantity     int       `json:"quantity"`
	PrescribedBy string    `json:"prescribed_by,omitempty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

type dashboardAdmission struct {
	ID     string    `json:"id"`
	Number string    `json:"admission_number"`
	PetID  string    `json:"pet_id"`
	CageID string    `json:"cage_id,omitempty"`
	Status string    `json:"status"`
	Since  time.Time `json:"admission_date"`
	Reason string    `json:"reason"`
}

type dashboardResponse struct {
	StaffID    string               `json:"staff_id,omitempty"`
	Admissions []dashboardAdmission `json:"admissions"`
}

func listTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListTreatments(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTreatmentResponse(t))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		t, err := svc.CreateTreatment(r.Context(), TreatmentInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toTreatmentResponse(t))
	}
}

func getTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTreatment(r.Context(), chi.URLParam(r, "treatmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toTreatmentResponse(t))
	}
}

func updateTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		t, err := svc.UpdateTreatment(r.Context(), chi.URLParam(r, "treatmentID"), TreatmentInput(req))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toTreatmentResponse(t))
	}
}

func deleteTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteTreatment(r.Context(), chi.URLParam(r, "treatmentID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// dashboardHandler godoc
// @Summary Tablero del doctor
// @Description Internaciones activas (pending/admitted) asignadas al staff del usuario autenticado.
// @Tags doctor
// @Produce json
// @Success 200 {object} dashboardResponse
// @Router /doctor/dashboard [get]
func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		d, err := svc.Dashboard(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := dashboardResponse{StaffID: d.StaffID, Admissions: make([]dashboardAdmission, 0, len(d.Admissions))}
		for _, a := range d.Admissions {
			out.Admissions = append(out.Admissions, dashboardAdmission(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// recordVisitHandler godoc
// @Summary Registrar turno de visita
// @Description Crea la visita del día o mezcla el turno AM/PM en sus vitals.
// @Tags doctor
// @Accept json
// @Produce json
// @Param body body visitRequest true "Turno"
// @Success 200 {object} visitResponse
// @Failure 409 {object} map[string]string
// @Router /doctor/visits [post]
func recordVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req visitRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		date, err := httpx.ParseDatePtr("date", req.Date)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		claims, _ := middleware.GetClaims(r.Context())
		v, err := svc.RecordVisit(r.Context(), claims.UserID, VisitInput{
			AdmissionID: req.AdmissionID,
			Date:        date,
			Shift:       Shift(req.Shift),
			Vitals:      req.Vitals,
			Notes:       req.Notes,
			DoctorID:    req.DoctorID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toVisitResponse(v))
	}
}

func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, err := httpx.ParseDate("from", q.Get("from"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		to, err := httpx.ParseDate("to", q.Get("to"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		items, err := svc.History(r.Context(), HistoryFilter{
			AdmissionID: q.Get("admission_id"),
			PetID:       q.Get("pet_id"),
			DoctorID:    q.Get("doctor_id"),
			From:        from,
			To:          to,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]visitResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVisitResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func listPrescriptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Prescriptions(r.Context(), chi.URLParam(r, "admissionID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]prescriptionResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPrescriptionResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func prescribeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prescriptionRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		claims, _ := middleware.GetClaims(r.Context())
		p, err := svc.Prescribe(r.Context(), claims.UserID, PrescriptionInput{
			AdmissionID:  chi.URLParam(r, "admissionID"),
			MedicineID:   req.MedicineID,
			Dosage:       req.Dosage,
			Frequency:    req.Frequency,
			DurationDays: req.DurationDays,
			Quantity:     req.Quantity,
			Notes:        req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPrescriptionResponse(p))
	}
}

func deletePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePrescription(r.Context(), chi.URLParam(r, "prescriptionID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		DefaultDosage: t.DefaultDosage,
		Cost:          t.Cost,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toVisitResponse(v Visit) visitResponse {
	vitals := v.Vitals
	if vitals == nil {
		vitals = map[string]json.RawMessage{}
	}
	return visitResponse{
		ID:          v.ID,
		AdmissionID: v.AdmissionID,
		PetID:       v.PetID,
		DoctorID:    v.DoctorID,
		VisitDate:   v.VisitDate.Format(httpx.DateLayout),
		Vitals:      vitals,
		Notes:       v.Notes,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:           p.ID,
		AdmissionID:  p.AdmissionID,
		MedicineID:   p.MedicineID,
		Dosage:       p.Dosage,
		Frequency:    p.Frequency,
		DurationDays: p.DurationDays,
		Quantity:     p.Quantity,
		PrescribedBy: p.PrescribedBy,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
	}
}
