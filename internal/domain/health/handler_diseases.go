package health

import (
	"net/http"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

type createDiseaseRequest struct {
	Name           string        `json:"name" validate:"required,max=50"`
	PathogenID     string        `json:"pathogen_id" validate:"required"`
	CategoryID     string        `json:"category_id" validate:"required"`
	OccurrenceDate *httpapi.Date `json:"occurrence_date"`
	Notes          string        `json:"notes"`
	CowIDs         []string      `json:"cow_ids"`
	SymptomIDs     []string      `json:"symptom_ids"`
}

type updateDiseaseRequest struct {
	Name           *string       `json:"name" validate:"omitempty,max=50"`
	PathogenID     *string       `json:"pathogen_id"`
	CategoryID     *string       `json:"category_id"`
	OccurrenceDate *httpapi.Date `json:"occurrence_date"`
	Notes          *string       `json:"notes"`
	CowIDs         *[]string     `json:"cow_ids"`
	SymptomIDs     *[]string     `json:"symptom_ids"`
}

type diseaseResponse struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	PathogenID     string       `json:"pathogen_id"`
	CategoryID     string       `json:"category_id"`
	DateReported   httpapi.Date `json:"date_reported"`
	OccurrenceDate httpapi.Date `json:"occurrence_date"`
	Notes          string       `json:"notes"`
	CowIDs         []string     `json:"cow_ids"`
	SymptomIDs     []string     `json:"symptom_ids"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type recoveryResponse struct {
	ID            string        `json:"id"`
	CowID         string        `json:"cow_id"`
	DiseaseID     string        `json:"disease_id"`
	DiagnosisDate httpapi.Date  `json:"diagnosis_date"`
	RecoveryDate  *httpapi.Date `json:"recovery_date"`
}

type createTreatmentRequest struct {
	DiseaseID      string          `json:"disease_id" validate:"required"`
	CowID          string          `json:"cow_id" validate:"required"`
	Method         string          `json:"treatment_method" validate:"required,max=300"`
	Notes          string          `json:"notes"`
	Status         TreatmentStatus `json:"treatment_status"`
	CompletionDate *httpapi.Date   `json:"completion_date"`
}

type updateTreatmentRequest struct {
	Method         *string          `json:"treatment_method" validate:"omitempty,max=300"`
	Notes          *string          `json:"notes"`
	Status         *TreatmentStatus `json:"treatment_status"`
	CompletionDate *httpapi.Date    `json:"completion_date"`
}

type treatmentResponse struct {
	ID              string          `json:"id"`
	DiseaseID       string          `json:"disease_id"`
	CowID           string          `json:"cow_id"`
	DateOfTreatment httpapi.Date    `json:"date_of_treatment"`
	Method          string          `json:"treatment_method"`
	Notes           string          `json:"notes"`
	Status          TreatmentStatus `json:"treatment_status"`
	CompletionDate  *httpapi.Date   `json:"completion_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// -------------------------
// Diseases
// -------------------------

func listDiseasesHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseases, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := DiseaseFilter{
			Name:       q.String("name"),
			PathogenID: q.String("pathogen_id"),
			CategoryID: q.String("category_id"),
			CowID:      q.String("cow_id"),
			SymptomID:  q.String("symptom_id"),
			Year:       q.Year(),
			Month:      q.Month(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListDiseases(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]diseaseResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDiseaseResponse(d))
		}
		httpapi.WriteList(w, out, q.Filtered(), "diseases")
	}
}

// createDiseaseHandler godoc
// @Summary Registrar enfermedad
// @Description Cada vaca afectada queda con un registro de recuperación abierto.
// @Tags health
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createDiseaseRequest true "Enfermedad"
// @Success 201 {object} diseaseResponse
// @Router /diseases [post]
func createDiseaseHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseases, capabilities.ActionCreate)); !ok {
			return
		}
		var req createDiseaseRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		d, err := svc.CreateDisease(r.Context(), DiseaseInput{
			Name:           req.Name,
			PathogenID:     req.PathogenID,
			CategoryID:     req.CategoryID,
			OccurrenceDate: httpapi.TimePtr(req.OccurrenceDate),
			Notes:          req.Notes,
			CowIDs:         req.CowIDs,
			SymptomIDs:     req.SymptomIDs,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toDiseaseResponse(d))
	}
}

func getDiseaseHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseases, capabilities.ActionRead)); !ok {
			return
		}
		d, err := svc.GetDisease(r.Context(), chi.URLParam(r, "diseaseID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toDiseaseResponse(d))
	}
}

func updateDiseaseHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseases, capabilities.ActionUpdate)); !ok {
			return
		}
		var req updateDiseaseRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		d, err := svc.UpdateDisease(r.Context(), chi.URLParam(r, "diseaseID"), DiseaseUpdate{
			Name:           req.Name,
			PathogenID:     req.PathogenID,
			CategoryID:     req.CategoryID,
			OccurrenceDate: httpapi.TimePtr(req.OccurrenceDate),
			Notes:          req.Notes,
			CowIDs:         req.CowIDs,
			SymptomIDs:     req.SymptomIDs,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toDiseaseResponse(d))
	}
}

// -------------------------
// Recoveries
// -------------------------

func listRecoveriesHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceRecoveries, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := RecoveryFilter{CowID: q.String("cow_id"), DiseaseID: q.String("disease_id")}

		items, err := svc.ListRecoveries(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]recoveryResponse, 0, len(items))
		for _, x := range items {
			out = append(out, toRecoveryResponse(x))
		}
		httpapi.WriteList(w, out, q.Filtered(), "recoveries")
	}
}

func getRecoveryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceRecoveries, capabilities.ActionRead)); !ok {
			return
		}
		x, err := svc.GetRecovery(r.Context(), chi.URLParam(r, "recoveryID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toRecoveryResponse(x))
	}
}

// -------------------------
// Treatments
// -------------------------

func listTreatmentsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceTreatments, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := TreatmentFilter{
			CowID:     q.String("cow_id"),
			DiseaseID: q.String("disease_id"),
			Status:    TreatmentStatus(q.OneOf("treatment_status", toStrings(TreatmentStatuses)...)),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListTreatments(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTreatmentResponse(t))
		}
		httpapi.WriteList(w, out, q.Filtered(), "treatments")
	}
}

func createTreatmentHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceTreatments, capabilities.ActionCreate)); !ok {
			return
		}
		var req createTreatmentRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		t, err := svc.CreateTreatment(r.Context(), TreatmentInput{
			DiseaseID:      req.DiseaseID,
			CowID:          req.CowID,
			Method:         req.Method,
			Notes:          req.Notes,
			Status:         req.Status,
			CompletionDate: httpapi.TimePtr(req.CompletionDate),
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toTreatmentResponse(t))
	}
}

func getTreatmentHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceTreatments, capabilities.ActionRead)); !ok {
			return
		}
		t, err := svc.GetTreatment(r.Context(), chi.URLParam(r, "treatmentID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toTreatmentResponse(t))
	}
}

func updateTreatmentHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceTreatments, capabilities.ActionUpdate)); !ok {
			return
		}
		var req updateTreatmentRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		t, err := svc.UpdateTreatment(r.Context(), chi.URLParam(r, "treatmentID"), TreatmentUpdate{
			Method:         req.Method,
			Notes:          req.Notes,
			Status:         req.Status,
			CompletionDate: httpapi.TimePtr(req.CompletionDate),
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toTreatmentResponse(t))
	}
}

func toDiseaseResponse(d Disease) diseaseResponse {
	return diseaseResponse{
		ID:             d.ID,
		Name:           d.Name,
		PathogenID:     d.PathogenID,
		CategoryID:     d.CategoryID,
		DateReported:   httpapi.DateOf(d.DateReported),
		OccurrenceDate: httpapi.DateOf(d.OccurrenceDate),
		Notes:          d.Notes,
		CowIDs:         nonNil(d.CowIDs),
		SymptomIDs:     nonNil(d.SymptomIDs),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toRecoveryResponse(x Recovery) recoveryResponse {
	return recoveryResponse{
		ID:            x.ID,
		CowID:         x.CowID,
		DiseaseID:     x.DiseaseID,
		DiagnosisDate: httpapi.DateOf(x.DiagnosisDate),
		RecoveryDate:  httpapi.DatePtr(x.RecoveryDate),
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:              t.ID,
		DiseaseID:       t.DiseaseID,
		CowID:           t.CowID,
		DateOfTreatment: httpapi.DateOf(t.DateOfTreatment),
		Method:          t.Method,
		Notes:           t.Notes,
		Status:          t.Status,
		CompletionDate:  httpapi.DatePtr(t.CompletionDate),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
