package health

import (
	"net/http"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

type pathogenRequest struct {
	Name PathogenName `json:"name" validate:"required,oneof=Bacteria Virus Fungi Unknown"`
}

type pathogenResponse struct {
	ID        string       `json:"id"`
	Name      PathogenName `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

type categoryRequest struct {
	Name CategoryName `json:"name" validate:"required,oneof=Nutrition Infectious Physiological Genetic"`
}

type categoryResponse struct {
	ID        string       `json:"id"`
	Name      CategoryName `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

type createSymptomRequest struct {
	Name         string        `json:"name" validate:"required,max=50,alphaspace"`
	Type         SymptomType   `json:"symptom_type" validate:"required"`
	Description  string        `json:"description"`
	Severity     Severity      `json:"severity" validate:"required,oneof=Mild Moderate Severe"`
	Location     Location      `json:"location" validate:"required"`
	DateObserved *httpapi.Date `json:"date_observed"`
}

type updateSymptomRequest struct {
	Name         *string       `json:"name" validate:"omitempty,max=50,alphaspace"`
	Type         *SymptomType  `json:"symptom_type"`
	Description  *string       `json:"description"`
	Severity     *Severity     `json:"severity" validate:"omitempty,oneof=Mild Moderate Severe"`
	Location     *Location     `json:"location"`
	DateObserved *httpapi.Date `json:"date_observed"`
}

type symptomResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         SymptomType  `json:"symptom_type"`
	Description  string       `json:"description"`
	Severity     Severity     `json:"severity"`
	Location     Location     `json:"location"`
	DateObserved httpapi.Date `json:"date_observed"`
	CreatedAt    time.Time    `json:"created_at"`
}

// -------------------------
// Pathogens
// -------------------------

func listPathogensHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePathogens, capabilities.ActionRead)); !ok {
			return
		}
		items, err := svc.ListPathogens(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]pathogenResponse, 0, len(items))
		for _, p := range items {
			out = append(out, pathogenResponse(p))
		}
		httpapi.WriteList(w, out, false, "pathogens")
	}
}

func createPathogenHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePathogens, capabilities.ActionCreate)); !ok {
			return
		}
		var req pathogenRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		p, err := svc.CreatePathogen(r.Context(), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, pathogenResponse(p))
	}
}

func getPathogenHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePathogens, capabilities.ActionRead)); !ok {
			return
		}
		p, err := svc.GetPathogen(r.Context(), chi.URLParam(r, "pathogenID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, pathogenResponse(p))
	}
}

func updatePathogenHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePathogens, capabilities.ActionUpdate)); !ok {
			return
		}
		var req pathogenRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		p, err := svc.UpdatePathogen(r.Context(), chi.URLParam(r, "pathogenID"), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, pathogenResponse(p))
	}
}

// -------------------------
// Disease categories
// -------------------------

func listCategoriesHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseaseCategories, capabilities.ActionRead)); !ok {
			return
		}
		items, err := svc.ListCategories(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]categoryResponse, 0, len(items))
		for _, c := range items {
			out = append(out, categoryResponse(c))
		}
		httpapi.WriteList(w, out, false, "disease categories")
	}
}

func createCategoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseaseCategories, capabilities.ActionCreate)); !ok {
			return
		}
		var req categoryRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		c, err := svc.CreateCategory(r.Context(), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, categoryResponse(c))
	}
}

func getCategoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseaseCategories, capabilities.ActionRead)); !ok {
			return
		}
		c, err := svc.GetCategory(r.Context(), chi.URLParam(r, "categoryID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, categoryResponse(c))
	}
}

func updateCategoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceDiseaseCategories, capabilities.ActionUpdate)); !ok {
			return
		}
		var req categoryRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		c, err := svc.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, categoryResponse(c))
	}
}

// -------------------------
// Symptoms
// -------------------------

func listSymptomsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceSymptoms, capabilities.ActionRead)); !ok {
			return
		}
		items, err := svc.ListSymptoms(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]symptomResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSymptomResponse(s))
		}
		httpapi.WriteList(w, out, false, "symptoms")
	}
}

func createSymptomHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceSymptoms, capabilities.ActionCreate)); !ok {
			return
		}
		var req createSymptomRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		s, err := svc.CreateSymptom(r.Context(), SymptomInput{
			Name:         req.Name,
			Type:         req.Type,
			Description:  req.Description,
			Severity:     req.Severity,
			Location:     req.Location,
			DateObserved: httpapi.TimePtr(req.DateObserved),
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toSymptomResponse(s))
	}
}

func getSymptomHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceSymptoms, capabilities.ActionRead)); !ok {
			return
		}
		s, err := svc.GetSymptom(r.Context(), chi.URLParam(r, "symptomID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toSymptomResponse(s))
	}
}

func updateSymptomHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceSymptoms, capabilities.ActionUpdate)); !ok {
			return
		}
		var req updateSymptomRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		s, err := svc.UpdateSymptom(r.Context(), chi.URLParam(r, "symptomID"), SymptomUpdate{
			Name:         req.Name,
			Type:         req.Type,
			Description:  req.Description,
			Severity:     req.Severity,
			Location:     req.Location,
			DateObserved: httpapi.TimePtr(req.DateObserved),
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toSymptomResponse(s))
	}
}

func toSymptomResponse(s Symptom) symptomResponse {
	return symptomResponse{
		ID:           s.ID,
		Name:         s.Name,
		Type:         s.Type,
		Description:  s.Description,
		Severity:     s.Severity,
		Location:     s.Location,
		DateObserved: httpapi.DateOf(s.DateObserved),
		CreatedAt:    s.CreatedAt,
	}
}
