package health

import (
	"net/http"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

type createWeightRequest struct {
	CowID       string  `json:"cow_id" validate:"required"`
	WeightInKgs float64 `json:"weight_in_kgs" validate:"required,gte=10,lte=1500"`
}

type updateWeightRequest struct {
	WeightInKgs float64 `json:"weight_in_kgs" validate:"required,gte=10,lte=1500"`
}

type weightResponse struct {
	ID          string       `json:"id"`
	CowID       string       `json:"cow_id"`
	WeightInKgs float64      `json:"weight_in_kgs"`
	DateTaken   httpapi.Date `json:"date_taken"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type createCullingRequest struct {
	CowID  string        `json:"cow_id" validate:"required"`
	Reason CullingReason `json:"reason" validate:"required"`
	Notes  string        `json:"notes" validate:"max=100"`
}

type cullingResponse struct {
	ID          string        `json:"id"`
	CowID       string        `json:"cow_id"`
	Reason      CullingReason `json:"reason"`
	Notes       string        `json:"notes"`
	DateCarried httpapi.Date  `json:"date_carried"`
	CreatedAt   time.Time     `json:"created_at"`
}

type createQuarantineRequest struct {
	CowID     string           `json:"cow_id" validate:"required"`
	Reason    QuarantineReason `json:"reason" validate:"required,oneof='Sick Cow' 'Bought Cow' 'New Cow' 'Calving'"`
	StartDate *httpapi.Date    `json:"start_date"`
	EndDate   *httpapi.Date    `json:"end_date"`
	Notes     string           `json:"notes" validate:"max=100"`
}

type updateQuarantineRequest struct {
	Reason    *QuarantineReason `json:"reason" validate:"omitempty,oneof='Sick Cow' 'Bought Cow' 'New Cow' 'Calving'"`
	StartDate *httpapi.Date     `json:"start_date"`
	EndDate   *httpapi.Date     `json:"end_date"`
	Notes     *string           `json:"notes" validate:"omitempty,max=100"`
}

type quarantineResponse struct {
	ID        string           `json:"id"`
	CowID     string           `json:"cow_id"`
	Reason    QuarantineReason `json:"reason"`
	StartDate httpapi.Date     `json:"start_date"`
	EndDate   *httpapi.Date    `json:"end_date"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// -------------------------
// Weight records
// -------------------------

func listWeightsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceWeights, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := WeightFilter{CowID: q.String("cow_id"), Year: q.Year(), Month: q.Month(), Day: q.Day()}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListWeights(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]weightResponse, 0, len(items))
		for _, x := range items {
			out = append(out, toWeightResponse(x))
		}
		httpapi.WriteList(w, out, q.Filtered(), "weight records")
	}
}

// createWeightHandler godoc
// @Summary Registrar peso
// @Description Un registro por vaca y día; la vaca debe estar viva en la granja.
// @Tags health
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createWeightRequest true "Peso"
// @Success 201 {object} weightResponse
// @Failure 409 {object} map[string]string "ya existe un registro hoy"
// @Router /weight-records [post]
func createWeightHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceWeights, capabilities.ActionCreate)); !ok {
			return
		}

		var req createWeightRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		rec, err := svc.CreateWeight(r.Context(), req.CowID, req.WeightInKgs)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toWeightResponse(rec))
	}
}

func getWeightHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceWeights, capabilities.ActionRead)); !ok {
			return
		}
		rec, err := svc.GetWeight(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toWeightResponse(rec))
	}
}

func updateWeightHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceWeights, capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateWeightRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		rec, err := svc.UpdateWeight(r.Context(), chi.URLParam(r, "recordID"), req.WeightInKgs)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toWeightResponse(rec))
	}
}

// -------------------------
// Culling records
// -------------------------

func listCullingsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceCullings, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := CullingFilter{
			CowID:  q.String("cow_id"),
			Reason: CullingReason(q.OneOf("reason", toStrings(CullingReasons)...)),
			Year:   q.Year(),
			Month:  q.Month(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListCullings(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]cullingResponse, 0, len(items))
		for _, x := range items {
			out = append(out, toCullingResponse(x))
		}
		httpapi.WriteList(w, out, q.Filtered(), "culling records")
	}
}

// createCullingHandler godoc
// @Summary Registrar descarte
// @Description Deja la vaca con estado de producción Culled. No admite update.
// @Tags health
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createCullingRequest true "Descarte"
// @Success 201 {object} cullingResponse
// @Router /culling-records [post]
func createCullingHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceCullings, capabilities.ActionCreate)); !ok {
			return
		}

		var req createCullingRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		rec, err := svc.CreateCulling(r.Context(), CullingInput{CowID: req.CowID, Reason: req.Reason, Notes: req.Notes})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toCullingResponse(rec))
	}
}

func getCullingHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceCullings, capabilities.ActionRead)); !ok {
			return
		}
		rec, err := svc.GetCulling(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toCullingResponse(rec))
	}
}

// -------------------------
// Quarantine records
// -------------------------

func listQuarantinesHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceQuarantines, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := QuarantineFilter{
			CowID:  q.String("cow_id"),
			Reason: QuarantineReason(q.OneOf("reason", toStrings(QuarantineReasons)...)),
			Year:   q.Year(),
			Month:  q.Month(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListQuarantines(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]quarantineResponse, 0, len(items))
		for _, x := range items {
			out = append(out, toQuarantineResponse(x))
		}
		httpapi.WriteList(w, out, q.Filtered(), "quarantine records")
	}
}

func createQuarantineHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceQuarantines, capabilities.ActionCreate)); !ok {
			return
		}

		var req createQuarantineRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		rec, err := svc.CreateQuarantine(r.Context(), QuarantineInput{
			CowID:     req.CowID,
			Reason:    req.Reason,
			StartDate: httpapi.TimePtr(req.StartDate),
			EndDate:   httpapi.TimePtr(req.EndDate),
			Notes:     req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toQuarantineResponse(rec))
	}
}

func getQuarantineHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceQuarantines, capabilities.ActionRead)); !ok {
			return
		}
		rec, err := svc.GetQuarantine(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toQuarantineResponse(rec))
	}
}

func updateQuarantineHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceQuarantines, capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateQuarantineRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		rec, err := svc.UpdateQuarantine(r.Context(), chi.URLParam(r, "recordID"), QuarantineUpdate{
			Reason:    req.Reason,
			StartDate: httpapi.TimePtr(req.StartDate),
			EndDate:   httpapi.TimePtr(req.EndDate),
			Notes:     req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toQuarantineResponse(rec))
	}
}

func toWeightResponse(x WeightRecord) weightResponse {
	return weightResponse{
		ID:          x.ID,
		CowID:       x.CowID,
		WeightInKgs: x.WeightInKgs,
		DateTaken:   httpapi.DateOf(x.DateTaken),
		CreatedAt:   x.CreatedAt,
		UpdatedAt:   x.UpdatedAt,
	}
}

func toCullingResponse(x CullingRecord) cullingResponse {
	return cullingResponse{
		ID:          x.ID,
		CowID:       x.CowID,
		Reason:      x.Reason,
		Notes:       x.Notes,
		DateCarried: httpapi.DateOf(x.DateCarried),
		CreatedAt:   x.CreatedAt,
	}
}

func toQuarantineResponse(x QuarantineRecord) quarantineResponse {
	return quarantineResponse{
		ID:        x.ID,
		CowID:     x.CowID,
		Reason:    x.Reason,
		StartDate: httpapi.DateOf(x.StartDate),
		EndDate:   httpapi.DatePtr(x.EndDate),
		Notes:     x.Notes,
		CreatedAt: x.CreatedAt,
		UpdatedAt: x.UpdatedAt,
	}
}

func toStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
