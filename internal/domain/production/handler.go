package production

import (
	"net/http"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	r.Route("/lactations", func(lr chi.Router) {
		lr.Get("/", listLactationsHandler(svc, caps))
		lr.Post("/", createLactationHandler(svc, caps))
		lr.Get("/{lactationID}", getLactationHandler(svc, caps))
		lr.Patch("/{lactationID}", updateLactationHandler(svc, caps))
		lr.Delete("/{lactationID}", deleteLactationHandler(svc, caps))
	})

	r.Route("/milk-records", func(mr chi.Router) {
		mr.Get("/", listMilkHandler(svc, caps))
		mr.Post("/", createMilkHandler(svc, caps))
		mr.Get("/{milkID}", getMilkHandler(svc, caps))
		mr.Patch("/{milkID}", updateMilkHandler(svc, caps))
		mr.Delete("/{milkID}", deleteMilkHandler(svc, caps))
	})
}

func lactationCap(a string) capabilities.Capability {
	return capabilities.For(capabilities.ResourceLactations, a)
}

func milkCap(a string) capabilities.Capability {
	return capabilities.For(capabilities.ResourceMilk, a)
}

type createLactationRequest struct {
	CowID       string        `json:"cow_id" validate:"required"`
	StartDate   *httpapi.Date `json:"start_date"`
	PregnancyID string        `json:"pregnancy_id"`
}

type updateLactationRequest struct {
	StartDate   *httpapi.Date `json:"start_date"`
	EndDate     *httpapi.Date `json:"end_date"`
	PregnancyID *string       `json:"pregnancy_id"`
}

type lactationResponse struct {
	ID              string         `json:"id"`
	CowID           string         `json:"cow_id"`
	StartDate       httpapi.Date   `json:"start_date"`
	EndDate         *httpapi.Date  `json:"end_date"`
	LactationNumber int            `json:"lactation_number"`
	PregnancyID     string         `json:"pregnancy_id,omitempty"`
	DaysInLactation int            `json:"days_in_lactation"`
	Stage           LactationStage `json:"lactation_stage"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type createMilkRequest struct {
	CowID       string        `json:"cow_id" validate:"required"`
	MilkingDate *httpapi.Date `json:"milking_date"`
	Session     Session       `json:"session" validate:"omitempty,oneof=Morning Afternoon Evening"`
	AmountKgs   float64       `json:"amount_in_kgs" validate:"required,gt=0,lte=100"`
	Notes       string        `json:"notes" validate:"max=500"`
}

type updateMilkRequest struct {
	MilkingDate *httpapi.Date `json:"milking_date"`
	Session     *Session      `json:"session" validate:"omitempty,oneof=Morning Afternoon Evening"`
	AmountKgs   *float64      `json:"amount_in_kgs" validate:"omitempty,gt=0,lte=100"`
	Notes       *string       `json:"notes" validate:"omitempty,max=500"`
}

type milkResponse struct {
	ID          string       `json:"id"`
	CowID       string       `json:"cow_id"`
	LactationID string       `json:"lactation_id"`
	MilkingDate httpapi.Date `json:"milking_date"`
	Session     Session      `json:"session"`
	AmountKgs   float64      `json:"amount_in_kgs"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// -------------------------
// Lactations
// -------------------------

func listLactationsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, lactationCap(capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := LactationFilter{CowID: q.String("cow_id"), Open: q.Bool("open")}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListLactations(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		now := svc.now()
		out := make([]lactationResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLactationResponse(l, now))
		}
		httpapi.WriteList(w, out, q.Filtered(), "lactations")
	}
}

func createLactationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, lactationCap(capabilities.ActionCreate)); !ok {
			return
		}

		var req createLactationRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		l, err := svc.CreateLactation(r.Context(), LactationInput{
			CowID:       req.CowID,
			StartDate:   httpapi.TimePtr(req.StartDate),
			PregnancyID: req.PregnancyID,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toLactationResponse(l, svc.now()))
	}
}

func getLactationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, lactationCap(capabilities.ActionRead)); !ok {
			return
		}

		l, err := svc.GetLactation(r.Context(), chi.URLParam(r, "lactationID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toLactationResponse(l, svc.now()))
	}
}

func updateLactationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, lactationCap(capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateLactationRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		l, err := svc.UpdateLactation(r.Context(), chi.URLParam(r, "lactationID"), LactationUpdate{
			StartDate:   httpapi.TimePtr(req.StartDate),
			EndDate:     httpapi.TimePtr(req.EndDate),
			PregnancyID: req.PregnancyID,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toLactationResponse(l, svc.now()))
	}
}

func deleteLactationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, lactationCap(capabilities.ActionDelete)); !ok {
			return
		}

		if err := svc.DeleteLactation(r.Context(), chi.URLParam(r, "lactationID")); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// -------------------------
// Milk
// -------------------------

// listMilkHandler godoc
// @Summary Listar registros de leche
// @Tags production
// @Produce json
// @Security BearerAuth
// @Param cow_id query string false "Vaca"
// @Param lactation_id query string false "Lactancia"
// @Param year query int false "Año"
// @Param month query int false "Mes"
// @Param day query int false "Día"
// @Success 200 {array} milkResponse
// @Router /milk-records [get]
func listMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, milkCap(capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := MilkFilter{
			CowID:       q.String("cow_id"),
			LactationID: q.String("lactation_id"),
			Year:        q.Year(),
			Month:       q.Month(),
			Day:         q.Day(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListMilk(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		out := make([]milkResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMilkResponse(m))
		}
		httpapi.WriteList(w, out, q.Filtered(), "milk records")
	}
}

// createMilkHandler godoc
// @Summary Registrar ordeñe
// @Description Si la vaca no tiene lactancia abierta se abre una con fecha del ordeñe.
// @Tags production
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createMilkRequest true "Ordeñe"
// @Success 201 {object} milkResponse
// @Failure 400 {object} map[string]string "validación"
// @Failure 409 {object} map[string]string "sesión duplicada"
// @Router /milk-records [post]
func createMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, milkCap(capabilities.ActionCreate)); !ok {
			return
		}

		var req createMilkRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		m, err := svc.CreateMilk(r.Context(), MilkInput{
			CowID:       req.CowID,
			MilkingDate: httpapi.TimePtr(req.MilkingDate),
			Session:     req.Session,
			AmountKgs:   req.AmountKgs,
			Notes:       req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toMilkResponse(m))
	}
}

func getMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, milkCap(capabilities.ActionRead)); !ok {
			return
		}

		m, err := svc.GetMilk(r.Context(), chi.URLParam(r, "milkID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toMilkResponse(m))
	}
}

func updateMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, milkCap(capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateMilkRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		m, err := svc.UpdateMilk(r.Context(), chi.URLParam(r, "milkID"), MilkUpdate{
			MilkingDate: httpapi.TimePtr(req.MilkingDate),
			Session:     req.Session,
			AmountKgs:   req.AmountKgs,
			Notes:       req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toMilkResponse(m))
	}
}

func deleteMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, milkCap(capabilities.ActionDelete)); !ok {
			return
		}

		if err := svc.DeleteMilk(r.Context(), chi.URLParam(r, "milkID")); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toLactationResponse(l Lactation, now time.Time) lactationResponse {
	return lactationResponse{
		ID:              l.ID,
		CowID:           l.CowID,
		StartDate:       httpapi.DateOf(l.StartDate),
		EndDate:         httpapi.DatePtr(l.EndDate),
		LactationNumber: l.Number,
		PregnancyID:     l.PregnancyID,
		DaysInLactation: l.DaysInLactation(now),
		Stage:           l.Stage(now),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toMilkResponse(m Milk) milkResponse {
	return milkResponse{
		ID:          m.ID,
		CowID:       m.CowID,
		LactationID: m.LactationID,
		MilkingDate: httpapi.DateOf(m.MilkingDate),
		Session:     m.Session,
		AmountKgs:   m.AmountKgs,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
