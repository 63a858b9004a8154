package reproduction

import (
	"context"
	"net/http"
	"time"

	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	r.Route("/inseminators", func(ir chi.Router) {
		ir.Get("/", listInseminatorsHandler(svc, caps))
		ir.Post("/", createInseminatorHandler(svc, caps))
		ir.Get("/{inseminatorID}", getInseminatorHandler(svc, caps))
		ir.Put("/{inseminatorID}", updateInseminatorHandler(svc, caps, false))
		ir.Patch("/{inseminatorID}", updateInseminatorHandler(svc, caps, true))
		ir.Delete("/{inseminatorID}", deleteHandler(caps, capabilities.ResourceInseminators, svc.DeleteInseminator))
	})

	r.Route("/heat-records", func(hr chi.Router) {
		hr.Get("/", listHeatsHandler(svc, caps))
		hr.Post("/", createHeatHandler(svc, caps))
		hr.Get("/{heatID}", getHeatHandler(svc, caps))
		hr.Put("/{heatID}", httpapi.MethodNotAllowed("heat records cannot be updated"))
		hr.Patch("/{heatID}", httpapi.MethodNotAllowed("heat records cannot be updated"))
		hr.Delete("/{heatID}", deleteHandler(caps, capabilities.ResourceHeats, svc.DeleteHeat))
	})

	r.Route("/insemination-records", func(ir chi.Router) {
		ir.Get("/", listInseminationsHandler(svc, caps))
		ir.Post("/", createInseminationHandler(svc, caps))
		ir.Get("/{inseminationID}", getInseminationHandler(svc, caps))
		ir.Patch("/{inseminationID}", updateInseminationHandler(svc, caps))
		ir.Delete("/{inseminationID}", deleteHandler(caps, capabilities.ResourceInseminations, svc.DeleteInsemination))
	})

	r.Route("/pregnancy-records", func(pr chi.Router) {
		pr.Get("/", listPregnanciesHandler(svc, caps))
		pr.Post("/", createPregnancyHandler(svc, caps))
		pr.Get("/{pregnancyID}", getPregnancyHandler(svc, caps))
		pr.Patch("/{pregnancyID}", updatePregnancyHandler(svc, caps))
		pr.Delete("/{pregnancyID}", deleteHandler(caps, capabilities.ResourcePregnancies, svc.DeletePregnancy))
	})
}

func can(resource, action string) capabilities.Capability {
	return capabilities.For(resource, action)
}

func deleteHandler(caps capabilities.Resolver, resource string, del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(resource, capabilities.ActionDelete)); !ok {
			return
		}
		rctx := chi.RouteContext(r.Context())
		id := ""
		if n := len(rctx.URLParams.Values); n > 0 {
			id = rctx.URLParams.Values[n-1]
		}
		if err := del(r.Context(), id); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// -------------------------
// Inseminators
// -------------------------

type inseminatorRequest struct {
	FirstName     *string   `json:"first_name" validate:"omitempty,max=15"`
	LastName      *string   `json:"last_name" validate:"omitempty,max=15"`
	PhoneNumber   *string   `json:"phone_number" validate:"omitempty,max=15"`
	Sex           *cows.Sex `json:"sex" validate:"omitempty,oneof=Male Female"`
	Company       *string   `json:"company" validate:"omitempty,max=50"`
	LicenseNumber *string   `json:"license_number" validate:"omitempty,max=25"`
	Notes         *string   `json:"notes"`
}

// merge aplica el request sobre base. En PUT (partial=false) los campos ausentes quedan vacíos.
func (req inseminatorRequest) merge(base InseminatorInput, partial bool) InseminatorInput {
	if !partial {
		base = InseminatorInput{}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.FirstName, req.FirstName)
	set(&base.LastName, req.LastName)
	set(&base.PhoneNumber, req.PhoneNumber)
	set(&base.Company, req.Company)
	set(&base.LicenseNumber, req.LicenseNumber)
	set(&base.Notes, req.Notes)
	if req.Sex != nil {
		base.Sex = *req.Sex
	}
	return base
}

type inseminatorResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PhoneNumber   string    `json:"phone_number"`
	Sex           cows.Sex  `json:"sex"`
	Company       string    `json:"company"`
	LicenseNumber string    `json:"license_number"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toInseminatorResponse(i Inseminator) inseminatorResponse {
	return inseminatorResponse{
		ID:            i.ID,
		FirstName:     i.FirstName,
		LastName:      i.LastName,
		PhoneNumber:   i.PhoneNumber,
		Sex:           i.Sex,
		Company:       i.Company,
		LicenseNumber: i.LicenseNumber,
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func listInseminatorsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminators, capabilities.ActionRead)); !ok {
			return
		}

		items, err := svc.ListInseminators(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]inseminatorResponse, 0, len(items))
		for _, i := range items {
			out = append(out, toInseminatorResponse(i))
		}
		httpapi.WriteList(w, out, false, "inseminators")
	}
}

// createInseminatorHandler godoc
// @Summary Crear inseminador
// @Tags reproduction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body inseminatorRequest true "Inseminador"
// @Success 201 {object} inseminatorResponse
// @Failure 409 {object} map[string]string "licencia duplicada"
// @Router /inseminators [post]
func createInseminatorHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminators, capabilities.ActionCreate)); !ok {
			return
		}

		var req inseminatorRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		i, err := svc.CreateInseminator(r.Context(), req.merge(InseminatorInput{}, false))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toInseminatorResponse(i))
	}
}

func getInseminatorHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminators, capabilities.ActionRead)); !ok {
			return
		}

		i, err := svc.GetInseminator(r.Context(), chi.URLParam(r, "inseminatorID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toInseminatorResponse(i))
	}
}

func updateInseminatorHandler(svc *Service, caps capabilities.Resolver, partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminators, capabilities.ActionUpdate)); !ok {
			return
		}

		var req inseminatorRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		id := chi.URLParam(r, "inseminatorID")
		cur, err := svc.GetInseminator(r.Context(), id)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		base := InseminatorInput{
			FirstName:     cur.FirstName,
			LastName:      cur.LastName,
			PhoneNumber:   cur.PhoneNumber,
			Sex:           cur.Sex,
			Company:       cur.Company,
			LicenseNumber: cur.LicenseNumber,
			Notes:         cur.Notes,
		}

		i, err := svc.UpdateInseminator(r.Context(), id, req.merge(base, partial))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toInseminatorResponse(i))
	}
}

// -------------------------
// Heats
// -------------------------

type createHeatRequest struct {
	CowID string `json:"cow_id" validate:"required"`
}

type heatResponse struct {
	ID              string    `json:"id"`
	CowID           string    `json:"cow_id"`
	ObservationTime time.Time `json:"observation_time"`
}

func toHeatResponse(h Heat) heatResponse {
	return heatResponse{ID: h.ID, CowID: h.CowID, ObservationTime: h.ObservationTime}
}

func listHeatsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceHeats, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := HeatFilter{CowID: q.String("cow_id"), Year: q.Year(), Month: q.Month()}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListHeats(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]heatResponse, 0, len(items))
		for _, h := range items {
			out = append(out, toHeatResponse(h))
		}
		httpapi.WriteList(w, out, q.Filtered(), "heat records")
	}
}

// createHeatHandler godoc
// @Summary Registrar celo
// @Description La hora de observación es la del servidor.
// @Tags reproduction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createHeatRequest true "Celo"
// @Success 201 {object} heatResponse
// @Failure 400 {object} map[string]string "validación"
// @Router /heat-records [post]
func createHeatHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceHeats, capabilities.ActionCreate)); !ok {
			return
		}

		var req createHeatRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		h, err := svc.CreateHeat(r.Context(), req.CowID)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toHeatResponse(h))
	}
}

func getHeatHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceHeats, capabilities.ActionRead)); !ok {
			return
		}

		h, err := svc.GetHeat(r.Context(), chi.URLParam(r, "heatID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toHeatResponse(h))
	}
}

// -------------------------
// Inseminations
// -------------------------

type createInseminationRequest struct {
	CowID         string        `json:"cow_id" validate:"required"`
	InseminatorID string        `json:"inseminator_id" validate:"required"`
	Date          *httpapi.Date `json:"date_of_insemination"`
	Success       bool          `json:"success"`
	Notes         string        `json:"notes" validate:"max=100"`
}

type updateInseminationRequest struct {
	InseminatorID *string       `json:"inseminator_id"`
	Date          *httpapi.Date `json:"date_of_insemination"`
	Success       *bool         `json:"success"`
	Notes         *string       `json:"notes" validate:"omitempty,max=100"`
}

type inseminationResponse struct {
	ID                    string       `json:"id"`
	CowID                 string       `json:"cow_id"`
	InseminatorID         string       `json:"inseminator_id"`
	Date                  httpapi.Date `json:"date_of_insemination"`
	Success               bool         `json:"success"`
	Notes                 string       `json:"notes"`
	PregnancyID           string       `json:"pregnancy_id,omitempty"`
	DaysSinceInsemination int          `json:"days_since_insemination"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func toInseminationResponse(i Insemination, now time.Time) inseminationResponse {
	return inseminationResponse{
		ID:                    i.ID,
		CowID:                 i.CowID,
		InseminatorID:         i.InseminatorID,
		Date:                  httpapi.DateOf(i.Date),
		Success:               i.Success,
		Notes:                 i.Notes,
		PregnancyID:           i.PregnancyID,
		DaysSinceInsemination: i.DaysSince(now),
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}

func listInseminationsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminations, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := InseminationFilter{
			CowID:         q.String("cow_id"),
			InseminatorID: q.String("inseminator_id"),
			Success:       q.Bool("success"),
			Year:          q.Year(),
			Month:         q.Month(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListInseminations(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		now := svc.now()
		out := make([]inseminationResponse, 0, len(items))
		for _, i := range items {
			out = append(out, toInseminationResponse(i, now))
		}
		httpapi.WriteList(w, out, q.Filtered(), "insemination records")
	}
}

// createInseminationHandler godoc
// @Summary Registrar inseminación
// @Description success=true abre una preñez que arranca en la fecha de inseminación.
// @Tags reproduction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createInseminationRequest true "Inseminación"
// @Success 201 {object} inseminationResponse
// @Failure 400 {object} map[string]string "validación"
// @Router /insemination-records [post]
func createInseminationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminations, capabilities.ActionCreate)); !ok {
			return
		}

		var req createInseminationRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		i, err := svc.CreateInsemination(r.Context(), InseminationInput{
			CowID:         req.CowID,
			InseminatorID: req.InseminatorID,
			Date:          httpapi.TimePtr(req.Date),
			Success:       req.Success,
			Notes:         req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toInseminationResponse(i, svc.now()))
	}
}

func getInseminationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminations, capabilities.ActionRead)); !ok {
			return
		}

		i, err := svc.GetInsemination(r.Context(), chi.URLParam(r, "inseminationID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toInseminationResponse(i, svc.now()))
	}
}

func updateInseminationHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourceInseminations, capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateInseminationRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		i, err := svc.UpdateInsemination(r.Context(), chi.URLParam(r, "inseminationID"), InseminationUpdate{
			InseminatorID: req.InseminatorID,
			Date:          httpapi.TimePtr(req.Date),
			Success:       req.Success,
			Notes:         req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toInseminationResponse(i, svc.now()))
	}
}

// -------------------------
// Pregnancies
// -------------------------

type createPregnancyRequest struct {
	CowID         string           `json:"cow_id" validate:"required"`
	StartDate     httpapi.Date     `json:"start_date" validate:"required"`
	DateOfCalving *httpapi.Date    `json:"date_of_calving"`
	Status        PregnancyStatus  `json:"pregnancy_status" validate:"omitempty,oneof=Unconfirmed Confirmed Failed"`
	Notes         string           `json:"pregnancy_notes" validate:"max=100"`
	CalvingNotes  string           `json:"calving_notes" validate:"max=100"`
	ScanDate      *httpapi.Date    `json:"pregnancy_scan_date"`
	FailedDate    *httpapi.Date    `json:"pregnancy_failed_date"`
	Outcome       PregnancyOutcome `json:"pregnancy_outcome" validate:"omitempty,oneof=Live Stillborn Miscarriage"`
}

type updatePregnancyRequest struct {
	StartDate     *httpapi.Date     `json:"start_date"`
	DateOfCalving *httpapi.Date     `json:"date_of_calving"`
	Status        *PregnancyStatus  `json:"pregnancy_status" validate:"omitempty,oneof=Unconfirmed Confirmed Failed"`
	Notes         *string           `json:"pregnancy_notes" validate:"omitempty,max=100"`
	CalvingNotes  *string           `json:"calving_notes" validate:"omitempty,max=100"`
	ScanDate      *httpapi.Date     `json:"pregnancy_scan_date"`
	FailedDate    *httpapi.Date     `json:"pregnancy_failed_date"`
	Outcome       *PregnancyOutcome `json:"pregnancy_outcome" validate:"omitempty,oneof=Live Stillborn Miscarriage"`
}

type pregnancyResponse struct {
	ID            string           `json:"id"`
	CowID         string           `json:"cow_id"`
	StartDate     httpapi.Date     `json:"start_date"`
	DateOfCalving *httpapi.Date    `json:"date_of_calving"`
	Status        PregnancyStatus  `json:"pregnancy_status"`
	Notes         string           `json:"pregnancy_notes"`
	CalvingNotes  string           `json:"calving_notes"`
	ScanDate      *httpapi.Date    `json:"pregnancy_scan_date"`
	FailedDate    *httpapi.Date    `json:"pregnancy_failed_date"`
	Outcome       PregnancyOutcome `json:"pregnancy_outcome,omitempty"`
	Duration      int              `json:"pregnancy_duration"`
	DueDate       httpapi.Date     `json:"due_date"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toPregnancyResponse(p Pregnancy, now time.Time) pregnancyResponse {
	return pregnancyResponse{
		ID:            p.ID,
		CowID:         p.CowID,
		StartDate:     httpapi.DateOf(p.StartDate),
		DateOfCalving: httpapi.DatePtr(p.DateOfCalving),
		Status:        p.Status,
		Notes:         p.Notes,
		CalvingNotes:  p.CalvingNotes,
		ScanDate:      httpapi.DatePtr(p.ScanDate),
		FailedDate:    httpapi.DatePtr(p.FailedDate),
		Outcome:       p.Outcome,
		Duration:      p.Duration(now),
		DueDate:       httpapi.DateOf(p.DueDate()),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// listPregnanciesHandler godoc
// @Summary Listar preñeces
// @Tags reproduction
// @Produce json
// @Security BearerAuth
// @Param cow_id query string false "Vaca"
// @Param pregnancy_status query string false "Unconfirmed, Confirmed, Failed"
// @Param pregnancy_outcome query string false "Live, Stillborn, Miscarriage"
// @Param year query int false "Año de inicio"
// @Param month query int false "Mes de inicio"
// @Success 200 {array} pregnancyResponse
// @Router /pregnancy-records [get]
func listPregnanciesHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePregnancies, capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := PregnancyFilter{
			CowID:   q.String("cow_id"),
			Status:  PregnancyStatus(q.OneOf("pregnancy_status", toStrings(PregnancyStatuses)...)),
			Outcome: PregnancyOutcome(q.OneOf("pregnancy_outcome", toStrings(PregnancyOutcomes)...)),
			Year:    q.Year(),
			Month:   q.Month(),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.ListPregnancies(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		now := svc.now()
		out := make([]pregnancyResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPregnancyResponse(p, now))
		}
		httpapi.WriteList(w, out, q.Filtered(), "pregnancy records")
	}
}

func createPregnancyHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePregnancies, capabilities.ActionCreate)); !ok {
			return
		}

		var req createPregnancyRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		p, err := svc.CreatePregnancy(r.Context(), PregnancyInput{
			CowID:         req.CowID,
			StartDate:     req.StartDate.Time,
			DateOfCalving: httpapi.TimePtr(req.DateOfCalving),
			Status:        req.Status,
			Notes:         req.Notes,
			CalvingNotes:  req.CalvingNotes,
			ScanDate:      httpapi.TimePtr(req.ScanDate),
			FailedDate:    httpapi.TimePtr(req.FailedDate),
			Outcome:       req.Outcome,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toPregnancyResponse(p, svc.now()))
	}
}

func getPregnancyHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePregnancies, capabilities.ActionRead)); !ok {
			return
		}

		p, err := svc.GetPregnancy(r.Context(), chi.URLParam(r, "pregnancyID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toPregnancyResponse(p, svc.now()))
	}
}

// updatePregnancyHandler godoc
// @Summary Actualizar preñez
// @Description Un parto (fecha + Live/Stillborn) marca la vaca Calved y abre la lactancia.
// @Tags reproduction
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pregnancyID path string true "ID"
// @Param payload body updatePregnancyRequest true "Cambios"
// @Success 200 {object} pregnancyResponse
// @Router /pregnancy-records/{pregnancyID} [patch]
func updatePregnancyHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(capabilities.ResourcePregnancies, capabilities.ActionUpdate)); !ok {
			return
		}

		var req updatePregnancyRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		p, err := svc.UpdatePregnancy(r.Context(), chi.URLParam(r, "pregnancyID"), PregnancyUpdate{
			StartDate:     httpapi.TimePtr(req.StartDate),
			DateOfCalving: httpapi.TimePtr(req.DateOfCalving),
			Status:        req.Status,
			Notes:         req.Notes,
			CalvingNotes:  req.CalvingNotes,
			ScanDate:      httpapi.TimePtr(req.ScanDate),
			FailedDate:    httpapi.TimePtr(req.FailedDate),
			Outcome:       req.Outcome,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toPregnancyResponse(p, svc.now()))
	}
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
