package cows

import (
	"net/http"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	r.Route("/cow-breeds", func(br chi.Router) {
		br.Get("/", listBreedsHandler(svc, caps))
		br.Post("/", createBreedHandler(svc, caps))
		br.Get("/{breedID}", getBreedHandler(svc, caps))
		br.Put("/{breedID}", updateBreedHandler(svc, caps))
		br.Patch("/{breedID}", updateBreedHandler(svc, caps))
		br.Delete("/{breedID}", deleteBreedHandler(svc, caps))
	})

	r.Route("/cows", func(cr chi.Router) {
		cr.Get("/", listCowsHandler(svc, caps))
		cr.Post("/", createCowHandler(svc, caps))
		cr.Get("/{cowID}", getCowHandler(svc, caps))
		cr.Patch("/{cowID}", updateCowHandler(svc, caps))
		cr.Delete("/{cowID}", deleteCowHandler(svc, caps))
	})
}

func breedCap(a string) capabilities.Capability {
	return capabilities.For(capabilities.ResourceBreeds, a)
}

func cowCap(a string) capabilities.Capability {
	return capabilities.For(capabilities.ResourceCows, a)
}

type breedRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

type breedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type createCowRequest struct {
	TagNumber            string           `json:"tag_number" validate:"omitempty,max=20"`
	Name                 string           `json:"name" validate:"required,max=35"`
	BreedID              string           `json:"breed_id" validate:"required"`
	DateOfBirth          httpapi.Date     `json:"date_of_birth" validate:"required"`
	Gender               Sex              `json:"gender" validate:"required,oneof=Male Female"`
	Availability         Availability     `json:"availability_status"`
	PregnancyStatus      PregnancyStatus  `json:"current_pregnancy_status"`
	Category             Category         `json:"category" validate:"required"`
	ProductionStatus     ProductionStatus `json:"current_production_status"`
	DateOfDeath          *httpapi.Date    `json:"date_of_death"`
	IsBought             bool             `json:"is_bought"`
	DateIntroducedInFarm *httpapi.Date    `json:"date_introduced_in_farm"`
	SireID               string           `json:"sire_id"`
	DamID                string           `json:"dam_id"`
	Notes                string           `json:"notes"`
}

// Punteros para PATCH real: nil = no tocar.
type updateCowRequest struct {
	TagNumber            *string           `json:"tag_number" validate:"omitempty,max=20"`
	Name                 *string           `json:"name" validate:"omitempty,max=35"`
	BreedID              *string           `json:"breed_id"`
	DateOfBirth          *httpapi.Date     `json:"date_of_birth"`
	Gender               *Sex              `json:"gender" validate:"omitempty,oneof=Male Female"`
	Availability         *Availability     `json:"availability_status"`
	PregnancyStatus      *PregnancyStatus  `json:"current_pregnancy_status"`
	Category             *Category         `json:"category"`
	ProductionStatus     *ProductionStatus `json:"current_production_status"`
	DateOfDeath          *httpapi.Date     `json:"date_of_death"`
	IsBought             *bool             `json:"is_bought"`
	DateIntroducedInFarm *httpapi.Date     `json:"date_introduced_in_farm"`
	SireID               *string           `json:"sire_id"`
	DamID                *string           `json:"dam_id"`
	Notes                *string           `json:"notes"`
}

type cowResponse struct {
	ID                   string           `json:"id"`
	TagNumber            string           `json:"tag_number"`
	Name                 string           `json:"name"`
	BreedID              string           `json:"breed_id"`
	DateOfBirth          httpapi.Date     `json:"date_of_birth"`
	Gender               Sex              `json:"gender"`
	Availability         Availability     `json:"availability_status"`
	PregnancyStatus      PregnancyStatus  `json:"current_pregnancy_status"`
	Category             Category         `json:"category"`
	ProductionStatus     ProductionStatus `json:"current_production_status"`
	DateOfDeath          *httpapi.Date    `json:"date_of_death"`
	IsBought             bool             `json:"is_bought"`
	DateIntroducedInFarm httpapi.Date     `json:"date_introduced_in_farm"`
	SireID               string           `json:"sire_id,omitempty"`
	DamID                string           `json:"dam_id,omitempty"`
	Notes                string           `json:"notes"`
	Age                  string           `json:"age"`
	AgeInDays            int              `json:"age_in_days"`
	AgeInFarm            string           `json:"age_in_farm"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// -------------------------
// Breeds
// -------------------------

func listBreedsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, breedCap(capabilities.ActionRead)); !ok {
			return
		}

		items, err := svc.ListBreeds(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBreedResponse(b))
		}
		httpapi.WriteList(w, out, false, "cow breeds")
	}
}

// createBreedHandler godoc
// @Summary Crear raza
// @Tags cows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body breedRequest true "Raza"
// @Success 201 {object} breedResponse
// @Failure 409 {object} map[string]string "nombre duplicado"
// @Router /cow-breeds [post]
func createBreedHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, breedCap(capabilities.ActionCreate)); !ok {
			return
		}

		var req breedRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		b, err := svc.CreateBreed(r.Context(), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toBreedResponse(b))
	}
}

func getBreedHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, breedCap(capabilities.ActionRead)); !ok {
			return
		}

		b, err := svc.GetBreed(r.Context(), chi.URLParam(r, "breedID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

func updateBreedHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, breedCap(capabilities.ActionUpdate)); !ok {
			return
		}

		var req breedRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		b, err := svc.UpdateBreed(r.Context(), chi.URLParam(r, "breedID"), req.Name)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

func deleteBreedHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, breedCap(capabilities.ActionDelete)); !ok {
			return
		}

		if err := svc.DeleteBreed(r.Context(), chi.URLParam(r, "breedID")); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// -------------------------
// Cows
// -------------------------

// listCowsHandler godoc
// @Summary Listar vacas
// @Tags cows
// @Produce json
// @Security BearerAuth
// @Param breed_id query string false "Raza"
// @Param gender query string false "Male | Female"
// @Param availability_status query string false "Alive | Sold | Dead | Quarantined"
// @Param category query string false "Categoría"
// @Param year_of_birth query int false "Año de nacimiento"
// @Success 200 {array} cowResponse
// @Failure 404 {object} map[string]string "sin resultados con filtros"
// @Router /cows [get]
func listCowsHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, cowCap(capabilities.ActionRead)); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := ListFilter{
			BreedID:      q.String("breed_id"),
			Gender:       Sex(q.OneOf("gender", string(SexMale), string(SexFemale))),
			Availability: Availability(q.OneOf("availability_status", toStrings(Availabilities)...)),
			Category:     Category(q.OneOf("category", toStrings(Categories)...)),
			BirthYear:    q.Int("year_of_birth", 1900, 9999),
		}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}

		now := svc.now()
		out := make([]cowResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCowResponse(c, now))
		}
		httpapi.WriteList(w, out, q.Filtered(), "cows")
	}
}

// createCowHandler godoc
// @Summary Registrar vaca
// @Description Si no se envía tag_number se genera con las dos primeras letras de la raza.
// @Tags cows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createCowRequest true "Vaca"
// @Success 201 {object} cowResponse
// @Failure 400 {object} map[string]string "validación"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /cows [post]
func createCowHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, cowCap(capabilities.ActionCreate)); !ok {
			return
		}

		var req createCowRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			TagNumber:            req.TagNumber,
			Name:                 req.Name,
			BreedID:              req.BreedID,
			DateOfBirth:          req.DateOfBirth.Time,
			Gender:               req.Gender,
			Availability:         req.Availability,
			PregnancyStatus:      req.PregnancyStatus,
			Category:             req.Category,
			ProductionStatus:     req.ProductionStatus,
			DateOfDeath:          httpapi.TimePtr(req.DateOfDeath),
			IsBought:             req.IsBought,
			DateIntroducedInFarm: httpapi.TimePtr(req.DateIntroducedInFarm),
			SireID:               req.SireID,
			DamID:                req.DamID,
			Notes:                req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, toCowResponse(c, svc.now()))
	}
}

func getCowHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, cowCap(capabilities.ActionRead)); !ok {
			return
		}

		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "cowID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toCowResponse(c, svc.now()))
	}
}

func updateCowHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, cowCap(capabilities.ActionUpdate)); !ok {
			return
		}

		var req updateCowRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "cowID"), UpdateInput{
			TagNumber:            req.TagNumber,
			Name:                 req.Name,
			BreedID:              req.BreedID,
			DateOfBirth:          httpapi.TimePtr(req.DateOfBirth),
			Gender:               req.Gender,
			Availability:         req.Availability,
			PregnancyStatus:      req.PregnancyStatus,
			Category:             req.Category,
			ProductionStatus:     req.ProductionStatus,
			DateOfDeath:          httpapi.TimePtr(req.DateOfDeath),
			IsBought:             req.IsBought,
			DateIntroducedInFarm: httpapi.TimePtr(req.DateIntroducedInFarm),
			SireID:               req.SireID,
			DamID:                req.DamID,
			Notes:                req.Notes,
		})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toCowResponse(c, svc.now()))
	}
}

func deleteCowHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, cowCap(capabilities.ActionDelete)); !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "cowID")); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toBreedResponse(b Breed) breedResponse {
	return breedResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}

func toCowResponse(c Cow, now time.Time) cowResponse {
	return cowResponse{
		ID:                   c.ID,
		TagNumber:            c.TagNumber,
		Name:                 c.Name,
		BreedID:              c.BreedID,
		DateOfBirth:          httpapi.DateOf(c.DateOfBirth),
		Gender:               c.Gender,
		Availability:         c.Availability,
		PregnancyStatus:      c.PregnancyStatus,
		Category:             c.Category,
		ProductionStatus:     c.ProductionStatus,
		DateOfDeath:          httpapi.DatePtr(c.DateOfDeath),
		IsBought:             c.IsBought,
		DateIntroducedInFarm: httpapi.DateOf(c.DateIntroducedInFarm),
		SireID:               c.SireID,
		DamID:                c.DamID,
		Notes:                c.Notes,
		Age:                  c.Age(now),
		AgeInDays:            c.AgeInDays(now),
		AgeInFarm:            c.AgeInFarm(now),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func toStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
