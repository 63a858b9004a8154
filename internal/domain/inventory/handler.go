package inventory

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	readOnly := httpapi.MethodNotAllowed("the cow inventory is computed and cannot be modified")

	r.Route("/cow-inventory", func(cr chi.Router) {
		cr.Get("/", getCowInventoryHandler(svc, caps))
		cr.Post("/", readOnly)
		cr.Put("/", readOnly)
		cr.Patch("/", readOnly)
		cr.Delete("/", readOnly)
		cr.Get("/history", listHistoryHandler(svc, caps))
	})

	r.Route("/milk-inventory", func(mr chi.Router) {
		mr.Get("/", getMilkInventoryHandler(svc, caps))
		mr.Get("/cows/{cowID}", getCowMilkHandler(svc, caps))
	})

	r.Get("/inventory/export", exportHandler(svc, caps))
}

func readCap() capabilities.Capability {
	return capabilities.For(capabilities.ResourceInventory, capabilities.ActionRead)
}

type cowInventoryResponse struct {
	TotalNumberOfCows  int       `json:"total_number_of_cows"`
	NumberOfMaleCows   int       `json:"number_of_male_cows"`
	NumberOfFemaleCows int       `json:"number_of_female_cows"`
	NumberOfSoldCows   int       `json:"number_of_sold_cows"`
	NumberOfDeadCows   int       `json:"number_of_dead_cows"`
	LastUpdate         time.Time `json:"last_update"`
}

type historyResponse struct {
	ID           string    `json:"id"`
	NumberOfCows int       `json:"number_of_cows"`
	DateUpdated  time.Time `json:"date_updated"`
}

type cowMilkResponse struct {
	CowID           string        `json:"cow_id"`
	CowName         string        `json:"cow_name"`
	TotalKgs        float64       `json:"total_kgs"`
	Records         int           `json:"records"`
	LastMilkingDate *httpapi.Date `json:"last_milking_date"`
}

type milkInventoryResponse struct {
	TotalMilkKgs    float64           `json:"total_milk_kgs"`
	NumberOfRecords int               `json:"number_of_records"`
	LastUpdate      *time.Time        `json:"last_update"`
	Cows            []cowMilkResponse `json:"cows"`
}

// getCowInventoryHandler godoc
// @Summary Inventario de vacas
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cowInventoryResponse
// @Router /cow-inventory [get]
func getCowInventoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, readCap()); !ok {
			return
		}

		inv, err := svc.CowInventory(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, cowInventoryResponse{
			TotalNumberOfCows:  inv.TotalAlive,
			NumberOfMaleCows:   inv.Male,
			NumberOfFemaleCows: inv.Female,
			NumberOfSoldCows:   inv.Sold,
			NumberOfDeadCows:   inv.Dead,
			LastUpdate:         inv.LastUpdate,
		})
	}
}

func listHistoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, readCap()); !ok {
			return
		}

		q := httpapi.NewQuery(r)
		f := HistoryFilter{Year: q.Year(), Month: q.Month()}
		if err := q.Err(); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		items, err := svc.History(r.Context(), f)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := make([]historyResponse, 0, len(items))
		for _, h := range items {
			out = append(out, historyResponse(h))
		}
		httpapi.WriteList(w, out, q.Filtered(), "cow inventory updates")
	}
}

func getMilkInventoryHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, readCap()); !ok {
			return
		}

		inv, err := svc.MilkInventory(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		out := milkInventoryResponse{
			TotalMilkKgs:    inv.TotalKgs,
			NumberOfRecords: inv.Records,
			LastUpdate:      inv.LastUpdate,
			Cows:            make([]cowMilkResponse, 0, len(inv.Cows)),
		}
		for _, c := range inv.Cows {
			out.Cows = append(out.Cows, toCowMilkResponse(c))
		}
		httpapi.WriteJSON(w, http.StatusOK, out)
	}
}

func getCowMilkHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, readCap()); !ok {
			return
		}

		c, err := svc.CowMilk(r.Context(), chi.URLParam(r, "cowID"))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, toCowMilkResponse(c))
	}
}

// exportHandler godoc
// @Summary Exportar inventario
// @Description Planilla xlsx con las hojas Cows, History y Milk.
// @Tags inventory
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /inventory/export [get]
func exportHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, readCap()); !ok {
			return
		}

		// Se arma en memoria para poder responder JSON si algo falla.
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), &buf); err != nil {
			httpapi.WriteError(w, err)
			return
		}

		name := "inventory-" + svc.now().UTC().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func toCowMilkResponse(c CowMilk) cowMilkResponse {
	return cowMilkResponse{
		CowID:           c.CowID,
		CowName:         c.CowName,
		TotalKgs:        c.TotalKgs,
		Records:         c.Records,
		LastMilkingDate: httpapi.DatePtr(c.LastMilkingDate),
	}
}
