package health

import (
	"context"
	"net/http"

	"dairy-farm-management/internal/platform/httpapi"
	"dairy-farm-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	r.Route("/weight-records", func(wr chi.Router) {
		wr.Get("/", listWeightsHandler(svc, caps))
		wr.Post("/", createWeightHandler(svc, caps))
		wr.Get("/{recordID}", getWeightHandler(svc, caps))
		wr.Put("/{recordID}", updateWeightHandler(svc, caps))
		wr.Patch("/{recordID}", updateWeightHandler(svc, caps))
		wr.Delete("/{recordID}", deleteHandler(caps, capabilities.ResourceWeights, svc.DeleteWeight))
	})

	r.Route("/culling-records", func(cr chi.Router) {
		cr.Get("/", listCullingsHandler(svc, caps))
		cr.Post("/", createCullingHandler(svc, caps))
		cr.Get("/{recordID}", getCullingHandler(svc, caps))
		cr.Put("/{recordID}", httpapi.MethodNotAllowed("culling records cannot be updated"))
		cr.Patch("/{recordID}", httpapi.MethodNotAllowed("culling records cannot be updated"))
		cr.Delete("/{recordID}", deleteHandler(caps, capabilities.ResourceCullings, svc.DeleteCulling))
	})

	r.Route("/quarantine-records", func(qr chi.Router) {
		qr.Get("/", listQuarantinesHandler(svc, caps))
		qr.Post("/", createQuarantineHandler(svc, caps))
		qr.Get("/{recordID}", getQuarantineHandler(svc, caps))
		qr.Patch("/{recordID}", updateQuarantineHandler(svc, caps))
		qr.Delete("/{recordID}", deleteHandler(caps, capabilities.ResourceQuarantines, svc.DeleteQuarantine))
	})

	r.Route("/pathogens", func(pr chi.Router) {
		pr.Get("/", listPathogensHandler(svc, caps))
		pr.Post("/", createPathogenHandler(svc, caps))
		pr.Get("/{pathogenID}", getPathogenHandler(svc, caps))
		pr.Put("/{pathogenID}", updatePathogenHandler(svc, caps))
		pr.Patch("/{pathogenID}", updatePathogenHandler(svc, caps))
		pr.Delete("/{pathogenID}", deleteHandler(caps, capabilities.ResourcePathogens, svc.DeletePathogen))
	})

	r.Route("/disease-categories", func(dr chi.Router) {
		dr.Get("/", listCategoriesHandler(svc, caps))
		dr.Post("/", createCategoryHandler(svc, caps))
		dr.Get("/{categoryID}", getCategoryHandler(svc, caps))
		dr.Put("/{categoryID}", updateCategoryHandler(svc, caps))
		dr.Patch("/{categoryID}", updateCategoryHandler(svc, caps))
		dr.Delete("/{categoryID}", deleteHandler(caps, capabilities.ResourceDiseaseCategories, svc.DeleteCategory))
	})

	r.Route("/symptoms", func(sr chi.Router) {
		sr.Get("/", listSymptomsHandler(svc, caps))
		sr.Post("/", createSymptomHandler(svc, caps))
		sr.Get("/{symptomID}", getSymptomHandler(svc, caps))
		sr.Patch("/{symptomID}", updateSymptomHandler(svc, caps))
		sr.Delete("/{symptomID}", deleteHandler(caps, capabilities.ResourceSymptoms, svc.DeleteSymptom))
	})

	r.Route("/diseases", func(dr chi.Router) {
		dr.Get("/", listDiseasesHandler(svc, caps))
		dr.Post("/", createDiseaseHandler(svc, caps))
		dr.Get("/{diseaseID}", getDiseaseHandler(svc, caps))
		dr.Patch("/{diseaseID}", updateDiseaseHandler(svc, caps))
		dr.Delete("/{diseaseID}", deleteHandler(caps, capabilities.ResourceDiseases, svc.DeleteDisease))
	})

	r.Route("/disease-recoveries", func(rr chi.Router) {
		rr.Get("/", listRecoveriesHandler(svc, caps))
		rr.Post("/", httpapi.MethodNotAllowed("recoveries are managed through diseases and treatments"))
		rr.Get("/{recoveryID}", getRecoveryHandler(svc, caps))
		rr.Put("/{recoveryID}", httpapi.MethodNotAllowed("recoveries are managed through diseases and treatments"))
		rr.Patch("/{recoveryID}", httpapi.MethodNotAllowed("recoveries are managed through diseases and treatments"))
		rr.Delete("/{recoveryID}", httpapi.MethodNotAllowed("recoveries are managed through diseases and treatments"))
	})

	r.Route("/disease-treatments", func(tr chi.Router) {
		tr.Get("/", listTreatmentsHandler(svc, caps))
		tr.Post("/", createTreatmentHandler(svc, caps))
		tr.Get("/{treatmentID}", getTreatmentHandler(svc, caps))
		tr.Patch("/{treatmentID}", updateTreatmentHandler(svc, caps))
		tr.Delete("/{treatmentID}", deleteHandler(caps, capabilities.ResourceTreatments, svc.DeleteTreatment))
	})
}

func can(resource, action string) capabilities.Capability {
	return capabilities.For(resource, action)
}

// deleteHandler: todos los DELETE del módulo toman el único URL param de la ruta.
func deleteHandler(caps capabilities.Resolver, resource string, del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httpapi.Authorize(w, r, caps, can(resource, capabilities.ActionDelete)); !ok {
			return
		}
		if err := del(r.Context(), lastURLParam(r)); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func lastURLParam(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Values) == 0 {
		return ""
	}
	return rctx.URLParams.Values[len(rctx.URLParams.Values)-1]
}
