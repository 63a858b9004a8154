package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/cows/{cowID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cows/"+id, nil))
	}

	got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/cows/{cowID}", "204"))
	assert.Equal(t, float64(3), got)
}

func TestSetCowCounts(t *testing.T) {
	m := New()
	m.SetCowCounts(CowCounts{Alive: 4, Male: 1, Female: 3, Sold: 2, Dead: 1})

	assert.Equal(t, float64(4), testutil.ToFloat64(m.Cows.WithLabelValues("alive")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Cows.WithLabelValues("sold")))
}
