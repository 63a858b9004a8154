// Package metrics expone métricas Prometheus del API y del inventario.
//
// Cada router crea su propio registry para que los tests puedan levantar
// varios servidores en el mismo proceso.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dairy"

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Cows se etiqueta por status: alive, male, female, sold, dead.
	Cows         *prometheus.GaugeVec
	MilkTotalKgs prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Cows: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cows",
			Help:      "Cows in the farm inventory by status.",
		}, []string{"status"}),
		MilkTotalKgs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "milk_total_kgs",
			Help:      "Total milk recorded, in kilograms.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware usa el route pattern de chi para no explotar la cardinalidad con ids.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// CowCounts es lo que el inventario publica tras cada recálculo.
type CowCounts struct {
	Alive, Male, Female, Sold, Dead int
}

func (m *Metrics) SetCowCounts(c CowCounts) {
	m.Cows.WithLabelValues("alive").Set(float64(c.Alive))
	m.Cows.WithLabelValues("male").Set(float64(c.Male))
	m.Cows.WithLabelValues("female").Set(float64(c.Female))
	m.Cows.WithLabelValues("sold").Set(float64(c.Sold))
	m.Cows.WithLabelValues("dead").Set(float64(c.Dead))
}

func (m *Metrics) SetMilkTotal(kgs float64) {
	m.MilkTotalKgs.Set(kgs)
}
