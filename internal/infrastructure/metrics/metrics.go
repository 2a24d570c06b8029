// Package metrics métricas Prometheus de la API, de la cola de tareas y de las llamadas al LLM.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/slick-api/internal/application/jobs"
)

var _ jobs.Observer = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registry propio (no el global) para poder
// instanciarlo en tests sin colisiones.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	tasks        *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	aiCalls      *prometheus.CounterVec
	aiDuration   *prometheus.HistogramVec
}

// New registra los colectores con el prefijo dado (ej. "slick").
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_tasks_processed_total",
			Help: "Background tasks processed by kind and outcome",
		}, []string{"kind", "outcome"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_task_duration_seconds",
			Help:    "Duration of background tasks in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"kind"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_ai_calls_total",
			Help: "LLM calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_ai_call_duration_seconds",
			Help:    "Duration of LLM calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"operation"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.tasks, m.taskDuration, m.aiCalls, m.aiDuration,
	)
	return m
}

// Registry expone el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler endpoint /metrics para fiber.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware cuenta peticiones y latencia. Usa la ruta registrada (":id") y no la URL
// concreta para no disparar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" || (path == "/" && c.Path() != "/") {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// TaskProcessed implementa jobs.Observer.
func (m *Metrics) TaskProcessed(kind, outcome string, elapsed time.Duration) {
	m.tasks.WithLabelValues(kind, outcome).Inc()
	m.taskDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) observeAI(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.aiCalls.WithLabelValues(operation, outcome).Inc()
	m.aiDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
