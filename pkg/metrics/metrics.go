package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plataforma"

// Registry holds every metric exported by the services.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

var (
	// EventosPublicados counts publish attempts on the topic by tipo and result.
	EventosPublicados = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eventos_publicados_total",
			Help:      "Eventos publicados no tópico por tipo e resultado",
		},
		[]string{"tipo", "resultado"},
	)

	// MensagensProcessadas counts settled deliveries by subscription and outcome.
	MensagensProcessadas = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mensagens_processadas_total",
			Help:      "Mensagens liquidadas por assinatura e desfecho (complete/abandon)",
		},
		[]string{"subscription", "outcome"},
	)

	// FalhasTransporte counts receive-loop failures reported by a topic.
	FalhasTransporte = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "falhas_transporte_total",
			Help:      "Falhas de transporte reportadas pelas assinaturas do tópico",
		},
		[]string{"topic"},
	)

	// ServicosRegistrados counts rows written by the pipeline consumer.
	ServicosRegistrados = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "servicos_registrados_total",
			Help:      "Serviços gravados a partir do tópico",
		},
	)

	// EmailsEnviados counts notification attempts by result.
	EmailsEnviados = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_enviados_total",
			Help:      "Notificações por e-mail por resultado",
		},
		[]string{"resultado"},
	)

	HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requisições HTTP",
		},
		[]string{"servico", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latência das requisições HTTP em segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"servico", "method", "path"},
	)
)

// Middleware records request count and latency per matched route.
func Middleware(servico string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		HTTPRequestsTotal.WithLabelValues(servico, c.Method(), path, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(servico, c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
