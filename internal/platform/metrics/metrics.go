package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its own registry so several servers (and tests) can live in one process.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	issues          *prometheus.CounterVec
	issueDuration   prometheus.Histogram
	runs            *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "payroll",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "payslip_issue_total",
			Help:      "Payslip issuance attempts by outcome.",
		}, []string{"outcome"}),
		issueDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "payroll",
			Name:      "payslip_issue_duration_seconds",
			Help:      "Time spent issuing a payslip.",
			Buckets:   prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payroll",
			Name:      "payroll_runs_total",
			Help:      "Monthly payroll runs by status.",
		}, []string{"status"}),
	}
	c.registry.MustRegister(
		c.requests, c.requestDuration, c.rateLimited, c.issues, c.issueDuration, c.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

// ObserveIssue records one payslip issuance attempt.
func (c *Collector) ObserveIssue(outcome string, elapsed time.Duration) {
	c.issues.WithLabelValues(outcome).Inc()
	c.issueDuration.Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRun(status string) {
	c.runs.WithLabelValues(status).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
