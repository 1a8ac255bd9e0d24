// Package metrics holds the Prometheus instruments shared across game-web.
// All collectors are registered with the global registry, so mounting
// promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vallheru/game-web/internal/config"
)

const namespace = "game_web"

// Config load outcomes.
const (
	ResultOK    = "ok"
	ResultRead  = "read_error"
	ResultParse = "parse_error"
	ResultShape = "shape_error"
)

var (
	ConfigLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_loads_total",
			Help:      "Configuration load attempts by result.",
		}, []string{"result"})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"})

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Requests currently holding a worker slot.",
		})

	HTTPRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rejected_total",
			Help:      "Requests abandoned while waiting for a worker slot.",
		})

	DBOpenErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_open_errors_total",
			Help:      "Cumulative number of failed database pool opens.",
		})
)

func init() {
	prometheus.MustRegister(
		ConfigLoadsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInFlight,
		HTTPRejectedTotal,
		DBOpenErrorsTotal,
	)
}

// ObserveConfigLoad counts one load attempt under the result label that
// matches err's kind.
func ObserveConfigLoad(err error) {
	ConfigLoadsTotal.WithLabelValues(configResult(err)).Inc()
}

func configResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, config.ErrRead):
		return ResultRead
	case errors.Is(err, config.ErrParse):
		return ResultParse
	default:
		return ResultShape
	}
}
