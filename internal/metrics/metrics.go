// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus request metrics at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP request collectors.
type Metrics struct {
	registry *prometheus.Registry

	reqTotal    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	wsClients   prometheus.Gauge
}

// New creates and registers the collectors on a private registry so
// tests can build multiple instances.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campana",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by method and status",
	}, []string{"method", "status"})
	m.reqDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campana",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
	m.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "campana",
		Name:      "http_requests_in_flight",
		Help:      "Number of HTTP requests currently being served",
	})
	m.wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "campana",
		Name:      "websocket_clients",
		Help:      "Number of connected change-feed clients",
	})

	m.registry.MustRegister(
		m.reqTotal, m.reqDuration, m.inFlight, m.wsClients,
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetWebsocketClients records the current change-feed client count.
func (m *Metrics) SetWebsocketClients(n int) {
	m.wsClients.Set(float64(n))
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.status = http.StatusOK
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}

// Middleware counts requests and observes latency.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.reqTotal.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
			m.reqDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
