package controllers

import (
	"errors"
	"time"

	"proxpeek/models"
	"proxpeek/proxmox"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports request outcomes and the guest count. A nil *Metrics
// records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.SummaryVec
	guests   *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proxpeek",
			Subsystem: "proxmox",
			Name:      "requests_total",
			Help:      "Proxmox API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: "proxpeek",
			Subsystem: "proxmox",
			Name:      "request_duration_seconds",
			Help:      "Proxmox API call latency.",
		}, []string{"operation"}),
		guests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "proxpeek",
			Name:      "guests",
			Help:      "Guests in the last fetched list by type and status.",
		}, []string{"type", "status"}),
	}
	reg.MustRegister(m.requests, m.duration, m.guests)
	return m
}

// outcome maps an error to a short label value.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, proxmox.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, proxmox.ErrNetwork):
		return "network"
	case errors.Is(err, proxmox.ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, proxmox.ErrNoData):
		return "no_data"
	case errors.Is(err, proxmox.ErrDecoding):
		return "decoding"
	}
	return "other"
}

func (m *Metrics) observe(op proxmox.Op, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(op), outcome(err)).Inc()
	m.duration.WithLabelValues(string(op)).Observe(d.Seconds())
}

func (m *Metrics) setGuests(vms []models.VM) {
	if m == nil {
		return
	}
	m.guests.Reset()
	for _, vm := range vms {
		m.guests.WithLabelValues(string(vm.Type), vm.Status).Inc()
	}
}
