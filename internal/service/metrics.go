package service

import (
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/logsigner"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindSCT = "sct"
	kindSTH = "sth"
)

type Metrics struct {
	signs    *prometheus.CounterVec
	verifies *prometheus.CounterVec
}

// NewMetrics registers the signing counters on reg. Every verify result is
// pre-declared so dashboards see zero-valued series.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctlog",
			Name:      "sign_total",
			Help:      "Signing operations by object kind and result.",
		}, []string{"kind", "result"}),
		verifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctlog",
			Name:      "verify_total",
			Help:      "Verification operations by object kind and result.",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(m.signs, m.verifies)

	for _, kind := range []string{kindSCT, kindSTH} {
		m.verifies.WithLabelValues(kind, logsigner.ResultName(nil))
		for _, e := range logsigner.VerifyErrors() {
			m.verifies.WithLabelValues(kind, e.String())
		}
	}
	return m
}

func (m *Metrics) observeSign(kind string, err error) {
	if m == nil {
		return
	}
	m.signs.WithLabelValues(kind, logsigner.ResultName(err)).Inc()
}

func (m *Metrics) observeVerify(kind string, err error) {
	if m == nil {
		return
	}
	m.verifies.WithLabelValues(kind, logsigner.ResultName(err)).Inc()
}
