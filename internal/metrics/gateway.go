package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics records live sessions and notification fan-out.
type GatewayMetrics struct {
	sessions  prometheus.Gauge
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	rejected  prometheus.Counter
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notify_sessions",
		Help: "Authenticated notification sessions currently connected.",
	})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_delivered_total",
		Help: "Event copies handed to live sessions.",
	}, []string{"event"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_dropped_total",
		Help: "Events addressed to users without any live session.",
	}, []string{"event"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_rejected_total",
		Help: "Connections refused because of a missing or invalid credential.",
	})
	reg.MustRegister(sessions, delivered, dropped, rejected)
	return &GatewayMetrics{sessions: sessions, delivered: delivered, dropped: dropped, rejected: rejected}
}

func (m *GatewayMetrics) SessionOpened() {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Inc()
}

func (m *GatewayMetrics) SessionClosed() {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Dec()
}

func (m *GatewayMetrics) Delivered(event string, copies int) {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.WithLabelValues(normalizeLabel(event)).Add(float64(copies))
}

func (m *GatewayMetrics) Dropped(event string) {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *GatewayMetrics) Rejected() {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.Inc()
}
