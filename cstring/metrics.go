package cstring

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports lifecycle events to Prometheus.
type Metrics struct {
	Created   prometheus.Counter
	Used      prometheus.Counter
	Destroyed prometheus.Counter
	Live      prometheus.Gauge
}

// NewMetrics registers the collectors on reg. Collectors that are already
// registered, as happens on a config reload, are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	const ns, sub = "caddy", "cstring"

	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "handles_created_total",
			Help:      "Total number of C strings created.",
		}),
		Used: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "handles_used_total",
			Help:      "Total number of C strings printed.",
		}),
		Destroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "handles_destroyed_total",
			Help:      "Total number of C strings destroyed.",
		}),
		Live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "handles_live",
			Help:      "Number of C strings created and not yet destroyed.",
		}),
	}

	var err error
	if m.Created, err = register(reg, m.Created); err != nil {
		return nil, err
	}
	if m.Used, err = register(reg, m.Used); err != nil {
		return nil, err
	}
	if m.Destroyed, err = register(reg, m.Destroyed); err != nil {
		return nil, err
	}
	if m.Live, err = register(reg, m.Live); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) create() {
	if m == nil {
		return
	}
	m.Created.Inc()
	m.Live.Inc()
}

func (m *Metrics) use() {
	if m == nil {
		return
	}
	m.Used.Inc()
}

func (m *Metrics) destroy() {
	if m == nil {
		return
	}
	m.Destroyed.Inc()
	m.Live.Dec()
}
