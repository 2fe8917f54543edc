package cstring

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProvider(WithMetrics(m), WithOutput(&bytes.Buffer{}))

	h1, h2 := p.Create(), p.Create()
	p.Use(h1)
	p.Destroy(h1)

	for _, v := range []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"created", m.Created, 2},
		{"used", m.Used, 1},
		{"destroyed", m.Destroyed, 1},
		{"live", m.Live, 1},
	} {
		if got := testutil.ToFloat64(v.c); got != v.want {
			t.Errorf("%v error: got %v want %v", v.name, got, v.want)
		}
	}
	p.Destroy(h2)
}

func TestMetricsReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}

	m1.Created.Inc()
	if got := testutil.ToFloat64(m2.Created); got != 1 {
		t.Errorf("re-registered counter is not shared: got %v", got)
	}
}
