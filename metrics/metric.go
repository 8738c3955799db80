// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics provides ambient Prometheus instrumentation for the
// kernel. It observes counts and durations only — it is not a metrics
// collector/alerting service (that stays an external collaborator, see
// spec §1 Out of scope); nothing here aggregates across processes or
// dispatches alerts.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Averager tracks a running average, backed by a Prometheus counter+gauge
// pair when a registerer is supplied.
type Averager interface {
	Observe(value float64)
	Read() float64
}

type averager struct {
	mu    sync.RWMutex
	sum   float64
	count float64

	promCount prometheus.Counter
	promSum   prometheus.Gauge
}

// NewAverager returns a new Averager registered under name/help, or an
// unregistered (but still functional) averager if reg is nil.
func NewAverager(name, help string, reg prometheus.Registerer) (Averager, error) {
	if reg == nil {
		return &averager{}, nil
	}

	count := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_count",
		Help: "Total # of observations of " + help,
	})
	sum := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_sum",
		Help: "Sum of " + help,
	})

	if err := reg.Register(count); err != nil {
		return nil, err
	}
	if err := reg.Register(sum); err != nil {
		return nil, err
	}

	return &averager{promCount: count, promSum: sum}, nil
}

// Observe adds a value to the average.
func (a *averager) Observe(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sum += value
	a.count++

	if a.promCount != nil {
		a.promCount.Inc()
	}
	if a.promSum != nil {
		a.promSum.Add(value)
	}
}

// Read returns the current average, or 0 if nothing has been observed.
func (a *averager) Read() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.count == 0 {
		return 0
	}
	return a.sum / a.count
}

// Gauge tracks a value that can move up or down, e.g. the live coherence
// budget level for an episode.
type Gauge interface {
	Set(value float64)
	Read() float64
}

type gauge struct {
	mu   sync.RWMutex
	v    float64
	prom prometheus.Gauge
}

// NewGauge returns a new Gauge registered under name/help, or an
// unregistered gauge if reg is nil.
func NewGauge(name, help string, reg prometheus.Registerer) (Gauge, error) {
	if reg == nil {
		return &gauge{}, nil
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	if err := reg.Register(g); err != nil {
		return nil, err
	}
	return &gauge{prom: g}, nil
}

// Set sets the gauge to value.
func (g *gauge) Set(value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.v = value
	if g.prom != nil {
		g.prom.Set(value)
	}
}

// Read returns the gauge's current value.
func (g *gauge) Read() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.v
}
