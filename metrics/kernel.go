// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// GateCounters tallies gate decisions by kind, for the Pass/Fail/Warn/Skip
// distribution spec §4.5 expects a Manager to produce.
type GateCounters struct {
	vec *prometheus.CounterVec
}

// NewGateCounters registers a gate_decisions_total counter vector
// labeled by gate kind and decision. A nil registerer yields a
// functional-but-unregistered counter, matching the rest of this package.
func NewGateCounters(reg prometheus.Registerer) (*GateCounters, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coherence_gate_decisions_total",
		Help: "Count of gate evaluations by gate kind and decision.",
	}, []string{"gate_kind", "decision"})

	if reg != nil {
		if err := reg.Register(vec); err != nil {
			return nil, err
		}
	}
	return &GateCounters{vec: vec}, nil
}

// Observe records one decision for a gate kind.
func (g *GateCounters) Observe(gateKind, decision string) {
	if g == nil || g.vec == nil {
		return
	}
	g.vec.WithLabelValues(gateKind, decision).Inc()
}

// BudgetGauge reports the live coherence-budget level for an episode.
type BudgetGauge struct {
	gauge Gauge
}

// NewBudgetGauge wraps NewGauge for the coherence_budget_current metric.
func NewBudgetGauge(reg prometheus.Registerer) (*BudgetGauge, error) {
	g, err := NewGauge("coherence_budget_current", "Current coherence budget level in [0,1].", reg)
	if err != nil {
		return nil, err
	}
	return &BudgetGauge{gauge: g}, nil
}

// Read returns the last level Set recorded, or 0 if never set.
func (b *BudgetGauge) Read() float64 {
	if b == nil || b.gauge == nil {
		return 0
	}
	return b.gauge.Read()
}

// Set records the current budget level.
func (b *BudgetGauge) Set(level float64) {
	if b == nil || b.gauge == nil {
		return
	}
	b.gauge.Set(level)
}

// DispatchTiming tracks per-proposer invocation latency for the
// dispatcher's budget enforcer (spec §4.8).
type DispatchTiming struct {
	avg Averager
}

// NewDispatchTiming registers a proposer_invocation_ms averager.
func NewDispatchTiming(reg prometheus.Registerer) (*DispatchTiming, error) {
	a, err := NewAverager("coherence_proposer_invocation_ms", "Proposer invocation wall time in milliseconds.", reg)
	if err != nil {
		return nil, err
	}
	return &DispatchTiming{avg: a}, nil
}

// Observe records one proposer invocation's elapsed wall time.
func (d *DispatchTiming) Observe(ms float64) {
	if d == nil || d.avg == nil {
		return
	}
	d.avg.Observe(ms)
}
