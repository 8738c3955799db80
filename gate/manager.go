// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gate

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/metrics"
)

// Enforcement selects how the Manager treats Warn results when deciding
// all_passed.
type Enforcement string

const (
	Strict     Enforcement = "strict"
	Permissive Enforcement = "permissive"
)

// Manager holds an ordered list of gates and evaluates them as a unit
// (spec §4.5). Gates that report themselves inapplicable (via the
// optional Applicable interface) are skipped and never count against
// the pass criterion.
type Manager struct {
	gates        []Gate
	enforcement  Enforcement
	shortCircuit bool

	log      logging.Logger
	counters *metrics.GateCounters
}

// NewManager constructs a Manager over an ordered gate list. It logs
// nothing and counts nothing until WithObservability attaches a logger
// and/or counters.
func NewManager(gates []Gate, enforcement Enforcement, shortCircuit bool) *Manager {
	return &Manager{gates: gates, enforcement: enforcement, shortCircuit: shortCircuit, log: logging.NewNoOp()}
}

// WithObservability attaches a per-gate logger and a gate_decisions_total
// counter vector. log may be nil (treated as a no-op logger); counters
// may be nil (Observe becomes a no-op).
func (m *Manager) WithObservability(log logging.Logger, counters *metrics.GateCounters) *Manager {
	m.log = logging.Named(log, "gate")
	m.counters = counters
	return m
}

// EvaluateAll walks the gate list in order, applying short-circuit on
// the first Fail when configured. Returns every result produced (the
// walk stops early but never drops a result it already computed) and
// whether the overall set passes.
func (m *Manager) EvaluateAll(ctx Context, state State) ([]Result, bool) {
	results := make([]Result, 0, len(m.gates))

	for _, g := range m.gates {
		if applicable, ok := g.(Applicable); ok && !applicable.AppliesTo(ctx) {
			r := Result{Kind: g.Kind(), Decision: Skip}
			results = append(results, r)
			m.observe(r)
			continue
		}

		r := g.Evaluate(ctx, state)
		results = append(results, r)
		m.observe(r)

		if m.shortCircuit && r.Decision == Fail {
			break
		}
	}

	return results, m.allPassed(results)
}

// allPassed implements all_passed ⇔ ∀result. result ∈ {Pass, Skip} ∧
// (enforcement = permissive ∨ result ≠ Warn).
func (m *Manager) allPassed(results []Result) bool {
	for _, r := range results {
		switch r.Decision {
		case Pass, Skip:
			continue
		case Warn:
			if m.enforcement == Permissive {
				continue
			}
			return false
		case Fail:
			return false
		}
	}
	return true
}

// observe logs one gate result and tallies it in the decision counter,
// when a logger/counters were attached via WithObservability.
func (m *Manager) observe(r Result) {
	m.counters.Observe(string(r.Kind), string(r.Decision))

	switch r.Decision {
	case Fail:
		m.log.Warn("gate failed", "gate_kind", string(r.Kind), "message", r.Message)
	case Warn:
		m.log.Info("gate warned", "gate_kind", string(r.Kind), "message", r.Message)
	default:
		m.log.Debug("gate evaluated", "gate_kind", string(r.Kind), "decision", string(r.Decision))
	}
}

// Gates returns the manager's ordered gate list, for callers that need
// to introspect configuration (e.g. the registry's gate-stack hash).
func (m *Manager) Gates() []Gate {
	out := make([]Gate, len(m.gates))
	copy(out, m.gates)
	return out
}
