// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package budget implements the coherence budget (spec §4.4): a scalar
// capacity tracker in [0,1] that degrades on gate failure/warning and
// recovers on success, gating whether an episode may keep progressing.
//
// Grounded on the teacher's confidence package (confidence/interface.go,
// confidence/threshold.go): the Confidence interface/concrete-struct/
// factory shape is kept, but the body is new. The teacher's confidence is
// a monotone integer counter that only resets on RecordUnsuccessfulPoll;
// a coherence budget is a continuous, bidirectional accumulator (it both
// degrades and recovers), so there is no poll-sampler analogue to reuse.
package budget

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/metrics"
)

// View is the read-only snapshot check() returns: the current level plus
// its derived predicates (spec §3).
type View struct {
	Current float64

	Healthy    bool // current >= 0.8
	Degraded   bool // 0.3 <= current < 0.8
	Critical   bool // current < floor
	CanProceed bool // !critical
}

const healthyThreshold = 0.8
const degradedFloor = 0.3

// Budget is a coherence budget for a single episode. It is not safe for
// concurrent use — episodes are single-writer by construction (spec §5).
type Budget struct {
	initial float64
	floor   float64

	defaultDegradeFail float64
	defaultDegradeWarn float64
	defaultRecover     float64

	current float64
	gauge   *metrics.BudgetGauge
}

// New constructs a Budget from a KernelConfig's BudgetSteps.
func New(steps config.BudgetSteps) *Budget {
	return &Budget{
		initial:            steps.Initial,
		floor:              steps.Floor,
		defaultDegradeFail: steps.DegradeFail,
		defaultDegradeWarn: steps.DegradeWarn,
		defaultRecover:     steps.Recover,
		current:            steps.Initial,
	}
}

// Restore constructs a Budget from steps with current set directly to
// level instead of steps.Initial — the episode snapshot/restore path's
// way of resuming a budget at whatever level it was suspended at.
func Restore(steps config.BudgetSteps, level float64) *Budget {
	b := New(steps)
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	b.current = level
	return b
}

// WithGauge attaches a metrics.BudgetGauge that every Degrade/
// DegradeWarn/Recover/Reset call reports the post-mutation level to.
// Optional — a Budget with no gauge behaves exactly as before.
func (b *Budget) WithGauge(g *metrics.BudgetGauge) *Budget {
	b.gauge = g
	b.observe()
	return b
}

func (b *Budget) observe() {
	if b.gauge != nil {
		b.gauge.Set(b.current)
	}
}

// Degrade lowers current by amount, clamped at 0. A zero amount is
// replaced with the configured fail step (BudgetSteps.DegradeFail);
// DegradeWarn applies the configured warn step.
func (b *Budget) Degrade(amount float64) {
	if amount == 0 {
		amount = b.defaultDegradeFail
	}
	b.current -= amount
	if b.current < 0 {
		b.current = 0
	}
	b.observe()
}

// DegradeWarn lowers current by the configured warn step — smaller than
// a fail step, per spec §4.4's asymmetric defaults.
func (b *Budget) DegradeWarn() {
	b.Degrade(b.defaultDegradeWarn)
}

// Recover raises current by amount, clamped at 1. A zero amount is
// replaced with the configured recover step.
func (b *Budget) Recover(amount float64) {
	if amount == 0 {
		amount = b.defaultRecover
	}
	b.current += amount
	if b.current > 1 {
		b.current = 1
	}
	b.observe()
}

// Reset restores current to its initial level.
func (b *Budget) Reset() {
	b.current = b.initial
	b.observe()
}

// Check returns a View of the budget's current state and derived
// predicates, evaluated against the configured floor.
func (b *Budget) Check() View {
	return View{
		Current:    b.current,
		Healthy:    b.current >= healthyThreshold,
		Degraded:   b.current >= degradedFloor && b.current < healthyThreshold,
		Critical:   b.current < b.floor,
		CanProceed: b.current >= b.floor,
	}
}

// Current returns the raw current level, for call sites (metrics,
// receipt details) that don't need the full View.
func (b *Budget) Current() float64 {
	return b.current
}
