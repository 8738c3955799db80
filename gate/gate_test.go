// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/metrics"
)

func score(v float64) *float64 { return &v }

func TestEvidenceSufficiency_FailsBelowMinCount(t *testing.T) {
	require := require.New(t)

	g := &EvidenceSufficiency{Threshold: 0.8, MinCount: 2, Strict: true}
	r := g.Evaluate(Context{Evidence: []EvidenceRef{{ID: "a"}}}, State{})
	require.Equal(Fail, r.Decision)
}

func TestEvidenceSufficiency_WarnBelowMinCountNonStrict(t *testing.T) {
	require := require.New(t)

	g := &EvidenceSufficiency{Threshold: 0.8, MinCount: 2, Strict: false}
	r := g.Evaluate(Context{Evidence: []EvidenceRef{{ID: "a"}}}, State{})
	require.Equal(Warn, r.Decision)
}

func TestEvidenceSufficiency_PassHighScoreAndCoverage(t *testing.T) {
	require := require.New(t)

	g := &EvidenceSufficiency{Threshold: 0.7, MinCount: 1, Strict: true}
	ctx := Context{
		Evidence:       []EvidenceRef{{ID: "req1", Score: score(1.0)}},
		RequiredClaims: []string{"req1"},
	}
	r := g.Evaluate(ctx, State{})
	require.Equal(Pass, r.Decision)
}

func TestEvidenceSufficiency_NeutralScoreWhenUnscored(t *testing.T) {
	require := require.New(t)

	g := &EvidenceSufficiency{Threshold: 0.3, MinCount: 1, Strict: true}
	ctx := Context{Evidence: []EvidenceRef{{ID: "a"}}}
	r := g.Evaluate(ctx, State{})
	// avg_score defaults to 0.5, coverage defaults to 1.0 -> combined = 0.7
	require.Equal(Pass, r.Decision)
}

func TestCoherenceCheck_ViolationLowersConsistency(t *testing.T) {
	require := require.New(t)

	g := &CoherenceCheck{Threshold: 0.9, Strict: true}
	ctx := Context{
		Conclusions: []string{"x"},
		Constraints: []Constraint{{Kind: MustNot, Value: "x"}},
	}
	r := g.Evaluate(ctx, State{CoherenceCurrent: 1.0})
	require.Equal(Fail, r.Decision)
	require.Equal(0.8, r.Details.(map[string]any)["consistency"])
}

func TestCoherenceCheck_LowBudgetHalvesDecisionConsistencyNotReporting(t *testing.T) {
	require := require.New(t)

	g := &CoherenceCheck{Threshold: 0.9, Strict: true}
	ctx := Context{Conclusions: []string{}, Constraints: []Constraint{}}

	healthy := g.Evaluate(ctx, State{CoherenceCurrent: 1.0})
	lowBudget := g.Evaluate(ctx, State{CoherenceCurrent: 0.1})

	require.Equal(1.0, healthy.Details.(map[string]any)["consistency"])
	require.Equal(1.0, lowBudget.Details.(map[string]any)["consistency"])
	require.Equal(1.0, healthy.Details.(map[string]any)["decision_consistency"])
	require.Equal(0.5, lowBudget.Details.(map[string]any)["decision_consistency"])
	require.Equal(Pass, healthy.Decision)
	require.Equal(Fail, lowBudget.Decision)
}

func TestManager_ShortCircuitStopsAtFirstFail(t *testing.T) {
	require := require.New(t)

	never := &External{Capability: "never-run", Eval: func(Context, State) Result {
		t.Fatal("should not run after short-circuit")
		return Result{}
	}}
	alwaysFail := &External{Capability: "always-fail", Eval: func(Context, State) Result {
		return Result{Decision: Fail}
	}}

	m := NewManager([]Gate{alwaysFail, never}, Strict, true)
	results, ok := m.EvaluateAll(Context{}, State{})

	require.False(ok)
	require.Len(results, 1)
}

func TestManager_PermissiveAllowsWarn(t *testing.T) {
	require := require.New(t)

	warn := &External{Capability: "warn", Eval: func(Context, State) Result {
		return Result{Decision: Warn}
	}}

	strictMgr := NewManager([]Gate{warn}, Strict, false)
	_, strictOK := strictMgr.EvaluateAll(Context{}, State{})
	require.False(strictOK)

	permissiveMgr := NewManager([]Gate{warn}, Permissive, false)
	_, permissiveOK := permissiveMgr.EvaluateAll(Context{}, State{})
	require.True(permissiveOK)
}

func TestManager_SkipDoesNotCountAgainstPass(t *testing.T) {
	require := require.New(t)

	skipping := &skippableGate{}
	pass := &External{Capability: "pass", Eval: func(Context, State) Result {
		return Result{Decision: Pass}
	}}

	m := NewManager([]Gate{skipping, pass}, Strict, false)
	results, ok := m.EvaluateAll(Context{}, State{})

	require.True(ok)
	require.Equal(Skip, results[0].Decision)
}

func TestManager_WithObservabilityKeepsGateList(t *testing.T) {
	require := require.New(t)

	counters, err := metrics.NewGateCounters(nil)
	require.NoError(err)

	fail := &External{Capability: "f", Eval: func(Context, State) Result {
		return Result{Kind: KindContradiction, Decision: Fail}
	}}
	warn := &External{Capability: "w", Eval: func(Context, State) Result {
		return Result{Kind: KindTemporal, Decision: Warn}
	}}

	m := NewManager([]Gate{fail, warn}, Permissive, false)
	m.WithObservability(logging.NewNoOp(), counters)

	_, _ = m.EvaluateAll(Context{}, State{})

	require.Len(m.Gates(), 2, "WithObservability must not alter the configured gate list")
}

type skippableGate struct{}

func (g *skippableGate) Kind() Kind                { return KindExternal }
func (g *skippableGate) AppliesTo(ctx Context) bool { return false }
func (g *skippableGate) Evaluate(ctx Context, state State) Result {
	return Result{Decision: Pass}
}
