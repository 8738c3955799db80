// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gate

import "fmt"

// EvidenceSufficiency checks that enough, and sufficiently relevant,
// evidence backs a claim (spec §4.5).
type EvidenceSufficiency struct {
	Threshold float64
	MinCount  int
	Strict    bool
}

func (g *EvidenceSufficiency) Kind() Kind { return KindEvidenceSufficiency }

func (g *EvidenceSufficiency) Evaluate(ctx Context, _ State) Result {
	if len(ctx.Evidence) < g.MinCount {
		d := Fail
		if !g.Strict {
			d = Warn
		}
		return Result{
			Kind:     KindEvidenceSufficiency,
			Decision: d,
			Message:  fmt.Sprintf("insufficient evidence: %d < %d", len(ctx.Evidence), g.MinCount),
		}
	}

	avgScore := 0.5
	if n := len(ctx.Evidence); n > 0 {
		sum, scored := 0.0, 0
		for _, e := range ctx.Evidence {
			if e.Score != nil {
				sum += *e.Score
				scored++
			}
		}
		if scored > 0 {
			avgScore = sum / float64(scored)
		}
	}

	coverage := 1.0
	if len(ctx.RequiredClaims) > 0 {
		present := make(map[string]struct{}, len(ctx.Evidence))
		for _, e := range ctx.Evidence {
			present[e.ID] = struct{}{}
		}
		hit := 0
		for _, req := range ctx.RequiredClaims {
			if _, ok := present[req]; ok {
				hit++
			}
		}
		coverage = float64(hit) / float64(len(ctx.RequiredClaims))
	}

	combined := 0.6*avgScore + 0.4*coverage
	decision := decisionFor(combined >= g.Threshold, combined >= 0.7*g.Threshold, g.Strict)

	return Result{
		Kind:     KindEvidenceSufficiency,
		Decision: decision,
		Message:  fmt.Sprintf("combined=%.3f threshold=%.3f", combined, g.Threshold),
		Details: map[string]any{
			"avg_score": avgScore,
			"coverage":  coverage,
			"combined":  combined,
		},
	}
}

// CoherenceCheck validates claimed conclusions against must/must_not
// constraints, with the live coherence budget halving consistency for
// the decision (but not for reporting) when it's below threshold.
type CoherenceCheck struct {
	Threshold float64
	Strict    bool
}

func (g *CoherenceCheck) Kind() Kind { return KindCoherenceCheck }

func (g *CoherenceCheck) Evaluate(ctx Context, state State) Result {
	conclusionSet := make(map[string]struct{}, len(ctx.Conclusions))
	for _, c := range ctx.Conclusions {
		conclusionSet[c] = struct{}{}
	}

	violations := 0
	for _, c := range ctx.Constraints {
		if c.Kind != MustNot {
			continue
		}
		if _, ok := conclusionSet[c.Value]; ok {
			violations++
		}
	}

	consistency := 1.0 - 0.2*float64(violations)
	if consistency < 0 {
		consistency = 0
	}

	decisionConsistency := consistency
	if state.CoherenceCurrent < g.Threshold {
		decisionConsistency = consistency / 2
	}

	decision := decisionFor(decisionConsistency >= g.Threshold, decisionConsistency >= 0.7*g.Threshold, g.Strict)

	return Result{
		Kind:     KindCoherenceCheck,
		Decision: decision,
		Message:  fmt.Sprintf("consistency=%.3f threshold=%.3f", consistency, g.Threshold),
		Details: map[string]any{
			"consistency":          consistency,
			"decision_consistency": decisionConsistency,
			"violations":           violations,
		},
	}
}

// ReconstructionBound is a scope-limiting gate: it fails when the
// episode's reconstruction depth, carried as an int in
// ctx.Extra["depth"], exceeds the configured limit.
type ReconstructionBound struct {
	MaxDepth int
	Strict   bool
}

func (g *ReconstructionBound) Kind() Kind { return KindReconstructionBound }

func (g *ReconstructionBound) Evaluate(ctx Context, _ State) Result {
	depth, _ := ctx.Extra["depth"].(int)
	if depth <= g.MaxDepth {
		return Result{Kind: KindReconstructionBound, Decision: Pass,
			Message: fmt.Sprintf("depth=%d max=%d", depth, g.MaxDepth)}
	}
	d := Fail
	if !g.Strict {
		d = Warn
	}
	return Result{Kind: KindReconstructionBound, Decision: d,
		Message: fmt.Sprintf("depth=%d exceeds max=%d", depth, g.MaxDepth)}
}

// Contradiction fails when ctx.Extra["contradictions"] (an int count)
// is nonzero.
type Contradiction struct {
	Strict bool
}

func (g *Contradiction) Kind() Kind { return KindContradiction }

func (g *Contradiction) Evaluate(ctx Context, _ State) Result {
	count, _ := ctx.Extra["contradictions"].(int)
	if count == 0 {
		return Result{Kind: KindContradiction, Decision: Pass}
	}
	d := Fail
	if !g.Strict {
		d = Warn
	}
	return Result{Kind: KindContradiction, Decision: d,
		Message: fmt.Sprintf("%d contradictions", count)}
}

// Scope fails when ctx.Extra["out_of_scope_refs"] (an int count) is
// nonzero — the claim reaches outside its declared domain.
type Scope struct {
	Strict bool
}

func (g *Scope) Kind() Kind { return KindScope }

func (g *Scope) Evaluate(ctx Context, _ State) Result {
	count, _ := ctx.Extra["out_of_scope_refs"].(int)
	if count == 0 {
		return Result{Kind: KindScope, Decision: Pass}
	}
	d := Fail
	if !g.Strict {
		d = Warn
	}
	return Result{Kind: KindScope, Decision: d,
		Message: fmt.Sprintf("%d out-of-scope references", count)}
}

// Temporal fails when ctx.Extra["staleness_ms"] (an int64) exceeds
// MaxStalenessMS — evidence or conclusions too old to trust.
type Temporal struct {
	MaxStalenessMS int64
	Strict         bool
}

func (g *Temporal) Kind() Kind { return KindTemporal }

func (g *Temporal) Evaluate(ctx Context, _ State) Result {
	staleness, _ := ctx.Extra["staleness_ms"].(int64)
	if staleness <= g.MaxStalenessMS {
		return Result{Kind: KindTemporal, Decision: Pass}
	}
	d := Fail
	if !g.Strict {
		d = Warn
	}
	return Result{Kind: KindTemporal, Decision: d,
		Message: fmt.Sprintf("staleness_ms=%d exceeds max=%d", staleness, g.MaxStalenessMS)}
}

// Applicable is implemented by gates that can report themselves
// inapplicable to a given context — the Manager reports Skip for these
// without counting them against the pass criterion.
type Applicable interface {
	AppliesTo(ctx Context) bool
}

// Evaluator is the capability an External gate wraps — any caller-
// supplied predicate outside the closed built-in set (spec §3's single
// extensibility point: a variant, not open subtyping).
type Evaluator func(ctx Context, state State) Result

// External wraps an opaque evaluator capability under a stable Kind tag.
type External struct {
	Capability string
	Eval       Evaluator
}

func (g *External) Kind() Kind { return KindExternal }

func (g *External) Evaluate(ctx Context, state State) Result {
	r := g.Eval(ctx, state)
	r.Kind = KindExternal
	return r
}
