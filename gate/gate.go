// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gate implements the Gate Kit (spec §4.5): pluggable validators
// producing {Pass, Fail, Warn, Skip} with rationale. Gates are pure on
// their inputs — no I/O, no clock reads; the episode executor supplies
// everything a gate needs through Context and a State snapshot of the
// coherence budget.
//
// Grounded on the teacher's validators.Manager shape (validators/validators.go)
// for the ordered-list-plus-manager pattern, generalized from a weighted
// validator set to an ordered gate pipeline with short-circuit.
package gate

// Decision is the closed outcome set a gate produces.
type Decision string

const (
	Pass Decision = "pass"
	Fail Decision = "fail"
	Warn Decision = "warn"
	Skip Decision = "skip"
)

// Kind identifies which built-in gate variant produced a result, or
// "external" for an externally-supplied capability.
type Kind string

const (
	KindEvidenceSufficiency Kind = "evidence_sufficiency"
	KindCoherenceCheck      Kind = "coherence_check"
	KindReconstructionBound Kind = "reconstruction_bound"
	KindContradiction       Kind = "contradiction"
	KindScope               Kind = "scope"
	KindTemporal            Kind = "temporal"
	KindExternal            Kind = "external"
)

// Result is the outcome of one gate evaluation (spec §3).
type Result struct {
	Kind        Kind
	Decision    Decision
	Message     string
	Details     any
	TimestampMS int64
}

// State is the live coherence-budget snapshot a gate reads but never
// mutates — the episode executor owns all budget writes.
type State struct {
	CoherenceCurrent float64
	IsHealthy        bool
}

// Gate is the common contract every built-in and external variant
// implements: evaluate(context, state) -> Result.
type Gate interface {
	Kind() Kind
	Evaluate(ctx Context, state State) Result
}

// Context carries the claim-specific evidence a gate consults. Unused
// fields for a given gate kind are simply ignored — gates are not
// obligated to read every field.
type Context struct {
	// EvidenceSufficiency
	Evidence       []EvidenceRef
	RequiredClaims []string

	// CoherenceCheck
	Conclusions []string
	Constraints []Constraint

	// Generic passthrough for ReconstructionBound / Contradiction / Scope
	// / Temporal / External — each reads the subset it understands.
	Extra map[string]any
}

// EvidenceRef is one item of evidence with an optional relevance score.
type EvidenceRef struct {
	ID    string
	Score *float64 // nil means "no score present"
}

// ConstraintKind distinguishes a must-hold from a must-not-hold constraint.
type ConstraintKind string

const (
	Must    ConstraintKind = "must"
	MustNot ConstraintKind = "must_not"
)

// Constraint is one coherence-check constraint over the claimed conclusions.
type Constraint struct {
	Kind  ConstraintKind
	Value string
}

// decisionFor maps a pass/warn test pair to a Decision under strictness:
// Pass if passIf, Warn if warnIf; when neither holds, strict gates fail
// and permissive gates warn.
func decisionFor(passIf, warnIf, strict bool) Decision {
	switch {
	case passIf:
		return Pass
	case warnIf:
		return Warn
	case strict:
		return Fail
	default:
		return Warn
	}
}
