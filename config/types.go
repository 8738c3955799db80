// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the explicit configuration threaded into every
// kernel component. Nothing in this module reads from process-wide state
// at call time; a KernelConfig is constructed once and passed down.
package config

import "time"

// Clock is the sole source of timestamps used inside the kernel. The
// wall-clock is never read directly by core logic — only at the system
// boundary that constructs a KernelConfig.
type Clock interface {
	Now() time.Time
}

// CanonProfile selects which canonicalization profile a call site uses.
type CanonProfile string

const (
	// ProfileConsensus rejects all floating-point numbers.
	ProfileConsensus CanonProfile = "consensus"
	// ProfilePermissive allows finite floats in lossless decimal form.
	ProfilePermissive CanonProfile = "permissive"
)

// GateThresholds holds the default pass/warn thresholds and strictness
// for the built-in gate suite.
type GateThresholds struct {
	EvidenceThreshold float64 `json:"evidenceThreshold" yaml:"evidenceThreshold"`
	EvidenceMinCount  int     `json:"evidenceMinCount" yaml:"evidenceMinCount"`
	EvidenceStrict    bool    `json:"evidenceStrict" yaml:"evidenceStrict"`

	CoherenceThreshold float64 `json:"coherenceThreshold" yaml:"coherenceThreshold"`
	CoherenceStrict    bool    `json:"coherenceStrict" yaml:"coherenceStrict"`
}

// BudgetSteps holds the coherence-budget degrade/recover defaults.
type BudgetSteps struct {
	Initial     float64 `json:"initial" yaml:"initial"`
	Floor       float64 `json:"floor" yaml:"floor"`
	DegradeFail float64 `json:"degradeFail" yaml:"degradeFail"`
	DegradeWarn float64 `json:"degradeWarn" yaml:"degradeWarn"`
	Recover     float64 `json:"recover" yaml:"recover"`
}

// ScoringWeights are the candidate-ranker composite-score weights.
// Kept as part of the scoring profile and pinned in diagnostics so a
// response's ranking is reproducible from the weights alone.
type ScoringWeights struct {
	Risk       float64 `json:"risk" yaml:"risk"`
	Utility    float64 `json:"utility" yaml:"utility"`
	Cost       float64 `json:"cost" yaml:"cost"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// RequestBudget bounds a single request's proposer dispatch.
type RequestBudget struct {
	MaxWallMS           int64 `json:"maxWallMs" yaml:"maxWallMs"`
	MaxCandidates       int   `json:"maxCandidates" yaml:"maxCandidates"`
	MaxEvidenceItems    int   `json:"maxEvidenceItems" yaml:"maxEvidenceItems"`
	MaxSearchExpansions int   `json:"maxSearchExpansions" yaml:"maxSearchExpansions"`
}

// KernelConfig composes every knob the executor, gate kit, dispatcher, and
// ranker need. It is the single object threaded through the core — see
// Design Notes "Explicit config instead of mutable globals."
type KernelConfig struct {
	SigningKey []byte `json:"-" yaml:"-"`
	Signer     string `json:"signer" yaml:"signer"`

	Clock Clock `json:"-" yaml:"-"`

	CanonProfile CanonProfile `json:"canonProfile" yaml:"canonProfile"`

	Gates  GateThresholds `json:"gates" yaml:"gates"`
	Budget BudgetSteps    `json:"budget" yaml:"budget"`
	Scores ScoringWeights `json:"scores" yaml:"scores"`

	DefaultRequestBudget RequestBudget `json:"defaultRequestBudget" yaml:"defaultRequestBudget"`

	// StrictMode forces the "all gates passed" rule unconditionally,
	// overriding the spec's default "proceed on warnings while healthy"
	// (all_passed ∨ is_healthy) soft-progress rule. See spec §9.
	StrictMode bool `json:"strictMode" yaml:"strictMode"`

	// ChainDigestEnabled toggles per-episode chain-digest materialization.
	ChainDigestEnabled bool `json:"chainDigestEnabled" yaml:"chainDigestEnabled"`
}
