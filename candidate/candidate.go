// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package candidate implements the Candidate Ranker (spec §4.9):
// composite scoring, deduplication, Pareto-pruning, and a stable
// deterministic sort over proposer output.
package candidate

import "github.com/noeticanlabs/cnsc-haai-sub001/typedhash"

// Type is the closed set of candidate kinds (spec §3).
type Type string

const (
	TypeRepair       Type = "repair"
	TypePlan         Type = "plan"
	TypeSolverConfig Type = "solver_config"
	TypeExplain      Type = "explain"
)

// Evidence is one evidence item backing a candidate.
type Evidence struct {
	EvidenceID     string
	SourceType     string
	SourceRef      string
	ContentHash    string
	TaintTags      []string
	Scope          string
	FiltersApplied []string
	Relevance      float64
}

// Scores carries a candidate's four raw proposer-assigned dimensions,
// each in [0,1].
type Scores struct {
	Risk       float64
	Utility    float64
	Cost       float64
	Confidence float64
}

// ProposerMeta records which proposer produced a candidate and under
// what invocation conditions.
type ProposerMeta struct {
	ProposerID      string
	InvocationOrder int
	ExecutionTimeMS int64
	BudgetConsumed  float64
}

// Candidate is one scored, evidence-backed proposed action (spec §3).
type Candidate struct {
	CandidateHash      typedhash.Hash
	CandidateType      Type
	Domain             string
	InputStateHash     string
	ConstraintsHash    string
	PayloadFormat      string
	PayloadHash        typedhash.Hash
	Payload            any
	Evidence           []Evidence
	Scores             Scores
	ProposerMeta       ProposerMeta
	SuggestedGateStack *string

	// composite is the computed ranking score — set by Rank, not by the
	// proposer, and not part of the candidate's hashed identity.
	composite float64
}

// Composite returns the candidate's computed composite score, valid
// only after Rank has processed it.
func (c Candidate) Composite() float64 { return c.composite }
