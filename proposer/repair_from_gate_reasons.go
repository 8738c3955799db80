// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package proposer

import (
	"context"

	"github.com/noeticanlabs/cnsc-haai-sub001/candidate"
	"github.com/noeticanlabs/cnsc-haai-sub001/canon"
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/gate"
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// SafetyLevel and Impact are the two action properties the original
// repair codebook scored candidates from (gr/repair_from_gate_reasons.py
// _score_repair).
type SafetyLevel string

const (
	SafetyHigh SafetyLevel = "high"
	SafetyLow  SafetyLevel = "low"
)

type Impact string

const (
	ImpactLow  Impact = "low"
	ImpactHigh Impact = "high"
)

// RepairAction is one entry an embedder supplies for a failing gate
// kind, in place of the original's codebook_store lookup — a
// corpus-backed retrieval dependency that's out of scope here.
type RepairAction struct {
	Type               string
	Description        string
	Parameters         map[string]any
	Rationale          string
	Preconditions      []string
	SafetyLevel        SafetyLevel
	Impact             Impact
	SuggestedGateStack *string
}

// RepairFromGateReasons is the built-in repair proposer (spec §4.8,
// grounded on the original's gr/repair_from_gate_reasons.py): it maps a
// request's failing gates to repair actions from a caller-supplied
// action map and turns each into a scored repair Candidate. Unlike the
// original it never performs retrieval itself — the action map is
// injected whole, since corpus/codebook lookups are out of scope here.
type RepairFromGateReasons struct {
	Actions map[gate.Kind][]RepairAction
}

// ID implements Proposer.
func (p *RepairFromGateReasons) ID() string { return "gr.repair.from_gate_reasons" }

// Propose implements Proposer. It reads the failing gate kinds out of
// reqCtx.Extra["failing_gates"] (mirroring the request envelope's
// inputs.failure.failing_gates, spec §6), and emits one Candidate per
// matching repair action, stopping once the sub-budget's candidate cap
// is reached.
func (p *RepairFromGateReasons) Propose(_ context.Context, reqCtx ProposalContext, sub config.RequestBudget) ([]candidate.Candidate, error) {
	failingGates, _ := reqCtx.Extra["failing_gates"].([]gate.Kind)
	if len(failingGates) == 0 {
		return nil, nil
	}

	var out []candidate.Candidate
	for _, k := range failingGates {
		for _, action := range p.Actions[k] {
			if len(out) >= sub.MaxCandidates {
				return out, nil
			}
			c, err := p.buildCandidate(k, action, reqCtx)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (p *RepairFromGateReasons) buildCandidate(k gate.Kind, action RepairAction, reqCtx ProposalContext) (candidate.Candidate, error) {
	preconditions := make([]any, len(action.Preconditions))
	for i, pc := range action.Preconditions {
		preconditions[i] = pc
	}
	payload := map[string]any{
		"repair_type":   action.Type,
		"target_gate":   string(k),
		"description":   action.Description,
		"parameters":    action.Parameters,
		"rationale":     action.Rationale,
		"preconditions": preconditions,
	}

	payloadHash, err := typedhash.HashValue(typedhash.KindCandidate, canon.Permissive, payload)
	if err != nil {
		return candidate.Candidate{}, err
	}

	c := candidate.Candidate{
		CandidateType:      candidate.TypeRepair,
		Domain:             reqCtx.Domain,
		InputStateHash:     reqCtx.InputStateHash,
		ConstraintsHash:    reqCtx.ConstraintsHash,
		PayloadFormat:      "json",
		PayloadHash:        payloadHash,
		Payload:            payload,
		Scores:             scoreRepair(action),
		SuggestedGateStack: action.SuggestedGateStack,
	}

	candidateHash, err := typedhash.HashValue(typedhash.KindCandidate, canon.Permissive, map[string]any{
		"candidate_type":   string(c.CandidateType),
		"domain":           c.Domain,
		"input_state_hash": c.InputStateHash,
		"constraints_hash": c.ConstraintsHash,
		"payload_hash":     c.PayloadHash.String(),
		"payload":          payload,
	})
	if err != nil {
		return candidate.Candidate{}, err
	}
	c.CandidateHash = candidateHash

	return c, nil
}

// scoreRepair mirrors gr/repair_from_gate_reasons.py's _score_repair:
// conservative defaults, adjusted by the action's safety level and
// impact.
func scoreRepair(action RepairAction) candidate.Scores {
	s := candidate.Scores{Risk: 0.3, Utility: 0.7, Cost: 0.3, Confidence: 0.8}

	switch action.SafetyLevel {
	case SafetyHigh:
		s.Risk, s.Confidence = 0.1, 0.9
	case SafetyLow:
		s.Risk, s.Confidence = 0.6, 0.5
	}

	switch action.Impact {
	case ImpactLow:
		s.Utility, s.Cost = 0.5, 0.2
	case ImpactHigh:
		s.Utility, s.Cost = 0.9, 0.5
	}

	return s
}
