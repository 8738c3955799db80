// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package envelope implements the request/response wire envelopes
// spec §6 defines: NPE-REQUEST-1.0 and NPE-RESPONSE-1.0. Both carry a
// self-referential typed hash computed over the rest of their own
// fields, so a request or response is its own content-addressed
// identity the moment it's built.
package envelope

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/candidate"
	"github.com/noeticanlabs/cnsc-haai-sub001/canon"
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// RequestType is the closed set of request kinds.
type RequestType string

const (
	RequestPropose RequestType = "propose"
	RequestRepair  RequestType = "repair"
)

// Budgets mirrors config.RequestBudget's wire shape for a request
// envelope.
type Budgets struct {
	MaxWallMS           int64 `json:"max_wall_ms"`
	MaxCandidates       int   `json:"max_candidates"`
	MaxEvidenceItems    int   `json:"max_evidence_items"`
	MaxSearchExpansions int   `json:"max_search_expansions"`
}

// Inputs carries the request's claim-specific payload — every field is
// optional, matching spec §6's `inputs: { state?, constraints?, goals?,
// context?, failure? }`.
type Inputs struct {
	State       any      `json:"state,omitempty"`
	Constraints any      `json:"constraints,omitempty"`
	Goals       any      `json:"goals,omitempty"`
	Context     any      `json:"context,omitempty"`
	Failure     *Failure `json:"failure,omitempty"`
}

// Failure is the repair-variant's required extra field.
type Failure struct {
	ProofHash    string   `json:"proof_hash"`
	GateStackID  string   `json:"gate_stack_id"`
	RegistryHash string   `json:"registry_hash"`
	FailingGates []string `json:"failing_gates"`
}

// Request is the NPE-REQUEST-1.0 envelope.
type Request struct {
	Spec            string      `json:"spec"`
	RequestType     RequestType `json:"request_type"`
	RequestID       string      `json:"request_id"`
	Domain          string      `json:"domain"`
	DeterminismTier string      `json:"determinism_tier"`
	Seed            int64       `json:"seed"`
	Budgets         Budgets     `json:"budgets"`
	Inputs          Inputs      `json:"inputs"`
}

// requestCanonValue is the canonicalizable value request_id is computed
// over — everything in Request except request_id itself.
func requestCanonValue(r Request) map[string]any {
	return map[string]any{
		"spec":             r.Spec,
		"request_type":     string(r.RequestType),
		"domain":           r.Domain,
		"determinism_tier": r.DeterminismTier,
		"seed":             r.Seed,
		"budgets": map[string]any{
			"max_wall_ms":           r.Budgets.MaxWallMS,
			"max_candidates":        r.Budgets.MaxCandidates,
			"max_evidence_items":    r.Budgets.MaxEvidenceItems,
			"max_search_expansions": r.Budgets.MaxSearchExpansions,
		},
		"inputs": inputsCanonValue(r.Inputs),
	}
}

func inputsCanonValue(in Inputs) map[string]any {
	v := map[string]any{
		"state":       in.State,
		"constraints": in.Constraints,
		"goals":       in.Goals,
		"context":     in.Context,
	}
	if in.Failure != nil {
		v["failure"] = map[string]any{
			"proof_hash":    in.Failure.ProofHash,
			"gate_stack_id": in.Failure.GateStackID,
			"registry_hash": in.Failure.RegistryHash,
			"failing_gates": toAnySlice(in.Failure.FailingGates),
		}
	}
	return v
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// NewRequest builds r's request_id from its own canonical bytes under
// the permissive profile (request inputs may carry floats) and returns
// the finished envelope.
func NewRequest(r Request) (Request, error) {
	h, err := typedhash.HashValue(typedhash.KindRequest, canon.Permissive, requestCanonValue(r))
	if err != nil {
		return Request{}, err
	}
	r.RequestID = h.String()
	return r, nil
}

// Diagnostics carries non-fatal dispatch/gating information surfaced
// alongside a response's candidates (e.g. a soft-deadline timeout
// warning, per spec §5's cancellation model).
type Diagnostics struct {
	Warnings []string `json:"warnings,omitempty"`
}

// Response is the NPE-RESPONSE-1.0 envelope.
type Response struct {
	Spec               string                `json:"spec"`
	ResponseID         string                `json:"response_id"`
	RequestID          string                `json:"request_id"`
	Domain             string                `json:"domain"`
	DeterminismTier    string                `json:"determinism_tier"`
	Seed               int64                 `json:"seed"`
	CorpusSnapshotHash string                `json:"corpus_snapshot_hash"`
	RegistryHash       string                `json:"registry_hash"`
	Candidates         []candidate.Candidate `json:"candidates"`
	Diagnostics        Diagnostics           `json:"diagnostics"`
}

func responseCanonValue(r Response) map[string]any {
	cands := make([]any, len(r.Candidates))
	for i, c := range r.Candidates {
		cands[i] = map[string]any{
			"candidate_hash": c.CandidateHash.String(),
			"candidate_type": string(c.CandidateType),
			"payload_hash":   c.PayloadHash.String(),
		}
	}
	return map[string]any{
		"spec":                 r.Spec,
		"request_id":           r.RequestID,
		"domain":               r.Domain,
		"determinism_tier":     r.DeterminismTier,
		"seed":                 r.Seed,
		"corpus_snapshot_hash": r.CorpusSnapshotHash,
		"registry_hash":        r.RegistryHash,
		"candidates":           cands,
		"diagnostics":          map[string]any{"warnings": toAnySlice(r.Diagnostics.Warnings)},
	}
}

// NewResponse computes response_id as a typed hash of the rest of the
// response (spec §3).
func NewResponse(r Response) (Response, error) {
	h, err := typedhash.HashValue(typedhash.KindResponse, canon.Permissive, responseCanonValue(r))
	if err != nil {
		return Response{}, err
	}
	r.ResponseID = h.String()
	return r, nil
}
