// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package proposer implements the Proposer Dispatcher (spec §4.8):
// deterministic ordered invocation of registered proposers under a
// soft wall-clock budget, with localized per-proposer failure handling.
//
// Grounded on the teacher's engine orchestration loop shape (invoke
// each registered component in a fixed order, tally results, never let
// one component's failure abort the others), generalized from
// consensus-engine polling to proposer dispatch.
package proposer

import (
	"context"

	"github.com/noeticanlabs/cnsc-haai-sub001/candidate"
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
	"github.com/noeticanlabs/cnsc-haai-sub001/metrics"
)

// Proposer is the capability every registered module implements: given
// a context and its sub-budget, produce zero or more candidates.
type Proposer interface {
	ID() string
	Propose(ctx context.Context, reqCtx ProposalContext, sub config.RequestBudget) ([]candidate.Candidate, error)
}

// ProposalContext is the claim-specific input every proposer receives.
// Opaque to the dispatcher — it only threads it through.
type ProposalContext struct {
	Domain          string
	InputStateHash  string
	ConstraintsHash string
	Extra           map[string]any
}

// Enforcer tracks cumulative resource use across a dispatch (spec
// §4.8's "budget enforcer"). All checks are advisory — a proposer may
// overrun and the dispatcher truncates its contribution at return time.
type Enforcer struct {
	WallMSUsed          int64
	CandidatesGenerated int
	EvidenceRetrieved   int
	SearchExpansions    int
}

// WithinBudget reports whether the enforcer's tallies are still inside
// budget's limits.
func (e *Enforcer) WithinBudget(budget config.RequestBudget) bool {
	return e.WallMSUsed < budget.MaxWallMS &&
		e.CandidatesGenerated < budget.MaxCandidates &&
		e.EvidenceRetrieved < budget.MaxEvidenceItems &&
		e.SearchExpansions < budget.MaxSearchExpansions
}

// Invocation records one proposer's outcome for dispatch diagnostics.
type Invocation struct {
	ProposerID      string
	InvocationOrder int
	ElapsedMS       int64
	CandidateCount  int
	Err             error
}

// Dispatch invokes proposers in order, stopping early once the overall
// budget is exhausted, and isolating any single proposer's failure
// (spec §4.8 "Dispatch").
type Dispatch struct {
	clock  config.Clock
	timing *metrics.DispatchTiming
	budget config.RequestBudget
	order  []Proposer
}

// New constructs a Dispatch over an ordered proposer list.
func New(order []Proposer, budget config.RequestBudget, clock config.Clock, timing *metrics.DispatchTiming) *Dispatch {
	return &Dispatch{clock: clock, timing: timing, budget: budget, order: order}
}

// Run executes every proposer in order under the dispatcher's budget,
// tagging each candidate's proposer_meta.invocation_order, and returns
// the combined candidates plus per-proposer invocation diagnostics.
func (d *Dispatch) Run(ctx context.Context, reqCtx ProposalContext) ([]candidate.Candidate, []Invocation, *Enforcer) {
	enforcer := &Enforcer{}
	var all []candidate.Candidate
	invocations := make([]Invocation, 0, len(d.order))

	for i, p := range d.order {
		if !enforcer.WithinBudget(d.budget) {
			break
		}

		sub := subBudget(d.budget, enforcer)
		startMS := d.clock.Now().UnixMilli()

		cands, err := d.invoke(ctx, p, reqCtx, sub)
		if len(cands) > sub.MaxCandidates {
			cands = cands[:sub.MaxCandidates]
		}

		elapsed := d.clock.Now().UnixMilli() - startMS
		if d.timing != nil {
			d.timing.Observe(float64(elapsed))
		}

		enforcer.WallMSUsed += elapsed
		enforcer.CandidatesGenerated += len(cands)

		for j := range cands {
			cands[j].ProposerMeta.ProposerID = p.ID()
			cands[j].ProposerMeta.InvocationOrder = i
			cands[j].ProposerMeta.ExecutionTimeMS = elapsed
		}
		all = append(all, cands...)

		invocations = append(invocations, Invocation{
			ProposerID:      p.ID(),
			InvocationOrder: i,
			ElapsedMS:       elapsed,
			CandidateCount:  len(cands),
			Err:             err,
		})
	}

	return all, invocations, enforcer
}

// invoke calls a single proposer, converting a panic-free error return
// into a localized ProposerError — the dispatcher never aborts the
// remaining proposers because one failed.
func (d *Dispatch) invoke(ctx context.Context, p Proposer, reqCtx ProposalContext, sub config.RequestBudget) ([]candidate.Candidate, error) {
	cands, err := p.Propose(ctx, reqCtx, sub)
	if err != nil {
		return nil, &kernelerr.ProposerError{ID: p.ID(), Cause: err}
	}
	return cands, nil
}

// subBudget builds a per-proposer sub-budget from the dispatcher's
// overall request budget intersected with what the enforcer has left.
func subBudget(budget config.RequestBudget, enforcer *Enforcer) config.RequestBudget {
	remaining := func(limit int64, used int64) int64 {
		r := limit - used
		if r < 0 {
			return 0
		}
		return r
	}
	remainingInt := func(limit, used int) int {
		r := limit - used
		if r < 0 {
			return 0
		}
		return r
	}

	return config.RequestBudget{
		MaxWallMS:           remaining(budget.MaxWallMS, enforcer.WallMSUsed),
		MaxCandidates:       remainingInt(budget.MaxCandidates, enforcer.CandidatesGenerated),
		MaxEvidenceItems:    remainingInt(budget.MaxEvidenceItems, enforcer.EvidenceRetrieved),
		MaxSearchExpansions: remainingInt(budget.MaxSearchExpansions, enforcer.SearchExpansions),
	}
}
