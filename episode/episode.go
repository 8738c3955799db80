// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package episode implements the Episode Executor (spec §4.7): the
// component that composes a coherence budget, a gate manager, a phase
// machine, and a receipt store into one bounded reasoning session.
//
// Grounded on the teacher's engine/lux_consensus.go top-level
// orchestration shape (one struct wiring together the independently
// testable subsystems), generalized from consensus-round orchestration
// to episode-step orchestration.
package episode

import (
	"github.com/google/uuid"

	"github.com/noeticanlabs/cnsc-haai-sub001/budget"
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/gate"
	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/phase"
	"github.com/noeticanlabs/cnsc-haai-sub001/receipt"
)

// Result is the summary an episode reports on completion (spec §4.7).
type Result struct {
	EpisodeID           string
	Success             bool
	FinalPhase          phase.Phase
	CoherenceStatus     budget.View
	AbstractionsCreated int
	ReceiptsGenerated   int
	DurationMS          int64
	Goal                string
	StepsCompleted      int
}

// Episode is a single bounded reasoning session: its own coherence
// budget, phase machine, and receipt chain. Not safe for concurrent use
// — single-writer by construction (spec §5).
type Episode struct {
	id     string
	goal   string
	cfg    config.KernelConfig
	clock  config.Clock
	log    logging.Logger
	budget *budget.Budget
	phases *phase.Machine
	store  *receipt.Store

	startMS        int64
	stepsCompleted int
	abstractions   int
	parentReceipts []string
}

// Start assigns a fresh episode_id, initializes the coherence budget
// from cfg, transitions to Acquisition, and emits the episode_start
// receipt (spec §4.7 "Start").
func Start(cfg config.KernelConfig, log logging.Logger, goal string) (*Episode, error) {
	id := uuid.New().String()
	now := cfg.Clock.Now().UnixMilli()

	named := logging.Named(log, "episode")
	e := &Episode{
		id:      id,
		goal:    goal,
		cfg:     cfg,
		clock:   cfg.Clock,
		log:     named,
		budget:  budget.New(cfg.Budget),
		phases:  phase.New(),
		store:   receipt.NewStore(cfg.ChainDigestEnabled).WithLogger(named),
		startMS: now,
	}

	e.log.Info("episode started", "episode_id", id, "goal", goal)

	core := receipt.Core{
		Version:     receipt.Version,
		EpisodeID:   id,
		StepKind:    receipt.StepEpisodeStart,
		Details:     map[string]any{"goal": goal},
		TimestampMS: now,
	}
	r, err := receipt.Sign(core, cfg.Signer, cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	if err := e.store.Emit(r); err != nil {
		return nil, err
	}
	e.parentReceipts = append(e.parentReceipts, r.ReceiptID.String())

	return e, nil
}

// ID returns the episode's opaque identifier.
func (e *Episode) ID() string { return e.id }

// Phase returns the episode's current phase.
func (e *Episode) Phase() phase.Phase { return e.phases.Current() }

// Budget returns a read-only snapshot of the coherence budget.
func (e *Episode) Budget() budget.View { return e.budget.Check() }

// Receipts returns the episode's receipt store, for callers that need
// to verify or export the chain.
func (e *Episode) Receipts() *receipt.Store { return e.store }

// Step performs one phase step (spec §4.7 "Per-phase step"): transition
// to the target phase, evaluate the gate manager, emit a
// gate_validation receipt per result, update the coherence budget, and
// emit a phase_transition receipt summarizing the step. It reports
// whether the episode may advance: all_passed ∨ is_healthy, unless
// StrictMode forces all_passed unconditionally (spec §9 open question).
//
// Per step 5, once the coherence budget no longer permits continuation
// (¬can_proceed), Step returns failure immediately and leaves running
// Recovery to the caller — it does not emit the step's own
// phase_transition receipt for the phase the caller asked for. The one
// exception is spec §4.4's gating rule itself: Validation is the only
// phase with an outgoing edge to Recovery, so a step that lands in
// Validation and then collapses the budget below the floor performs
// and records that Recovery move itself, rather than leaving the
// episode sitting in Validation for the caller to notice and react to.
// In every other phase, the phase is left where step 1 put it and the
// caller decides whether to run Recovery next.
func (e *Episode) Step(to phase.Phase, reason string, mgr *gate.Manager, ctx gate.Context) (bool, error) {
	stepStartMS := e.clock.Now().UnixMilli()

	if err := e.phases.Transition(to, reason, stepStartMS, e.stepsCompleted); err != nil {
		e.log.Warn("phase transition rejected", "episode_id", e.id, "to_phase", string(to), "error", err.Error())
		return false, err
	}

	mgr.WithObservability(e.log, nil)

	state := gate.State{
		CoherenceCurrent: e.budget.Current(),
		IsHealthy:        e.budget.Check().Healthy,
	}
	results, allPassed := mgr.EvaluateAll(ctx, state)

	for _, r := range results {
		if err := e.emitGateReceipt(r, stepStartMS); err != nil {
			return false, err
		}
		e.applyBudget(r.Decision)
	}

	e.stepsCompleted++

	if !e.budget.Check().CanProceed {
		e.log.Warn("coherence budget crossed floor", "episode_id", e.id, "current", e.budget.Current())
		if to == phase.Validation && e.phases.CanTransition(phase.Recovery) {
			recoverMS := e.clock.Now().UnixMilli()
			if err := e.phases.Transition(phase.Recovery, "coherence budget crossed floor", recoverMS, e.stepsCompleted); err != nil {
				return false, err
			}
			if err := e.emitPhaseTransitionReceipt(phase.Recovery, recoverMS-stepStartMS); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	endMS := e.clock.Now().UnixMilli()
	if err := e.emitPhaseTransitionReceipt(to, endMS-stepStartMS); err != nil {
		return false, err
	}

	isHealthy := e.budget.Check().Healthy
	progressed := allPassed
	if !e.cfg.StrictMode {
		progressed = allPassed || isHealthy
	}
	return progressed, nil
}

// CanProceed reports whether the episode's coherence budget still
// permits continuation (spec §4.4's gating rule).
func (e *Episode) CanProceed() bool {
	return e.budget.Check().CanProceed
}

func (e *Episode) applyBudget(d gate.Decision) {
	switch d {
	case gate.Fail:
		e.budget.Degrade(0)
	case gate.Warn:
		e.budget.DegradeWarn()
	case gate.Pass:
		e.budget.Recover(0)
	case gate.Skip:
		// no budget effect
	}
}

func (e *Episode) emitGateReceipt(r gate.Result, atMS int64) error {
	d := receipt.Decision(r.Decision)
	core := receipt.Core{
		Version:     receipt.Version,
		EpisodeID:   e.id,
		StepKind:    receipt.StepGateValidation,
		Decision:    &d,
		Details:     map[string]any{"gate_kind": string(r.Kind), "message": r.Message},
		TimestampMS: atMS,
	}
	rec, err := receipt.Sign(core, e.cfg.Signer, e.cfg.SigningKey)
	if err != nil {
		return err
	}
	return e.store.Emit(rec)
}

func (e *Episode) emitPhaseTransitionReceipt(to phase.Phase, durationMS int64) error {
	core := receipt.Core{
		Version:   receipt.Version,
		EpisodeID: e.id,
		StepKind:  receipt.StepPhaseTransition,
		Details: map[string]any{
			"to_phase":        string(to),
			"duration_ms":     durationMS,
			"steps_completed": e.stepsCompleted,
		},
		TimestampMS: e.clock.Now().UnixMilli(),
	}
	rec, err := receipt.Sign(core, e.cfg.Signer, e.cfg.SigningKey)
	if err != nil {
		return err
	}
	return e.store.Emit(rec)
}

// RecordAbstraction marks that this step produced a new abstraction,
// reflected in the final Result's AbstractionsCreated count.
func (e *Episode) RecordAbstraction() {
	e.abstractions++
}

// Finish emits the episode_end receipt and returns the aggregate
// Result (spec §4.7 "Finish").
func (e *Episode) Finish(success bool) (Result, error) {
	nowMS := e.clock.Now().UnixMilli()
	core := receipt.Core{
		Version:   receipt.Version,
		EpisodeID: e.id,
		StepKind:  receipt.StepEpisodeEnd,
		Details: map[string]any{
			"success":     success,
			"final_phase": string(e.phases.Current()),
			"duration_ms": nowMS - e.startMS,
		},
		TimestampMS: nowMS,
	}
	rec, err := receipt.Sign(core, e.cfg.Signer, e.cfg.SigningKey)
	if err != nil {
		return Result{}, err
	}
	if err := e.store.Emit(rec); err != nil {
		return Result{}, err
	}

	e.log.Info("episode finished", "episode_id", e.id, "success", success, "final_phase", string(e.phases.Current()))

	return Result{
		EpisodeID:           e.id,
		Success:             success,
		FinalPhase:          e.phases.Current(),
		CoherenceStatus:     e.budget.Check(),
		AbstractionsCreated: e.abstractions,
		ReceiptsGenerated:   len(e.store.ByEpisode(e.id)),
		DurationMS:          nowMS - e.startMS,
		Goal:                e.goal,
		StepsCompleted:      e.stepsCompleted,
	}, nil
}
