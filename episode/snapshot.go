// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package episode

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/budget"
	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/phase"
	"github.com/noeticanlabs/cnsc-haai-sub001/receipt"
)

// Snapshot is a point-in-time, serializable copy of an episode's
// resumable state: phase history, coherence budget level, and the
// receipt ids emitted so far. It does not carry the receipt bodies
// themselves — those stay in whatever store the host persists
// alongside the snapshot (spec §5's persistent-storage suspension
// point).
type Snapshot struct {
	EpisodeID      string
	Goal           string
	CurrentPhase   phase.Phase
	PhaseHistory   []phase.Transition
	BudgetCurrent  float64
	ReceiptIDs     []string
	StepsCompleted int
	Abstractions   int
	StartMS        int64
}

// Snapshot captures the episode's current resumable state.
func (e *Episode) Snapshot() Snapshot {
	ids := e.store.ByEpisode(e.id)
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	return Snapshot{
		EpisodeID:      e.id,
		Goal:           e.goal,
		CurrentPhase:   e.phases.Current(),
		PhaseHistory:   e.phases.History(),
		BudgetCurrent:  e.budget.Current(),
		ReceiptIDs:     idStrs,
		StepsCompleted: e.stepsCompleted,
		Abstractions:   e.abstractions,
		StartMS:        e.startMS,
	}
}

// Restore rebuilds an Episode from a Snapshot and the store the
// receipts actually live in — store must already contain every receipt
// id the snapshot references; Restore does not re-derive receipt
// content, only the executor's in-memory state around it.
func Restore(cfg config.KernelConfig, log logging.Logger, snap Snapshot, store *receipt.Store) *Episode {
	e := &Episode{
		id:             snap.EpisodeID,
		goal:           snap.Goal,
		cfg:            cfg,
		clock:          cfg.Clock,
		log:            logging.Named(log, "episode"),
		budget:         budget.Restore(cfg.Budget, snap.BudgetCurrent),
		phases:         phase.New(),
		store:          store,
		stepsCompleted: snap.StepsCompleted,
		abstractions:   snap.Abstractions,
		startMS:        snap.StartMS,
	}
	e.replayPhaseHistory(snap.PhaseHistory)
	return e
}

// replayPhaseHistory re-applies each recorded transition so the phase
// machine's current state and history match the snapshot exactly.
func (e *Episode) replayPhaseHistory(history []phase.Transition) {
	for _, t := range history {
		_ = e.phases.Transition(t.To, t.Reason, t.AtMS, t.StepsCompleted)
	}
}
