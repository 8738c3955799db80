// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package phase implements the Phase Machine (spec §4.6): a fixed DAG
// of episode phases with transition history. Grounded on the teacher's
// engine/core state-transition shape, generalized from consensus
// decision states to the kernel's fixed reasoning phases.
package phase

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

// Phase is one node in the fixed phase DAG (spec §4.6).
type Phase string

const (
	Acquisition  Phase = "acquisition"
	Construction Phase = "construction"
	Reasoning    Phase = "reasoning"
	Validation   Phase = "validation"
	Recovery     Phase = "recovery"
	Terminated   Phase = "terminated"
)

// allowed is the fixed transition table: Acquisition -> Construction ->
// Reasoning -> Validation -> {Recovery, Terminated}; Recovery ->
// Reasoning | Terminated. There is no open registration of new edges —
// adding one is an API change.
var allowed = map[Phase]map[Phase]bool{
	Acquisition:  {Construction: true},
	Construction: {Reasoning: true},
	Reasoning:    {Validation: true},
	Validation:   {Recovery: true, Terminated: true},
	Recovery:     {Reasoning: true, Terminated: true},
	Terminated:   {},
}

// Transition is one recorded move in phase history.
type Transition struct {
	From           Phase
	To             Phase
	Reason         string
	AtMS           int64
	StepsCompleted int
}

// Machine tracks the current phase and its transition history for a
// single episode. Not safe for concurrent use — episodes are
// single-writer (spec §5).
type Machine struct {
	current Phase
	history []Transition
}

// New constructs a Machine starting in Acquisition — the fixed DAG's
// only entry point.
func New() *Machine {
	return &Machine{current: Acquisition}
}

// Current returns the machine's present phase.
func (m *Machine) Current() Phase {
	return m.current
}

// History returns the recorded transitions in order.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// Transition attempts to move from the current phase to to, appending
// a Transition record on success. Attempting an unallowed edge returns
// kernelerr.IllegalTransition and leaves the machine unchanged.
func (m *Machine) Transition(to Phase, reason string, atMS int64, stepsCompleted int) error {
	edges, known := allowed[m.current]
	if !known || !edges[to] {
		return &kernelerr.IllegalTransition{From: string(m.current), To: string(to)}
	}

	m.history = append(m.history, Transition{
		From:           m.current,
		To:             to,
		Reason:         reason,
		AtMS:           atMS,
		StepsCompleted: stepsCompleted,
	})
	m.current = to
	return nil
}

// CanTransition reports whether to is a legal move from the current
// phase, without mutating the machine.
func (m *Machine) CanTransition(to Phase) bool {
	edges, known := allowed[m.current]
	return known && edges[to]
}

// Terminal reports whether the current phase has no outgoing edges.
func (m *Machine) Terminal() bool {
	return m.current == Terminated
}
