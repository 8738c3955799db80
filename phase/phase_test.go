// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package phase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

func TestMachine_StartsInAcquisition(t *testing.T) {
	require := require.New(t)

	m := New()
	require.Equal(Acquisition, m.Current())
	require.Empty(m.History())
}

func TestMachine_HappyPathToTerminated(t *testing.T) {
	require := require.New(t)

	m := New()
	require.NoError(m.Transition(Construction, "evidence gathered", 1, 1))
	require.NoError(m.Transition(Reasoning, "built context", 2, 2))
	require.NoError(m.Transition(Validation, "reasoned", 3, 3))
	require.NoError(m.Transition(Terminated, "validated", 4, 4))

	require.Equal(Terminated, m.Current())
	require.True(m.Terminal())
	require.Len(m.History(), 4)
}

func TestMachine_RecoveryLoopsBackToReasoning(t *testing.T) {
	require := require.New(t)

	m := New()
	require.NoError(m.Transition(Construction, "", 0, 0))
	require.NoError(m.Transition(Reasoning, "", 0, 0))
	require.NoError(m.Transition(Validation, "", 0, 0))
	require.NoError(m.Transition(Recovery, "validation failed", 0, 0))
	require.NoError(m.Transition(Reasoning, "retry", 0, 0))

	require.Equal(Reasoning, m.Current())
}

func TestMachine_IllegalTransitionRejected(t *testing.T) {
	require := require.New(t)

	m := New()
	err := m.Transition(Validation, "skip ahead", 0, 0)

	require.Error(err)
	require.ErrorIs(err, &kernelerr.IllegalTransition{})
	require.Equal(Acquisition, m.Current(), "machine state must not change on a rejected transition")
}

func TestMachine_TerminatedHasNoOutgoingEdges(t *testing.T) {
	require := require.New(t)

	m := New()
	require.NoError(m.Transition(Construction, "", 0, 0))
	require.NoError(m.Transition(Reasoning, "", 0, 0))
	require.NoError(m.Transition(Validation, "", 0, 0))
	require.NoError(m.Transition(Terminated, "", 0, 0))

	require.False(m.CanTransition(Recovery))
	require.False(m.CanTransition(Reasoning))
}

func TestMachine_CanTransitionDoesNotMutate(t *testing.T) {
	require := require.New(t)

	m := New()
	require.True(m.CanTransition(Construction))
	require.Equal(Acquisition, m.Current())
	require.Empty(m.History())
}
