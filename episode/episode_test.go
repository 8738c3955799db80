// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package episode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/config"
	"github.com/noeticanlabs/cnsc-haai-sub001/gate"
	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/phase"
	"github.com/noeticanlabs/cnsc-haai-sub001/receipt"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func testConfig() config.KernelConfig {
	c := config.TestKernelConfig()
	c.Clock = &fakeClock{t: time.Unix(0, 0)}
	c.SigningKey = []byte("episode-test-key")
	return c
}

func passGate() *gate.Manager {
	return gate.NewManager([]gate.Gate{
		&gate.External{Capability: "always-pass", Eval: func(gate.Context, gate.State) gate.Result {
			return gate.Result{Decision: gate.Pass}
		}},
	}, gate.Strict, false)
}

func failGate() *gate.Manager {
	return gate.NewManager([]gate.Gate{
		&gate.External{Capability: "always-fail", Eval: func(gate.Context, gate.State) gate.Result {
			return gate.Result{Decision: gate.Fail}
		}},
	}, gate.Strict, false)
}

func TestEpisode_StartEmitsEpisodeStartReceipt(t *testing.T) {
	require := require.New(t)

	e, err := Start(testConfig(), logging.NewNoOp(), "repair flaky test")
	require.NoError(err)
	require.NotEmpty(e.ID())
	require.Equal(phase.Acquisition, e.Phase())
	require.Len(e.Receipts().ByStepKind("episode_start"), 1)
}

func TestEpisode_StepAdvancesOnAllPass(t *testing.T) {
	require := require.New(t)

	e, err := Start(testConfig(), logging.NewNoOp(), "goal")
	require.NoError(err)

	progressed, err := e.Step(phase.Construction, "evidence gathered", passGate(), gate.Context{})
	require.NoError(err)
	require.True(progressed)
	require.Equal(phase.Construction, e.Phase())
}

func TestEpisode_StepDegradesBudgetOnFail(t *testing.T) {
	require := require.New(t)

	e, err := Start(testConfig(), logging.NewNoOp(), "goal")
	require.NoError(err)

	before := e.Budget().Current
	_, err = e.Step(phase.Construction, "attempt", failGate(), gate.Context{})
	require.NoError(err)

	require.Less(e.Budget().Current, before)
}

func TestEpisode_SoftProgressRuleAllowsWarnWhileHealthy(t *testing.T) {
	require := require.New(t)

	warnMgr := gate.NewManager([]gate.Gate{
		&gate.External{Capability: "warn", Eval: func(gate.Context, gate.State) gate.Result {
			return gate.Result{Decision: gate.Warn}
		}},
	}, gate.Strict, false)

	e, err := Start(testConfig(), logging.NewNoOp(), "goal")
	require.NoError(err)

	progressed, err := e.Step(phase.Construction, "attempt", warnMgr, gate.Context{})
	require.NoError(err)
	require.True(progressed, "a Warn result while still healthy should permit soft progress")
}

func TestEpisode_StrictModeRequiresAllPassed(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.StrictMode = true

	warnMgr := gate.NewManager([]gate.Gate{
		&gate.External{Capability: "warn", Eval: func(gate.Context, gate.State) gate.Result {
			return gate.Result{Decision: gate.Warn}
		}},
	}, gate.Strict, false)

	e, err := Start(cfg, logging.NewNoOp(), "goal")
	require.NoError(err)

	progressed, err := e.Step(phase.Construction, "attempt", warnMgr, gate.Context{})
	require.NoError(err)
	require.False(progressed, "strict mode must require all_passed unconditionally")
}

func TestEpisode_IllegalTransitionPropagates(t *testing.T) {
	require := require.New(t)

	e, err := Start(testConfig(), logging.NewNoOp(), "goal")
	require.NoError(err)

	_, err = e.Step(phase.Validation, "skip ahead", passGate(), gate.Context{})
	require.Error(err)
}

func TestEpisode_FinishEmitsEpisodeEndReceipt(t *testing.T) {
	require := require.New(t)

	e, err := Start(testConfig(), logging.NewNoOp(), "goal")
	require.NoError(err)

	result, err := e.Finish(true)
	require.NoError(err)
	require.True(result.Success)
	require.Equal(e.ID(), result.EpisodeID)
	require.Len(e.Receipts().ByStepKind("episode_end"), 1)
}

// TestEpisode_SeedScenario_EvidenceStarvation reproduces spec §8 seed
// scenario 2: an empty evidence list against a strict min_count=3 gate
// fails at the Acquisition->Construction step, degrades coherence by at
// least the default fail step, and still leaves a verifiable chain of
// at least episode_start, gate_validation, episode_end.
func TestEpisode_SeedScenario_EvidenceStarvation(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Budget.Initial = 0.5

	e, err := Start(cfg, logging.NewNoOp(), "g")
	require.NoError(err)

	before := e.Budget().Current

	mgr := gate.NewManager([]gate.Gate{
		&gate.EvidenceSufficiency{Threshold: 0.8, MinCount: 3, Strict: true},
	}, gate.Strict, false)

	ctx := gate.Context{
		Evidence:       nil,
		RequiredClaims: []string{"e1", "e2"},
	}

	progressed, err := e.Step(phase.Construction, "evidence gathered", mgr, ctx)
	require.NoError(err)
	require.False(progressed, "executor must report failure when evidence is starved")
	require.LessOrEqual(e.Budget().Current, before-0.05)

	chain := e.Receipts().ByEpisode(e.ID())
	require.GreaterOrEqual(len(chain), 3)
	require.Len(e.Receipts().ByStepKind("episode_start"), 1)
	require.Len(e.Receipts().ByStepKind("gate_validation"), 1)

	_, err = e.Finish(false)
	require.NoError(err)
	require.Len(e.Receipts().ByStepKind("episode_end"), 1)
}

// TestEpisode_SeedScenario_ContradictionUnderTightBudget reproduces spec
// §8 seed scenario 3: a conclusion contradicting a must_not constraint
// fails the strict coherence-check gate, and the already-tight budget
// collapses below its floor — Step must short-circuit (no
// phase_transition receipt for the attempted phase) and report failure,
// while the chain so far still verifies.
func TestEpisode_SeedScenario_ContradictionUnderTightBudget(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Budget.Initial = 0.35
	cfg.Budget.Floor = 0.32
	cfg.Budget.DegradeFail = 0.05

	e, err := Start(cfg, logging.NewNoOp(), "g")
	require.NoError(err)
	require.True(e.CanProceed())

	mgr := gate.NewManager([]gate.Gate{
		&gate.CoherenceCheck{Threshold: 0.9, Strict: true},
	}, gate.Strict, false)

	ctx := gate.Context{
		Conclusions: []string{"c1"},
		Constraints: []gate.Constraint{{Kind: gate.MustNot, Value: "c1"}},
	}

	progressed, err := e.Step(phase.Construction, "derive conclusions", mgr, ctx)
	require.NoError(err)
	require.False(progressed)
	require.False(e.CanProceed(), "budget must have collapsed below the floor")
	require.Empty(e.Receipts().ByStepKind("phase_transition"), "a critical short-circuit must not emit the step's own phase_transition receipt")

	require.NoError(receipt.VerifyEpisode(e.Receipts(), e.ID(), cfg.SigningKey))
}

// TestEpisode_CriticalBudgetAutoTransitionsToRecovery exercises spec
// §4.4's gating rule directly: when a step's failure collapses the
// budget below the floor while Recovery is a legal next phase (i.e. the
// episode was stepping out of Validation), Step performs and records
// that move itself instead of leaving the phase where it landed.
func TestEpisode_CriticalBudgetAutoTransitionsToRecovery(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	// Initial is set low enough that two prior Pass steps' default Recover
	// (0.01 each, per TestKernelConfig) still leave the subsequent Fail's
	// DegradeFail (0.05) pushing current below Floor: 0.33+0.01+0.01-0.05=0.30.
	cfg.Budget.Initial = 0.33
	cfg.Budget.Floor = 0.32
	cfg.Budget.DegradeFail = 0.05

	e, err := Start(cfg, logging.NewNoOp(), "g")
	require.NoError(err)

	_, err = e.Step(phase.Construction, "advance", passGate(), gate.Context{})
	require.NoError(err)
	_, err = e.Step(phase.Reasoning, "advance", passGate(), gate.Context{})
	require.NoError(err)

	transitionsBefore := len(e.Receipts().ByStepKind("phase_transition"))

	mgr := gate.NewManager([]gate.Gate{
		&gate.CoherenceCheck{Threshold: 0.9, Strict: true},
	}, gate.Strict, false)
	ctx := gate.Context{
		Conclusions: []string{"c1"},
		Constraints: []gate.Constraint{{Kind: gate.MustNot, Value: "c1"}},
	}

	progressed, err := e.Step(phase.Validation, "collapse", mgr, ctx)
	require.NoError(err)
	require.False(progressed)
	require.Equal(phase.Recovery, e.Phase(), "crossing the floor out of Validation must auto-transition into Recovery")
	require.Len(e.Receipts().ByStepKind("phase_transition"), transitionsBefore+1, "the auto Recovery move must itself be recorded as a phase_transition receipt")
}

func TestEpisode_SnapshotRestoreRoundTrip(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	e, err := Start(cfg, logging.NewNoOp(), "goal")
	require.NoError(err)

	_, err = e.Step(phase.Construction, "attempt", passGate(), gate.Context{})
	require.NoError(err)

	snap := e.Snapshot()
	restored := Restore(cfg, logging.NewNoOp(), snap, e.Receipts())

	require.Equal(e.ID(), restored.ID())
	require.Equal(e.Phase(), restored.Phase())
	require.Equal(e.Budget().Current, restored.Budget().Current)
}
