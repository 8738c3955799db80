// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "time"

// systemClock reads the real wall clock. It is the only Clock
// implementation allowed to call time.Now — everywhere else in the kernel
// takes a Clock value instead.
type systemClock struct{}

// Now returns the current wall-clock time.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the real wall clock, for use at
// the system boundary (cmd/ entrypoints, embedding hosts).
func SystemClock() Clock { return systemClock{} }

// DefaultKernelConfig returns the baseline configuration: permissive
// canonicalization, soft-progress gating, moderate gate thresholds.
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		Signer:       "kernel",
		CanonProfile: ProfilePermissive,
		Gates: GateThresholds{
			EvidenceThreshold: 0.7,
			EvidenceMinCount:  1,
			EvidenceStrict:    false,
			CoherenceThreshold: 0.7,
			CoherenceStrict:    false,
		},
		Budget: BudgetSteps{
			Initial:     1.0,
			Floor:       0.3,
			DegradeFail: 0.05,
			DegradeWarn: 0.02,
			Recover:     0.01,
		},
		Scores: ScoringWeights{
			Risk:       0.25,
			Utility:    0.35,
			Cost:       0.20,
			Confidence: 0.20,
		},
		DefaultRequestBudget: RequestBudget{
			MaxWallMS:           5000,
			MaxCandidates:       10,
			MaxEvidenceItems:    50,
			MaxSearchExpansions: 20,
		},
		StrictMode:         false,
		ChainDigestEnabled: true,
	}
}

// StrictKernelConfig is DefaultKernelConfig with the consensus
// canonicalization profile and unconditional all_passed gating — used by
// embeddings that attest episode outcomes externally (Merkle profile).
func StrictKernelConfig() KernelConfig {
	c := DefaultKernelConfig()
	c.CanonProfile = ProfileConsensus
	c.StrictMode = true
	c.Gates.EvidenceStrict = true
	c.Gates.CoherenceStrict = true
	return c
}

// TestKernelConfig is tuned for fast, deterministic unit tests: tiny
// request budgets, the default gate thresholds, no wall-clock dependency
// (caller must still set Clock and SigningKey).
func TestKernelConfig() KernelConfig {
	c := DefaultKernelConfig()
	c.DefaultRequestBudget = RequestBudget{
		MaxWallMS:           100,
		MaxCandidates:       5,
		MaxEvidenceItems:    5,
		MaxSearchExpansions: 5,
	}
	return c
}

// PresetNames returns all available preset names.
func PresetNames() []string {
	return []string{"default", "strict", "test"}
}

// PresetByName resolves a preset config by name, for cmd/ entrypoints
// that accept a --preset flag.
func PresetByName(name string) (KernelConfig, error) {
	switch name {
	case "default", "":
		return DefaultKernelConfig(), nil
	case "strict":
		return StrictKernelConfig(), nil
	case "test":
		return TestKernelConfig(), nil
	default:
		return KernelConfig{}, ErrUnknownPreset
	}
}
