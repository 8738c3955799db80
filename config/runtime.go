// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "sync"

// processDefault is the one legitimate process-wide global in this
// module: a snapshot a cmd/ entrypoint can stash before any KernelConfig
// exists, and that later flag/env parsing can override. Core packages
// (canon, typedhash, receipt, budget, gate, phase, episode, proposer,
// candidate, registry, merkle) never read this — they only ever see a
// KernelConfig value passed to their constructors.
var (
	processMu      sync.RWMutex
	processDefault KernelConfig
	processSet     bool
)

// SetProcessDefault stashes a config as the process-wide default, for use
// by cmd/ entrypoints before any explicit config is wired through.
func SetProcessDefault(c KernelConfig) {
	processMu.Lock()
	defer processMu.Unlock()
	processDefault = c
	processSet = true
}

// ProcessDefault returns the process-wide default, falling back to
// DefaultKernelConfig if none was set.
func ProcessDefault() KernelConfig {
	processMu.RLock()
	defer processMu.RUnlock()
	if !processSet {
		return DefaultKernelConfig()
	}
	return processDefault
}

// Override applies a bounded set of named overrides to a copy of c. Only
// the fields a cmd/ entrypoint plausibly exposes as flags are supported;
// unknown keys are ignored rather than erroring, matching the teacher's
// OverrideRuntime tolerance for forward-compatible flag sets.
func Override(c KernelConfig, updates map[string]float64) KernelConfig {
	for k, v := range updates {
		switch k {
		case "gates.evidenceThreshold":
			c.Gates.EvidenceThreshold = v
		case "gates.coherenceThreshold":
			c.Gates.CoherenceThreshold = v
		case "budget.floor":
			c.Budget.Floor = v
		case "budget.degradeFail":
			c.Budget.DegradeFail = v
		case "budget.degradeWarn":
			c.Budget.DegradeWarn = v
		case "budget.recover":
			c.Budget.Recover = v
		}
	}
	return c
}
