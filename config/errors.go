// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	// ErrUnknownPreset is returned when a preset name has no matching config.
	ErrUnknownPreset = errors.New("unknown kernel config preset")

	// ErrMissingSigningKey is returned when a KernelConfig has no signing key.
	ErrMissingSigningKey = errors.New("kernel config missing signing key")

	// ErrMissingClock is returned when a KernelConfig has no injected clock.
	ErrMissingClock = errors.New("kernel config missing clock")
)

// Validate checks the invariants a KernelConfig must hold before it can be
// handed to an episode executor.
func (c KernelConfig) Validate() error {
	if len(c.SigningKey) == 0 {
		return ErrMissingSigningKey
	}
	if c.Clock == nil {
		return ErrMissingClock
	}
	return nil
}
