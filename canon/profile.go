// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package canon implements the RFC-8785-style deterministic JSON byte
// serialization the rest of the kernel hashes and signs over (spec §3,
// §4.1). Two profiles coexist: consensus (integers only) and permissive
// (finite floats allowed); each produces exactly one byte sequence per
// accepted input.
//
// Grounded on the teacher's codec package (codec/codec.go) for the
// package-level "one codec, one version const" shape; the body is new —
// the teacher's codec is a plain encoding/json passthrough with no
// canonicalization requirement.
package canon

import "github.com/noeticanlabs/cnsc-haai-sub001/config"

// Profile selects which canonicalization rules a call applies. Re-exported
// from config so call sites only need to import one package for the enum.
type Profile = config.CanonProfile

const (
	// Consensus rejects all floating-point numbers (spec §3).
	Consensus = config.ProfileConsensus
	// Permissive allows finite floats in lossless decimal form.
	Permissive = config.ProfilePermissive
)
