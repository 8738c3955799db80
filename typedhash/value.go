// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package typedhash

import "github.com/noeticanlabs/cnsc-haai-sub001/canon"

// HashValue canonicalizes v under profile and hashes the result under
// kind, in one step — the common case every component outside receipt
// (which has to split canonicalization and hashing to compute
// content_hash separately) uses.
func HashValue(kind Kind, profile canon.Profile, v any) (Hash, error) {
	bytes, err := canon.Canonicalize(v, profile)
	if err != nil {
		return Hash{}, err
	}
	return TypedHash(kind, bytes)
}
