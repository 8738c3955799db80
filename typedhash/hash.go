// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package typedhash implements the domain-separated SHA-256 hashing
// scheme of spec §4.2: the same bytes hashed under two different kinds
// always produce different identities. Grounded on the teacher's
// ringtail/certificate.go ([32]byte fields, crypto/sha256,
// encoding/binary) for the raw fixed-size hash idiom.
package typedhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

// Size is the byte length of every Hash value.
const Size = sha256.Size

const hashPrefix = "sha256:"

// Hash is a 32-byte content identity, always printed as "sha256:" plus
// 64 lowercase hex characters. It is the only form that crosses a
// process boundary (spec §4.2 Policy); raw bytes never leave this
// package's callers.
type Hash [Size]byte

// String renders h in its canonical "sha256:"+hex textual form.
func (h Hash) String() string {
	return hashPrefix + hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero hash (used as chain_digest_-1).
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Bytes returns a copy of h's raw 32 bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

// Parse decodes the canonical "sha256:"+hex textual form. A bare 64-char
// hex string is accepted as a backwards-compatibility shim (spec §4.2
// Policy) but Parse, like String, never emits that form.
func Parse(s string) (Hash, error) {
	hexPart := s
	if strings.HasPrefix(s, hashPrefix) {
		hexPart = s[len(hashPrefix):]
	}
	if len(hexPart) != 2*Size {
		return Hash{}, &kernelerr.BadHashFormat{Value: s}
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return Hash{}, &kernelerr.BadHashFormat{Value: s}
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// FromRaw wraps exactly Size raw bytes as a Hash.
func FromRaw(b []byte) (Hash, error) {
	if len(b) != Size {
		return Hash{}, &kernelerr.BadHashFormat{Value: hex.EncodeToString(b)}
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// MarshalJSON implements json.Marshaler, always emitting the "sha256:"
// form.
func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting either form per
// the backwards-compatibility shim.
func (h *Hash) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
