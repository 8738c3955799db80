// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package typedhash

import (
	"crypto/sha256"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

// Kind identifies an object kind for domain separation. Adding a new kind
// is an API change — the separator table below is the single source of
// truth, not an open registration mechanism (Design Notes: sum-typed
// variants over inheritance).
type Kind string

const (
	KindReceiptID  Kind = "receipt_id"
	KindChain      Kind = "chain"
	KindRegistry   Kind = "registry"
	KindRequest    Kind = "request"
	KindCandidate  Kind = "candidate"
	KindResponse   Kind = "response"
	KindGateStack  Kind = "gate_stack"
	KindCorpusSnap Kind = "corpus_snapshot"
)

// MerkleLeafDomain and MerkleInternalDomain are the single-byte domain
// separators spec §3/§4.10 fix for Merkle tree nodes. They are hashed
// with RawHash, not TypedHash, since Merkle inputs are raw bytes, not
// canonicalizable JSON values.
const (
	MerkleLeafDomain     byte = 0x00
	MerkleInternalDomain byte = 0x01
)

var domainSeparators = map[Kind][]byte{
	KindReceiptID: []byte("COH_RECEIPT_ID_V1\n"),
	KindChain:     []byte("COH_CHAIN_DIGEST_V1\n"),
	KindRegistry:  []byte("COH_REGISTRY_V1\n"),

	// Proposal-pipeline objects share the "NPE|1.0|<kind>|" family (spec §3).
	KindRequest:    []byte("NPE|1.0|request|"),
	KindCandidate:  []byte("NPE|1.0|candidate|"),
	KindResponse:   []byte("NPE|1.0|response|"),
	KindGateStack:  []byte("NPE|1.0|gate_stack|"),
	KindCorpusSnap: []byte("NPE|1.0|corpus_snapshot|"),
}

// TypedHash computes sha256(domain[kind] || canonicalBytes). canonicalBytes
// must already be the output of canon.Canonicalize — this function never
// canonicalizes on the caller's behalf, so the same canonical bytes
// hashed under two kinds are guaranteed to diverge (domain separation,
// spec §8 Laws).
func TypedHash(kind Kind, canonicalBytes []byte) (Hash, error) {
	domain, ok := domainSeparators[kind]
	if !ok {
		return Hash{}, &kernelerr.InvalidRequest{Reason: "unknown typed-hash kind: " + string(kind)}
	}
	h := sha256.New()
	h.Write(domain)
	h.Write(canonicalBytes)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// ChainDigest computes chain_digest_n = typed_hash("chain", prev || id)
// directly over raw 32-byte inputs, with no canonicalization step (spec
// §4.2). prev is the zero Hash for chain_digest_0.
func ChainDigest(prev, receiptID Hash) Hash {
	h := sha256.New()
	h.Write(domainSeparators[KindChain])
	h.Write(prev[:])
	h.Write(receiptID[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// RawHash computes sha256(domainByte || payload) for inputs that are
// already raw bytes rather than canonicalizable values — the Merkle
// builder's leaf and internal node hashing (spec §4.10).
func RawHash(domainByte byte, payload []byte) Hash {
	h := sha256.New()
	h.Write([]byte{domainByte})
	h.Write(payload)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
