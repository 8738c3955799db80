// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle implements the Merkle Builder (spec §4.10, consensus
// profile): a domain-separated binary tree over leaf bytes, used for
// external attestation of a response's candidate set or receipt chain.
//
// Grounded on the teacher's witness package (witness/witness.go), which
// built a Verkle-style polynomial-commitment witness over validator
// state. That scheme needs a trusted setup and field-element
// arithmetic this kernel has no other use for; spec §4.10 instead fixes
// a plain binary Merkle tree with byte-domain separation, so the
// witness shape (a Provider producing proofs the caller verifies) is
// kept but the commitment math is replaced outright.
package merkle

import (
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// Side indicates which side of an internal node a sibling sits on
// while walking an inclusion proof toward the root.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// ProofStep is one (side, hash) pair in an inclusion proof.
type ProofStep struct {
	Side Side
	Hash typedhash.Hash
}

// Tree is a built Merkle tree: every level's node hashes, kept so
// Prove can reconstruct a path without rehashing the whole tree.
type Tree struct {
	levels [][]typedhash.Hash // levels[0] = leaves, levels[len-1] = {root}
	count  int                // original, pre-duplication leaf count
}

// Build hashes each leaf under the leaf domain, then folds pairs under
// the internal domain up to a single root, duplicating an odd last
// child at each level (spec §4.10).
func Build(leaves [][]byte) *Tree {
	level := make([]typedhash.Hash, len(leaves))
	for i, l := range leaves {
		level[i] = typedhash.RawHash(typedhash.MerkleLeafDomain, l)
	}

	levels := [][]typedhash.Hash{level}
	for len(level) > 1 {
		level = foldLevel(level)
		levels = append(levels, level)
	}

	return &Tree{levels: levels, count: len(leaves)}
}

func foldLevel(level []typedhash.Hash) []typedhash.Hash {
	next := make([]typedhash.Hash, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := left
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, internalHash(left, right))
	}
	return next
}

func internalHash(left, right typedhash.Hash) typedhash.Hash {
	payload := make([]byte, 0, 2*typedhash.Size)
	payload = append(payload, left.Bytes()...)
	payload = append(payload, right.Bytes()...)
	return typedhash.RawHash(typedhash.MerkleInternalDomain, payload)
}

// Root returns the tree's root hash. A tree built from zero leaves has
// a zero root.
func (t *Tree) Root() typedhash.Hash {
	if len(t.levels) == 0 {
		return typedhash.Hash{}
	}
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return typedhash.Hash{}
	}
	return top[0]
}

// Prove builds the inclusion proof for leaf i: the ordered list of
// (side, hash) pairs walking from the leaf to the root.
func (t *Tree) Prove(i int) ([]ProofStep, bool) {
	if i < 0 || i >= t.count {
		return nil, false
	}

	var proof []ProofStep
	idx := i
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		siblingIdx := idx ^ 1
		if siblingIdx >= len(nodes) {
			siblingIdx = idx // odd last child was duplicated against itself
		}

		side := Right
		if siblingIdx < idx {
			side = Left
		}
		proof = append(proof, ProofStep{Side: side, Hash: nodes[siblingIdx]})
		idx /= 2
	}
	return proof, true
}

// Verify recomputes the root from leaf and its proof, returning
// whether it matches root.
func Verify(leaf []byte, proof []ProofStep, root typedhash.Hash) bool {
	current := typedhash.RawHash(typedhash.MerkleLeafDomain, leaf)
	for _, step := range proof {
		if step.Side == Left {
			current = internalHash(step.Hash, current)
		} else {
			current = internalHash(current, step.Hash)
		}
	}
	return current == root
}
