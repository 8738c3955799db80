// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package receipt implements the Receipt Chain (spec §4.3): an
// append-only, MAC-signed, chain-digest-linked audit trail. A Receipt's
// core is hashed independently of its position in any chain — receipt_id
// is stable; chain_digest is what ties it to its predecessors.
//
// Grounded on the teacher's engine/core.AppError split of identity from
// wire representation, generalized into core/signature split here.
package receipt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/noeticanlabs/cnsc-haai-sub001/canon"
	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// StepKind is the closed set of receipt step kinds (spec §3).
type StepKind string

const (
	StepGateValidation    StepKind = "gate_validation"
	StepPhaseTransition   StepKind = "phase_transition"
	StepRecoveryAction    StepKind = "recovery_action"
	StepManualAnnotation  StepKind = "manual_annotation"
	StepAbstractionCreate StepKind = "abstraction_creation"
	StepEpisodeStart      StepKind = "episode_start"
	StepEpisodeEnd        StepKind = "episode_end"
)

// Decision mirrors gate.Decision at the receipt layer — a receipt may
// record no decision at all (e.g. episode_start), hence the pointer in
// Core rather than this type itself being nullable.
type Decision string

const (
	DecisionPass Decision = "pass"
	DecisionFail Decision = "fail"
	DecisionWarn Decision = "warn"
	DecisionSkip Decision = "skip"
)

const signatureAlgorithm = "HMAC-SHA256"
const Version = "1.0.0"

// Core is every receipt field except its signature — the part
// receipt_id is computed over, and the part that must stay identical
// for two emissions of "the same" decision to share a receipt_id
// regardless of chain position.
type Core struct {
	Version         string
	EpisodeID       string
	StepKind        StepKind
	Decision        *Decision
	InputStateHash  string
	OutputStateHash string
	Details         any
	ParentReceipts  []string
	EvidenceRefs    []string
	TimestampMS     int64
}

// Signature is the MAC attached to a receipt's content.
type Signature struct {
	Algorithm string
	Signer    string
	MACBytes  []byte
}

// Receipt is a Core plus its computed identity and signature.
type Receipt struct {
	Core      Core
	ReceiptID typedhash.Hash
	Signature Signature
}

// canonCore produces the canonicalizable value receipt_id and
// content_hash are both derived from — the core fields, excluding
// signature, in a stable field order.
func canonCore(c Core) map[string]any {
	decision := ""
	if c.Decision != nil {
		decision = string(*c.Decision)
	}
	return map[string]any{
		"version":           c.Version,
		"episode_id":        c.EpisodeID,
		"step_kind":         string(c.StepKind),
		"decision":          decision,
		"input_state_hash":  c.InputStateHash,
		"output_state_hash": c.OutputStateHash,
		"details":           c.Details,
		"parent_receipts":   toAnySlice(c.ParentReceipts),
		"evidence_refs":     toAnySlice(c.EvidenceRefs),
		"timestamp_ms":      c.TimestampMS,
	}
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// contentHash computes content_hash: the canonical digest of
// everything but the signature (spec §3 invariant 3). It reuses the
// receipt_id domain's canonical bytes — content_hash and receipt_id are
// the same typed hash, computed once and reused, per spec §4.3 step 3's
// "equivalent recomputation is permitted."
func contentHash(c Core) (typedhash.Hash, error) {
	bytes, err := canon.Canonicalize(canonCore(c), canon.Permissive)
	if err != nil {
		return typedhash.Hash{}, err
	}
	return typedhash.TypedHash(typedhash.KindReceiptID, bytes)
}

// Sign computes receipt_id and the HMAC-SHA256 signature over
// receipt_id || content_hash, producing a finished Receipt ready to
// persist (spec §3 invariants 1 and 3).
func Sign(core Core, signer string, signingKey []byte) (Receipt, error) {
	id, err := contentHash(core)
	if err != nil {
		return Receipt{}, err
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(id.Bytes())
	mac.Write(id.Bytes()) // content_hash == receipt_id, see contentHash's doc comment
	macBytes := mac.Sum(nil)

	return Receipt{
		Core:      core,
		ReceiptID: id,
		Signature: Signature{
			Algorithm: signatureAlgorithm,
			Signer:    signer,
			MACBytes:  macBytes,
		},
	}, nil
}

// Verify recomputes receipt_id and the MAC from r's stored core and
// checks them against what's attached, in constant time.
func Verify(r Receipt, signingKey []byte) error {
	wantID, err := contentHash(r.Core)
	if err != nil {
		return err
	}
	if wantID != r.ReceiptID {
		return &kernelerr.HashMismatch{Expected: wantID.String(), Actual: r.ReceiptID.String()}
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(wantID.Bytes())
	mac.Write(wantID.Bytes())
	wantMAC := mac.Sum(nil)

	if subtle.ConstantTimeCompare(wantMAC, r.Signature.MACBytes) != 1 {
		return &kernelerr.BadSignature{ReceiptID: r.ReceiptID.String()}
	}
	return nil
}
