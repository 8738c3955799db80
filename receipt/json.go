// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receipt

import (
	"encoding/json"

	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// wireReceipt is the over-the-wire JSON shape (spec §6 "Receipt JSON"):
// receivers re-canonicalize before hashing, so field order in this
// struct is irrelevant to correctness — only the reconstructed Core's
// canonical bytes matter.
type wireReceipt struct {
	Version         string   `json:"version"`
	ReceiptID       string   `json:"receipt_id"`
	EpisodeID       string   `json:"episode_id"`
	StepKind        string   `json:"step_kind"`
	Decision        string   `json:"decision,omitempty"`
	InputStateHash  string   `json:"input_state_hash,omitempty"`
	OutputStateHash string   `json:"output_state_hash,omitempty"`
	Details         any      `json:"details,omitempty"`
	ParentReceipts  []string `json:"parent_receipts,omitempty"`
	EvidenceRefs    []string `json:"evidence_refs,omitempty"`
	TimestampMS     int64    `json:"timestamp_ms"`
	Signature       struct {
		Algorithm string `json:"algorithm"`
		Signer    string `json:"signer"`
		MACBytes  string `json:"mac_bytes"`
	} `json:"signature"`
}

// MarshalJSON renders r in the wire form spec §6 describes.
func (r Receipt) MarshalJSON() ([]byte, error) {
	w := wireReceipt{
		Version:         r.Core.Version,
		ReceiptID:       r.ReceiptID.String(),
		EpisodeID:       r.Core.EpisodeID,
		StepKind:        string(r.Core.StepKind),
		InputStateHash:  r.Core.InputStateHash,
		OutputStateHash: r.Core.OutputStateHash,
		Details:         r.Core.Details,
		ParentReceipts:  r.Core.ParentReceipts,
		EvidenceRefs:    r.Core.EvidenceRefs,
		TimestampMS:     r.Core.TimestampMS,
	}
	if r.Core.Decision != nil {
		w.Decision = string(*r.Core.Decision)
	}
	w.Signature.Algorithm = r.Signature.Algorithm
	w.Signature.Signer = r.Signature.Signer
	w.Signature.MACBytes = hexEncode(r.Signature.MACBytes)
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs a Receipt from its wire form. Callers must
// still run Verify to establish trust — unmarshaling alone performs no
// cryptographic check.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var w wireReceipt
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := typedhash.Parse(w.ReceiptID)
	if err != nil {
		return err
	}

	var decision *Decision
	if w.Decision != "" {
		d := Decision(w.Decision)
		decision = &d
	}

	mac, err := hexDecode(w.Signature.MACBytes)
	if err != nil {
		return err
	}

	r.Core = Core{
		Version:         w.Version,
		EpisodeID:       w.EpisodeID,
		StepKind:        StepKind(w.StepKind),
		Decision:        decision,
		InputStateHash:  w.InputStateHash,
		OutputStateHash: w.OutputStateHash,
		Details:         w.Details,
		ParentReceipts:  w.ParentReceipts,
		EvidenceRefs:    w.EvidenceRefs,
		TimestampMS:     w.TimestampMS,
	}
	r.ReceiptID = id
	r.Signature = Signature{
		Algorithm: w.Signature.Algorithm,
		Signer:    w.Signature.Signer,
		MACBytes:  mac,
	}
	return nil
}
