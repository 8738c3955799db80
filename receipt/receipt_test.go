// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receipt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

var testKey = []byte("test-signing-key-0123456789")

func passDecision() *Decision {
	d := DecisionPass
	return &d
}

func sampleCore(episodeID string, ts int64) Core {
	return Core{
		Version:     Version,
		EpisodeID:   episodeID,
		StepKind:    StepGateValidation,
		Decision:    passDecision(),
		Details:     map[string]any{"note": "ok"},
		TimestampMS: ts,
	}
}

func TestSign_ProducesVerifiableReceipt(t *testing.T) {
	require := require.New(t)

	r, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)
	require.NoError(Verify(r, testKey))
}

func TestSign_ReceiptIDIndependentOfPosition(t *testing.T) {
	require := require.New(t)

	r1, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)
	r2, err := Sign(sampleCore("ep2", 1), "kernel", testKey)
	require.NoError(err)

	// Identical decisions (modulo episode_id, which is part of core) at
	// different chain positions still share a receipt_id when the core
	// is bytewise identical.
	r3, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)
	require.Equal(r1.ReceiptID, r3.ReceiptID)
	require.NotEqual(r1.ReceiptID, r2.ReceiptID)
}

func TestVerify_TamperedDetailsFailsHash(t *testing.T) {
	require := require.New(t)

	r, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)

	r.Core.Details = map[string]any{"note": "tampered"}
	err = Verify(r, testKey)
	require.Error(err)
	require.ErrorIs(err, &kernelerr.HashMismatch{})
}

func TestVerify_WrongKeyFailsSignature(t *testing.T) {
	require := require.New(t)

	r, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)

	err = Verify(r, []byte("wrong-key"))
	require.Error(err)
	require.ErrorIs(err, &kernelerr.BadSignature{})
}

func TestStore_EmitIdempotentOnSameBytes(t *testing.T) {
	require := require.New(t)

	s := NewStore(false)
	r, err := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(err)

	require.NoError(s.Emit(r))
	require.NoError(s.Emit(r))
	require.Len(s.ByEpisode("ep1"), 1)
}

func TestStore_VerifyEpisode_EmptyChainVacuouslyPasses(t *testing.T) {
	require := require.New(t)

	s := NewStore(true)
	require.NoError(VerifyEpisode(s, "nonexistent", testKey))
}

func TestStore_VerifyEpisode_HappyPathWithChainDigests(t *testing.T) {
	require := require.New(t)

	s := NewStore(true)
	r1, _ := Sign(sampleCore("ep1", 1), "kernel", testKey)
	r2, _ := Sign(sampleCore("ep1", 2), "kernel", testKey)

	require.NoError(s.Emit(r1))
	require.NoError(s.Emit(r2))
	require.NoError(VerifyEpisode(s, "ep1", testKey))

	digests := s.ChainDigests("ep1")
	require.Len(digests, 2)
	require.NotEqual(digests[0], digests[1])
}

func TestStore_VerifyEpisode_OrderViolationOnDecreasingTimestamp(t *testing.T) {
	require := require.New(t)

	s := NewStore(false)
	r1, _ := Sign(sampleCore("ep1", 10), "kernel", testKey)
	r2, _ := Sign(sampleCore("ep1", 5), "kernel", testKey)

	require.NoError(s.Emit(r1))
	require.NoError(s.Emit(r2))

	err := VerifyEpisode(s, "ep1", testKey)
	require.Error(err)
	require.ErrorIs(err, &kernelerr.OrderViolation{})
}

func TestStore_IndicesByStepKindAndDecision(t *testing.T) {
	require := require.New(t)

	s := NewStore(false)
	r, _ := Sign(sampleCore("ep1", 1), "kernel", testKey)
	require.NoError(s.Emit(r))

	require.Len(s.ByStepKind(StepGateValidation), 1)
	require.Len(s.ByDecision(DecisionPass), 1)
}
