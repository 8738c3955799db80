// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package typedhash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/canon"
)

func TestHash_StringRoundTrip(t *testing.T) {
	require := require.New(t)

	h, err := HashValue(KindRequest, canon.Consensus, map[string]any{"a": int64(1)})
	require.NoError(err)

	s := h.String()
	require.Regexp(`^sha256:[0-9a-f]{64}$`, s)

	parsed, err := Parse(s)
	require.NoError(err)
	require.Equal(h, parsed)
}

func TestHash_ParseBareHexShim(t *testing.T) {
	require := require.New(t)

	h, err := HashValue(KindRequest, canon.Consensus, map[string]any{"a": int64(1)})
	require.NoError(err)

	bare := h.String()[len(hashPrefix):]
	parsed, err := Parse(bare)
	require.NoError(err)
	require.Equal(h, parsed)

	// Parse never emits the bare form — String always does.
	require.NotEqual(bare, parsed.String())
}

func TestDomainSeparation(t *testing.T) {
	require := require.New(t)

	bytes, err := canon.Canonicalize(map[string]any{"a": int64(1)}, canon.Consensus)
	require.NoError(err)

	h1, err := TypedHash(KindRequest, bytes)
	require.NoError(err)
	h2, err := TypedHash(KindCandidate, bytes)
	require.NoError(err)

	require.NotEqual(h1, h2)
}

func TestChainDigest_ZeroPredecessor(t *testing.T) {
	require := require.New(t)

	receiptID, err := HashValue(KindReceiptID, canon.Consensus, map[string]any{"x": int64(1)})
	require.NoError(err)

	d0 := ChainDigest(Hash{}, receiptID)
	require.False(d0.IsZero())

	// Same inputs, same digest — determinism.
	d0Again := ChainDigest(Hash{}, receiptID)
	require.Equal(d0, d0Again)
}

func TestRawHash_LeafVsInternalDiffer(t *testing.T) {
	require := require.New(t)

	payload := []byte("leaf-bytes")
	leaf := RawHash(MerkleLeafDomain, payload)
	internal := RawHash(MerkleInternalDomain, payload)
	require.NotEqual(leaf, internal)
}

func TestUnknownKind(t *testing.T) {
	require := require.New(t)

	_, err := TypedHash(Kind("nope"), []byte("x"))
	require.Error(err)
}
