// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

func TestCanonicalize_IntegerRoundTrip(t *testing.T) {
	require := require.New(t)

	// Seed scenario 4: {"b":1,"a":[2,-0,3]} -> {"a":[2,0,3],"b":1}
	v := map[string]any{
		"b": int64(1),
		"a": []any{int64(2), int64(-0), int64(3)},
	}

	out, err := Canonicalize(v, Consensus)
	require.NoError(err)
	require.Equal(`{"a":[2,0,3],"b":1}`, string(out))

	parsed, err := Parse(out)
	require.NoError(err)
	out2, err := Canonicalize(parsed, Consensus)
	require.NoError(err)
	require.Equal(out, out2)
}

func TestCanonicalize_NegativeZeroBigInt(t *testing.T) {
	require := require.New(t)

	parsed, err := Parse([]byte(`-0`))
	require.NoError(err)

	out, err := Canonicalize(parsed, Consensus)
	require.NoError(err)
	require.Equal("0", string(out))
}

func TestCanonicalize_ConsensusRejectsFloat(t *testing.T) {
	require := require.New(t)

	_, err := Canonicalize(map[string]any{"x": 1.5}, Consensus)
	require.Error(err)
	require.ErrorIs(err, &kernelerr.NonIntegerNumber{})
}

func TestCanonicalize_PermissiveAllowsFloat(t *testing.T) {
	require := require.New(t)

	out, err := Canonicalize(map[string]any{"x": 1.50}, Permissive)
	require.NoError(err)
	require.Equal(`{"x":1.5}`, string(out))
}

func TestCanonicalize_NaNAlwaysFails(t *testing.T) {
	require := require.New(t)

	for _, profile := range []Profile{Consensus, Permissive} {
		_, err := Canonicalize(math.NaN(), profile)
		require.Error(err)
		require.ErrorIs(err, &kernelerr.NonFiniteNumber{})
	}
}

func TestCanonicalize_InfAlwaysFails(t *testing.T) {
	require := require.New(t)

	_, err := Canonicalize(math.Inf(1), Permissive)
	require.Error(err)
	require.ErrorIs(err, &kernelerr.NonFiniteNumber{})
}

func TestCanonicalize_StringEscaping(t *testing.T) {
	require := require.New(t)

	out, err := Canonicalize("line1\nline2\ttab\"quote\"", Permissive)
	require.NoError(err)
	require.Equal(`"line1\nline2\ttab\"quote\""`, string(out))
}

func TestCanonicalize_ObjectKeySorting(t *testing.T) {
	require := require.New(t)

	out, err := Canonicalize(map[string]any{"zeta": 1, "alpha": 2, "middle": 3}, Consensus)
	require.NoError(err)
	require.Equal(`{"alpha":2,"middle":3,"zeta":1}`, string(out))
}

func TestCanonicalize_NestedStructures(t *testing.T) {
	require := require.New(t)

	v := map[string]any{
		"list": []any{
			map[string]any{"b": 2, "a": 1},
			"tail",
		},
	}
	out, err := Canonicalize(v, Consensus)
	require.NoError(err)
	require.Equal(`{"list":[{"a":1,"b":2},"tail"]}`, string(out))
}
