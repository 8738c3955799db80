// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
spec: "1.0"
registryName: "  core  "
registryVersion: "1.0.0"
domains:
  repair:
    enabled: true
    proposerOrder: [" beta ", "alpha"]
proposers:
  alpha:
    moduleRef: "pkg/alpha"
    entrypoint: "Propose"
    candidateTypes: ["plan", "repair"]
    maxOutputs: 5
  beta:
    moduleRef: "pkg/beta"
    entrypoint: "Propose"
    candidateTypes: ["repair"]
    maxOutputs: 3
`

func TestLoadManifest_TrimsAndNormalizes(t *testing.T) {
	require := require.New(t)

	m, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)
	require.Equal("core", m.RegistryName)
	require.Equal([]string{"beta", "alpha"}, m.Domains["repair"].ProposerOrder)
	require.Equal([]string{"plan", "repair"}, m.Proposers["alpha"].CandidateTypes)
}

func TestLoadManifest_InvalidYAMLFails(t *testing.T) {
	require := require.New(t)

	_, err := LoadManifest([]byte("not: [valid: yaml"))
	require.Error(err)
}

func TestHash_DeterministicAndFormatStable(t *testing.T) {
	require := require.New(t)

	m, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)

	h1, err := Hash(m)
	require.NoError(err)
	h2, err := Hash(m)
	require.NoError(err)
	require.Equal(h1, h2)
}

func TestHash_DiffersOnSemanticChange(t *testing.T) {
	require := require.New(t)

	m1, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)
	h1, err := Hash(m1)
	require.NoError(err)

	altered := `
spec: "1.0"
registryName: "core"
registryVersion: "1.0.0"
domains:
  repair:
    enabled: false
    proposerOrder: ["beta", "alpha"]
proposers:
  alpha:
    moduleRef: "pkg/alpha"
    entrypoint: "Propose"
    candidateTypes: ["plan", "repair"]
    maxOutputs: 5
  beta:
    moduleRef: "pkg/beta"
    entrypoint: "Propose"
    candidateTypes: ["repair"]
    maxOutputs: 3
`
	m2, err := LoadManifest([]byte(altered))
	require.NoError(err)
	h2, err := Hash(m2)
	require.NoError(err)

	require.NotEqual(h1, h2)
}

func TestProposerOrder_DisabledDomainReturnsEmpty(t *testing.T) {
	require := require.New(t)

	m, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)

	m2 := WithOverrides(m, "repair", map[string]bool{"enabled": false})
	require.Empty(m2.ProposerOrder("repair"))
	require.NotEmpty(m.ProposerOrder("repair"), "WithOverrides must not mutate the original manifest")
}

func TestProposerOrder_UnknownDomainReturnsEmpty(t *testing.T) {
	require := require.New(t)

	m, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)
	require.Empty(m.ProposerOrder("nonexistent"))
}

// TestHash_InvariantToProposerOrderListedOrder reproduces the original
// RegistryLoader's normalize-for-hash behavior (npe/registry/loader.py):
// registry_hash sorts proposer_order before hashing, so two manifests
// that list the same domain's proposers in different YAML order hash
// identically — while ProposerOrder, which drives actual dispatch,
// keeps reading the raw author order.
func TestHash_InvariantToProposerOrderListedOrder(t *testing.T) {
	require := require.New(t)

	listedBetaFirst, err := LoadManifest([]byte(sampleYAML))
	require.NoError(err)

	listedAlphaFirst := `
spec: "1.0"
registryName: "core"
registryVersion: "1.0.0"
domains:
  repair:
    enabled: true
    proposerOrder: ["alpha", "beta"]
proposers:
  alpha:
    moduleRef: "pkg/alpha"
    entrypoint: "Propose"
    candidateTypes: ["plan", "repair"]
    maxOutputs: 5
  beta:
    moduleRef: "pkg/beta"
    entrypoint: "Propose"
    candidateTypes: ["repair"]
    maxOutputs: 3
`
	reordered, err := LoadManifest([]byte(listedAlphaFirst))
	require.NoError(err)

	h1, err := Hash(listedBetaFirst)
	require.NoError(err)
	h2, err := Hash(reordered)
	require.NoError(err)
	require.Equal(h1, h2, "registry_hash must be invariant to proposer_order's listed order")

	require.Equal([]string{"beta", "alpha"}, listedBetaFirst.ProposerOrder("repair"), "dispatch order must preserve the raw author order, not the sorted hash view")
	require.Equal([]string{"alpha", "beta"}, reordered.ProposerOrder("repair"))
}
