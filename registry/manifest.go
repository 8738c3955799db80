// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the proposer Registry (spec §4.8): a
// normalized, hash-identified manifest listing proposers, their
// invocation order per domain, and their budgets.
//
// Grounded on the teacher's validators.Manager/Set shape
// (validators/validators.go) for the "ordered named set with lookup by
// key" pattern, generalized from validator weight sets to proposer
// manifests, and on config/runtime.go's override tolerance for
// WithOverrides.
package registry

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noeticanlabs/cnsc-haai-sub001/canon"
	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// BudgetLimits mirrors config.RequestBudget's shape in manifest form —
// kept separate so the YAML tags can diverge from KernelConfig's without
// coupling the two.
type BudgetLimits struct {
	MaxWallMS           int64 `yaml:"maxWallMs"`
	MaxCandidates       int   `yaml:"maxCandidates"`
	MaxEvidenceItems    int   `yaml:"maxEvidenceItems"`
	MaxSearchExpansions int   `yaml:"maxSearchExpansions"`
}

// DomainEntry is one domain's proposer configuration.
type DomainEntry struct {
	Enabled       bool         `yaml:"enabled"`
	ProposerOrder []string     `yaml:"proposerOrder"`
	Budgets       BudgetLimits `yaml:"budgets"`
}

// ProposerEntry is one proposer's registration.
type ProposerEntry struct {
	ModuleRef      string       `yaml:"moduleRef"`
	Entrypoint     string       `yaml:"entrypoint"`
	CandidateTypes []string     `yaml:"candidateTypes"`
	MaxOutputs     int          `yaml:"maxOutputs"`
	Budgets        BudgetLimits `yaml:"budgets"`
}

// Manifest is the registry's full normalized content.
type Manifest struct {
	Spec            string                   `yaml:"spec"`
	RegistryName    string                   `yaml:"registryName"`
	RegistryVersion string                   `yaml:"registryVersion"`
	Domains         map[string]DomainEntry   `yaml:"domains"`
	Proposers       map[string]ProposerEntry `yaml:"proposers"`
}

// LoadManifest parses a YAML manifest and normalizes it.
func LoadManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &kernelerr.RegistryLoadError{Cause: err}
	}
	normalize(&m)
	return &m, nil
}

// normalize trims whitespace and sorts order-sensitive-looking-but-
// semantically-unordered arrays so two manifests differing only in
// surface formatting hash identically.
func normalize(m *Manifest) {
	m.Spec = strings.TrimSpace(m.Spec)
	m.RegistryName = strings.TrimSpace(m.RegistryName)
	m.RegistryVersion = strings.TrimSpace(m.RegistryVersion)

	for name, d := range m.Domains {
		trimmed := make([]string, len(d.ProposerOrder))
		for i, p := range d.ProposerOrder {
			trimmed[i] = strings.TrimSpace(p)
		}
		d.ProposerOrder = trimmed
		m.Domains[name] = d
	}

	for name, p := range m.Proposers {
		p.ModuleRef = strings.TrimSpace(p.ModuleRef)
		p.Entrypoint = strings.TrimSpace(p.Entrypoint)
		types := make([]string, len(p.CandidateTypes))
		copy(types, p.CandidateTypes)
		sort.Strings(types)
		p.CandidateTypes = types
		m.Proposers[name] = p
	}
}

// canonValue produces the canonicalizable value registry_hash is
// computed over. Grounded on the original's RegistryLoader._normalize_manifest
// (npe/registry/loader.py), which sorts each domain's proposer_order
// before hashing so that surface reordering in the YAML doesn't change
// registry_hash — but the raw, author-order proposer_order is what
// ProposerOrder actually dispatches from. canonValue only ever builds
// the sorted, hash-only view; it must never be used to drive dispatch.
func canonValue(m *Manifest) map[string]any {
	domains := make(map[string]any, len(m.Domains))
	for name, d := range m.Domains {
		sorted := make([]string, len(d.ProposerOrder))
		copy(sorted, d.ProposerOrder)
		sort.Strings(sorted)
		order := make([]any, len(sorted))
		for i, p := range sorted {
			order[i] = p
		}
		domains[name] = map[string]any{
			"enabled":        d.Enabled,
			"proposer_order": order,
			"budgets":        budgetValue(d.Budgets),
		}
	}

	proposers := make(map[string]any, len(m.Proposers))
	for name, p := range m.Proposers {
		types := make([]any, len(p.CandidateTypes))
		for i, ct := range p.CandidateTypes {
			types[i] = ct
		}
		proposers[name] = map[string]any{
			"module_ref":      p.ModuleRef,
			"entrypoint":      p.Entrypoint,
			"candidate_types": types,
			"max_outputs":     p.MaxOutputs,
			"budgets":         budgetValue(p.Budgets),
		}
	}

	return map[string]any{
		"spec":             m.Spec,
		"registry_name":    m.RegistryName,
		"registry_version": m.RegistryVersion,
		"domains":          domains,
		"proposers":        proposers,
	}
}

func budgetValue(b BudgetLimits) map[string]any {
	return map[string]any{
		"max_wall_ms":           b.MaxWallMS,
		"max_candidates":        b.MaxCandidates,
		"max_evidence_items":    b.MaxEvidenceItems,
		"max_search_expansions": b.MaxSearchExpansions,
	}
}

// Hash computes registry_hash: the typed hash of the normalized
// manifest under domain "registry" — the identity a client pins.
func Hash(m *Manifest) (typedhash.Hash, error) {
	bytes, err := canon.Canonicalize(canonValue(m), canon.Consensus)
	if err != nil {
		return typedhash.Hash{}, err
	}
	return typedhash.TypedHash(typedhash.KindRegistry, bytes)
}

// ProposerOrder resolves the invocation order for domain, or an empty
// slice if the domain is unknown or disabled.
func (m *Manifest) ProposerOrder(domain string) []string {
	d, ok := m.Domains[domain]
	if !ok || !d.Enabled {
		return nil
	}
	out := make([]string, len(d.ProposerOrder))
	copy(out, d.ProposerOrder)
	return out
}
