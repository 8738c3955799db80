// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package candidate

import (
	"sort"

	"github.com/noeticanlabs/cnsc-haai-sub001/config"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func composite(s Scores, w config.ScoringWeights) float64 {
	v := w.Risk*(1-s.Risk) + w.Utility*s.Utility + w.Cost*(1-s.Cost) + w.Confidence*s.Confidence
	return clamp01(v)
}

// Rank applies the full pipeline from spec §4.9: score, dedup by
// (candidate_type, payload_hash), Pareto-prune within type, stable sort,
// and truncate to maxCandidates.
func Rank(candidates []Candidate, weights config.ScoringWeights, maxCandidates int) []Candidate {
	scored := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.composite = composite(c.Scores, weights)
		scored[i] = c
	}

	deduped := dedup(scored)
	pruned := paretoPrune(deduped)
	sort.SliceStable(pruned, func(i, j int) bool {
		return less(pruned[i], pruned[j])
	})

	if maxCandidates >= 0 && len(pruned) > maxCandidates {
		pruned = pruned[:maxCandidates]
	}
	return pruned
}

type dedupKey struct {
	candidateType Type
	payloadHash   string
}

// dedup collapses candidates sharing (candidate_type, payload_hash),
// keeping the first occurrence by input position.
func dedup(cands []Candidate) []Candidate {
	seen := make(map[dedupKey]struct{}, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		key := dedupKey{c.CandidateType, c.PayloadHash.String()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// dominates reports whether a dominates b per spec §4.9: every
// dimension at least as good, and at least one strictly better.
func dominates(a, b Candidate) bool {
	ge := a.Scores.Risk <= b.Scores.Risk &&
		a.Scores.Utility >= b.Scores.Utility &&
		a.Scores.Cost <= b.Scores.Cost &&
		a.Scores.Confidence >= b.Scores.Confidence
	if !ge {
		return false
	}
	strict := a.Scores.Risk < b.Scores.Risk ||
		a.Scores.Utility > b.Scores.Utility ||
		a.Scores.Cost < b.Scores.Cost ||
		a.Scores.Confidence > b.Scores.Confidence
	return strict
}

// paretoPrune discards, within each candidate_type, any candidate
// dominated by another of the same type.
func paretoPrune(cands []Candidate) []Candidate {
	byType := make(map[Type][]int)
	for i, c := range cands {
		byType[c.CandidateType] = append(byType[c.CandidateType], i)
	}

	dominated := make(map[int]bool, len(cands))
	for _, idxs := range byType {
		for _, i := range idxs {
			for _, j := range idxs {
				if i == j {
					continue
				}
				if dominates(cands[j], cands[i]) {
					dominated[i] = true
					break
				}
			}
		}
	}

	out := make([]Candidate, 0, len(cands))
	for i, c := range cands {
		if !dominated[i] {
			out = append(out, c)
		}
	}
	return out
}

// less implements the total deterministic order: composite descending,
// candidate_type ascending, payload_hash ascending.
func less(a, b Candidate) bool {
	if a.composite != b.composite {
		return a.composite > b.composite
	}
	if a.CandidateType != b.CandidateType {
		return a.CandidateType < b.CandidateType
	}
	return a.PayloadHash.String() < b.PayloadHash.String()
}
