// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receipt

import (
	"bytes"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
	"github.com/noeticanlabs/cnsc-haai-sub001/logging"
	"github.com/noeticanlabs/cnsc-haai-sub001/typedhash"
)

// Store is the append-only receipt store (spec §4.3's emit protocol).
// Not safe for concurrent use — episodes are single-writer (spec §5).
type Store struct {
	receipts       map[typedhash.Hash]Receipt
	byEpisode      map[string][]typedhash.Hash
	chainDigests   map[string][]typedhash.Hash // per-episode, parallel to byEpisode
	chain          []typedhash.Hash            // global emission order
	byStepKind     map[StepKind][]typedhash.Hash
	byDecision     map[Decision][]typedhash.Hash
	chainDigestsOn bool
	log            logging.Logger
}

// NewStore constructs an empty Store. chainDigestsOn toggles per-episode
// chain-digest materialization (spec §4.3 step 6).
func NewStore(chainDigestsOn bool) *Store {
	return &Store{
		receipts:       make(map[typedhash.Hash]Receipt),
		byEpisode:      make(map[string][]typedhash.Hash),
		chainDigests:   make(map[string][]typedhash.Hash),
		byStepKind:     make(map[StepKind][]typedhash.Hash),
		byDecision:     make(map[Decision][]typedhash.Hash),
		chainDigestsOn: chainDigestsOn,
		log:            logging.NewNoOp(),
	}
}

// WithLogger attaches a logger that Emit and VerifyEpisode report
// chain-level events to. Optional — a Store with no logger attached
// behaves exactly as before.
func (s *Store) WithLogger(log logging.Logger) *Store {
	s.log = logging.Named(log, "receipt")
	return s
}

// Emit persists r, appending it to its episode's ordered list and the
// global chain, and materializing a chain digest if enabled. Inserting
// a receipt whose id already exists is idempotent if the stored bytes
// match; a diverging insertion is DuplicateReceiptConflict.
func (s *Store) Emit(r Receipt) error {
	if existing, ok := s.receipts[r.ReceiptID]; ok {
		if !sameReceipt(existing, r) {
			s.log.Error("duplicate receipt diverges from stored copy", "receipt_id", r.ReceiptID.String(), "episode_id", r.Core.EpisodeID)
			return &kernelerr.DuplicateReceiptConflict{ReceiptID: r.ReceiptID.String()}
		}
		return nil
	}

	s.log.Debug("receipt emitted", "receipt_id", r.ReceiptID.String(), "episode_id", r.Core.EpisodeID, "step_kind", string(r.Core.StepKind))
	s.receipts[r.ReceiptID] = r
	s.byEpisode[r.Core.EpisodeID] = append(s.byEpisode[r.Core.EpisodeID], r.ReceiptID)
	s.chain = append(s.chain, r.ReceiptID)
	s.byStepKind[r.Core.StepKind] = append(s.byStepKind[r.Core.StepKind], r.ReceiptID)
	if r.Core.Decision != nil {
		s.byDecision[*r.Core.Decision] = append(s.byDecision[*r.Core.Decision], r.ReceiptID)
	}

	if s.chainDigestsOn {
		prev := typedhash.Hash{}
		if digests := s.chainDigests[r.Core.EpisodeID]; len(digests) > 0 {
			prev = digests[len(digests)-1]
		}
		digest := typedhash.ChainDigest(prev, r.ReceiptID)
		s.chainDigests[r.Core.EpisodeID] = append(s.chainDigests[r.Core.EpisodeID], digest)
	}

	return nil
}

func sameReceipt(a, b Receipt) bool {
	ca, errA := contentHash(a.Core)
	cb, errB := contentHash(b.Core)
	if errA != nil || errB != nil {
		return false
	}
	return ca == cb && bytes.Equal(a.Signature.MACBytes, b.Signature.MACBytes)
}

// Get looks up a receipt by id.
func (s *Store) Get(id typedhash.Hash) (Receipt, bool) {
	r, ok := s.receipts[id]
	return r, ok
}

// ByEpisode returns an episode's receipt ids in emission order.
func (s *Store) ByEpisode(episodeID string) []typedhash.Hash {
	out := make([]typedhash.Hash, len(s.byEpisode[episodeID]))
	copy(out, s.byEpisode[episodeID])
	return out
}

// ByStepKind returns receipt ids indexed by step kind. The index is
// appended to by Emit rather than rebuilt from the canonical store;
// callers must never treat it as authoritative over Get.
func (s *Store) ByStepKind(kind StepKind) []typedhash.Hash {
	out := make([]typedhash.Hash, len(s.byStepKind[kind]))
	copy(out, s.byStepKind[kind])
	return out
}

// ByDecision returns receipt ids indexed by decision.
func (s *Store) ByDecision(d Decision) []typedhash.Hash {
	out := make([]typedhash.Hash, len(s.byDecision[d]))
	copy(out, s.byDecision[d])
	return out
}

// ChainDigests returns the materialized per-episode chain digests in
// order, if enabled; nil otherwise.
func (s *Store) ChainDigests(episodeID string) []typedhash.Hash {
	if !s.chainDigestsOn {
		return nil
	}
	out := make([]typedhash.Hash, len(s.chainDigests[episodeID]))
	copy(out, s.chainDigests[episodeID])
	return out
}

// VerifyEpisode verifies every receipt in an episode's chain in
// sequence order: signature, then (if chain digests are enabled) chain
// continuity, then timestamp monotonicity (spec §4.3's verification
// protocol). Empty chains verify vacuously.
func VerifyEpisode(s *Store, episodeID string, signingKey []byte) error {
	ids := s.ByEpisode(episodeID)
	if len(ids) == 0 {
		return nil
	}

	var prevDigest typedhash.Hash
	var prevTimestamp int64
	var lastTimestampSet bool

	for i, id := range ids {
		r, ok := s.Get(id)
		if !ok {
			s.log.Error("chain verification failed: missing receipt", "episode_id", episodeID, "at", i)
			return &kernelerr.ChainBreak{At: i}
		}

		if err := Verify(r, signingKey); err != nil {
			s.log.Error("chain verification failed: signature", "episode_id", episodeID, "receipt_id", id.String(), "error", err.Error())
			return err
		}

		if s.chainDigestsOn {
			wantDigest := typedhash.ChainDigest(prevDigest, id)
			digests := s.chainDigests[episodeID]
			if i >= len(digests) || digests[i] != wantDigest {
				s.log.Error("chain verification failed: digest discontinuity", "episode_id", episodeID, "at", i)
				return &kernelerr.ChainBreak{At: i}
			}
			prevDigest = wantDigest
		}

		if lastTimestampSet && r.Core.TimestampMS < prevTimestamp {
			s.log.Error("chain verification failed: timestamp order violation", "episode_id", episodeID, "at", i)
			return &kernelerr.OrderViolation{At: i}
		}
		prevTimestamp = r.Core.TimestampMS
		lastTimestampSet = true
	}

	s.log.Debug("chain verified", "episode_id", episodeID, "receipt_count", len(ids))
	return nil
}
