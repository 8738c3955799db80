// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wraps github.com/luxfi/log for kernel components. Every
// package that can fail, degrade, or gate a transition takes a
// log.Logger field built through this package rather than reaching for
// fmt.Println or the stdlib log package directly.
package logging

import (
	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// Logger is re-exported so call sites only need to import this package.
type Logger = log.Logger

// NewNoOp returns a logger that discards everything, for tests and for
// embeddings that don't want kernel log output.
func NewNoOp() Logger {
	return noOpLogger{}
}

// Named returns l scoped with a component name field, the convention used
// throughout this module: episode.Start wraps its logger as
// logging.Named(log, "episode").
func Named(l Logger, component string) Logger {
	if l == nil {
		return NewNoOp()
	}
	return l.WithFields(zap.String("component", component))
}

// EpisodeFields builds the structured fields every receipt-adjacent log
// line in this module tags an episode with.
func EpisodeFields(episodeID string, stepKind string) []zap.Field {
	return []zap.Field{
		zap.String("episode_id", episodeID),
		zap.String("step_kind", stepKind),
	}
}
