// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
)

// noOpLogger implements github.com/luxfi/log.Logger by discarding
// everything. Mirrors the teacher's log.NoLog shape (log/nolog.go) rather
// than reimplementing it, since the interface is identical.
type noOpLogger struct{}

func (noOpLogger) With(ctx ...interface{}) Logger { return noOpLogger{} }
func (noOpLogger) New(ctx ...interface{}) Logger  { return noOpLogger{} }

func (noOpLogger) Log(level slog.Level, msg string, ctx ...interface{}) {}
func (noOpLogger) Trace(msg string, ctx ...interface{})                 {}
func (noOpLogger) Debug(msg string, ctx ...interface{})                 {}
func (noOpLogger) Info(msg string, ctx ...interface{})                  {}
func (noOpLogger) Warn(msg string, ctx ...interface{})                  {}
func (noOpLogger) Error(msg string, ctx ...interface{})                 {}
func (noOpLogger) Crit(msg string, ctx ...interface{})                  {}

func (noOpLogger) WriteLog(level slog.Level, msg string, attrs ...any) {}
func (noOpLogger) Enabled(ctx context.Context, level slog.Level) bool  { return false }
func (noOpLogger) Handler() slog.Handler                               { return nil }

func (noOpLogger) Fatal(msg string, fields ...zap.Field) {}
func (noOpLogger) Verbo(msg string, fields ...zap.Field) {}

func (l noOpLogger) WithFields(fields ...zap.Field) Logger { return l }
func (l noOpLogger) WithOptions(opts ...zap.Option) Logger { return l }

func (noOpLogger) SetLevel(level slog.Level)        {}
func (noOpLogger) GetLevel() slog.Level             { return slog.Level(0) }
func (noOpLogger) EnabledLevel(lvl slog.Level) bool { return false }

func (noOpLogger) StopOnPanic() {}
func (noOpLogger) RecoverAndPanic(f func())        { f() }
func (noOpLogger) RecoverAndExit(f, exit func())   { f() }
func (noOpLogger) Stop()                           {}

func (noOpLogger) Write(p []byte) (n int, err error) { return len(p), nil }
