// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kernelerr holds the kernel's closed error taxonomy (spec §7).
// Each variant is a struct implementing error and errors.Is, following
// the teacher's engine/core.AppError convention — not a hierarchy of
// wrapped strings. Message text is never load-bearing; callers branch on
// errors.As, not on Error().
package kernelerr

import "fmt"

// InvalidRequest marks a schema/field violation on an inbound request.
type InvalidRequest struct {
	Reason string
}

func (e *InvalidRequest) Error() string { return "invalid request: " + e.Reason }
func (e *InvalidRequest) Is(target error) bool {
	_, ok := target.(*InvalidRequest)
	return ok
}

// MissingField marks a required field absent from an inbound value.
type MissingField struct {
	Field string
}

func (e *MissingField) Error() string { return "missing field: " + e.Field }
func (e *MissingField) Is(target error) bool {
	_, ok := target.(*MissingField)
	return ok
}

// NonIntegerNumber marks a float seen by the consensus-profile canonicalizer.
type NonIntegerNumber struct {
	Path string
}

func (e *NonIntegerNumber) Error() string {
	if e.Path == "" {
		return "non-integer number in consensus profile"
	}
	return fmt.Sprintf("non-integer number at %s in consensus profile", e.Path)
}
func (e *NonIntegerNumber) Is(target error) bool {
	_, ok := target.(*NonIntegerNumber)
	return ok
}

// NonFiniteNumber marks a NaN or infinite value, rejected in every profile.
type NonFiniteNumber struct {
	Path string
}

func (e *NonFiniteNumber) Error() string {
	if e.Path == "" {
		return "non-finite number"
	}
	return fmt.Sprintf("non-finite number at %s", e.Path)
}
func (e *NonFiniteNumber) Is(target error) bool {
	_, ok := target.(*NonFiniteNumber)
	return ok
}

// BadHashFormat marks a digest that isn't "sha256:" + 64 lowercase hex.
type BadHashFormat struct {
	Value string
}

func (e *BadHashFormat) Error() string { return "bad hash format: " + e.Value }
func (e *BadHashFormat) Is(target error) bool {
	_, ok := target.(*BadHashFormat)
	return ok
}

// HashMismatch marks a recomputed hash that doesn't match the stored one.
// Integrity-fatal.
type HashMismatch struct {
	Expected string
	Actual   string
}

func (e *HashMismatch) Error() string {
	return fmt.Sprintf("hash mismatch: expected %s, got %s", e.Expected, e.Actual)
}
func (e *HashMismatch) Is(target error) bool {
	_, ok := target.(*HashMismatch)
	return ok
}

// BadSignature marks a failed MAC verification. Integrity-fatal.
type BadSignature struct {
	ReceiptID string
}

func (e *BadSignature) Error() string { return "bad signature on receipt " + e.ReceiptID }
func (e *BadSignature) Is(target error) bool {
	_, ok := target.(*BadSignature)
	return ok
}

// ChainBreak marks a chain-digest discontinuity at position At. Integrity-fatal.
type ChainBreak struct {
	At int
}

func (e *ChainBreak) Error() string { return fmt.Sprintf("chain break at %d", e.At) }
func (e *ChainBreak) Is(target error) bool {
	t, ok := target.(*ChainBreak)
	return ok && (t.At == 0 || t.At == e.At)
}

// OrderViolation marks a timestamp that regressed at position At. Integrity-fatal.
type OrderViolation struct {
	At int
}

func (e *OrderViolation) Error() string { return fmt.Sprintf("order violation at %d", e.At) }
func (e *OrderViolation) Is(target error) bool {
	t, ok := target.(*OrderViolation)
	return ok && (t.At == 0 || t.At == e.At)
}

// IllegalTransition marks an unallowed phase move.
type IllegalTransition struct {
	From string
	To   string
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}
func (e *IllegalTransition) Is(target error) bool {
	_, ok := target.(*IllegalTransition)
	return ok
}

// BudgetExceeded marks a budget check failure. The dispatcher truncates
// and continues rather than treating this as fatal.
type BudgetExceeded struct {
	Kind  string
	Used  float64
	Limit float64
}

func (e *BudgetExceeded) Error() string {
	return fmt.Sprintf("budget exceeded: %s used=%.2f limit=%.2f", e.Kind, e.Used, e.Limit)
}
func (e *BudgetExceeded) Is(target error) bool {
	_, ok := target.(*BudgetExceeded)
	return ok
}

// ProposerError marks a proposer that raised during dispatch. The
// dispatcher logs it and continues with the next proposer.
type ProposerError struct {
	ID    string
	Cause error
}

func (e *ProposerError) Error() string { return fmt.Sprintf("proposer %s failed: %v", e.ID, e.Cause) }
func (e *ProposerError) Unwrap() error { return e.Cause }
func (e *ProposerError) Is(target error) bool {
	_, ok := target.(*ProposerError)
	return ok
}

// RegistryLoadError marks a manifest that failed to parse. Fatal at startup.
type RegistryLoadError struct {
	Cause error
}

func (e *RegistryLoadError) Error() string { return fmt.Sprintf("registry load error: %v", e.Cause) }
func (e *RegistryLoadError) Unwrap() error { return e.Cause }
func (e *RegistryLoadError) Is(target error) bool {
	_, ok := target.(*RegistryLoadError)
	return ok
}

// DuplicateReceiptConflict marks two receipts sharing an id with
// divergent bytes. Integrity-fatal.
type DuplicateReceiptConflict struct {
	ReceiptID string
}

func (e *DuplicateReceiptConflict) Error() string {
	return "duplicate receipt conflict: " + e.ReceiptID
}
func (e *DuplicateReceiptConflict) Is(target error) bool {
	_, ok := target.(*DuplicateReceiptConflict)
	return ok
}
