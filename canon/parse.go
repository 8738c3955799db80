// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canon

import (
	"bytes"
	"encoding/json"
)

// Parse decodes canonical (or any valid) JSON bytes into the tree shape
// Canonicalize expects: nil, bool, json.Number, string, []any, and
// map[string]any. Numbers are preserved as json.Number rather than
// collapsed to float64, so Parse never loses the integer/float
// distinction Canonicalize needs to enforce consensus-profile rejection.
//
// The round-trip law spec §4.1 states —
// canonicalize(parse(canonicalize(v))) == canonicalize(v) — holds for
// this pairing for every value Canonicalize accepts.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeDecoded(v), nil
}

// normalizeDecoded converts the map[string]interface{}/[]interface{}
// shapes encoding/json produces into this package's any/map[string]any
// vocabulary. encoding/json already emits exactly those types, so this
// is an identity pass except it documents the contract at the boundary.
func normalizeDecoded(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			val[k] = normalizeDecoded(sub)
		}
		return val
	case []any:
		for i, sub := range val {
			val[i] = normalizeDecoded(sub)
		}
		return val
	default:
		return val
	}
}
