// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canon

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

// Canonicalize serializes v into the deterministic byte form spec §4.1
// describes. v must be built from nil, bool, a supported numeric type
// (see number.go), string, []any, or map[string]any — the shape Parse
// produces and the shape callers are expected to hand-build for
// canonicalizable payloads (receipt cores, candidate envelopes, registry
// manifests).
func Canonicalize(v any, profile Profile) ([]byte, error) {
	var buf strings.Builder
	if err := encodeValue(&buf, v, profile); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func encodeValue(buf *strings.Builder, v any, profile Profile) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		encodeString(buf, val)
		return nil
	case []any:
		return encodeArray(buf, val, profile)
	case map[string]any:
		return encodeObject(buf, val, profile)
	default:
		return encodeNumber(buf, val, profile)
	}
}

func encodeNumber(buf *strings.Builder, v any, profile Profile) error {
	kind, s, err := classifyNumber(v)
	if err != nil {
		return err
	}
	switch kind {
	case numberNonFinite:
		return &kernelerr.NonFiniteNumber{}
	case numberFloat:
		if profile == Consensus {
			return &kernelerr.NonIntegerNumber{}
		}
		buf.WriteString(s)
		return nil
	default: // numberInteger
		buf.WriteString(s)
		return nil
	}
}

func encodeArray(buf *strings.Builder, arr []any, profile Profile) error {
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, item, profile); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *strings.Builder, obj map[string]any, profile Profile) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodeString(buf, k)
		buf.WriteByte(':')
		if err := encodeValue(buf, obj[k], profile); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// lessUTF16 orders two keys by UTF-16 code-unit value, the comparison
// RFC 8785 specifies — this differs from a raw byte comparison only for
// strings containing characters outside the Basic Multilingual Plane.
func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// encodeString writes v wrapped in quotes, escaping exactly the set
// spec §4.1 names: \" \\ \b \f \n \r \t, and \u00XX for other controls
// below 0x20. Everything else — including non-ASCII — passes through as
// valid UTF-8, since JCS does not require \uXXXX escaping outside the
// control range.
func encodeString(buf *strings.Builder, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u`)
				buf.WriteString(fmt.Sprintf("%04x", r))
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
