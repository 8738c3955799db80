// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canon

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/noeticanlabs/cnsc-haai-sub001/kernelerr"
)

// numberKind classifies a numeric value for canonicalization purposes.
type numberKind int

const (
	numberInteger numberKind = iota
	numberFloat
	numberNonFinite
)

// classifyNumber reduces any accepted numeric representation — a native
// Go integer/float or a json.Number produced by Parse — to a kind plus a
// canonical decimal string. The classification (integer vs float) is
// determined by the value's Go type / JSON literal shape, not by whether
// its value happens to be whole: a float64(2.0) is still a float, and
// the consensus profile must still reject it.
func classifyNumber(v any) (numberKind, string, error) {
	switch n := v.(type) {
	case json.Number:
		s := string(n)
		if isFloatLiteral(s) {
			f, err := n.Float64()
			if err != nil {
				return numberNonFinite, "", &kernelerr.NonFiniteNumber{}
			}
			return classifyFloat(f)
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return numberNonFinite, "", &kernelerr.InvalidRequest{Reason: "malformed integer literal " + s}
		}
		return numberInteger, bi.String(), nil

	case int:
		return numberInteger, strconv.FormatInt(int64(n), 10), nil
	case int8:
		return numberInteger, strconv.FormatInt(int64(n), 10), nil
	case int16:
		return numberInteger, strconv.FormatInt(int64(n), 10), nil
	case int32:
		return numberInteger, strconv.FormatInt(int64(n), 10), nil
	case int64:
		return numberInteger, strconv.FormatInt(n, 10), nil
	case uint:
		return numberInteger, strconv.FormatUint(uint64(n), 10), nil
	case uint8:
		return numberInteger, strconv.FormatUint(uint64(n), 10), nil
	case uint16:
		return numberInteger, strconv.FormatUint(uint64(n), 10), nil
	case uint32:
		return numberInteger, strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return numberInteger, strconv.FormatUint(n, 10), nil
	case float32:
		return classifyFloat(float64(n))
	case float64:
		return classifyFloat(n)
	default:
		return numberNonFinite, "", &kernelerr.InvalidRequest{Reason: "unsupported numeric type"}
	}
}

// classifyFloat applies the always-on NaN/Inf rejection, then formats
// finite floats with no exponent and no trailing zeros (strconv's 'f'
// format with precision -1 is already the shortest round-tripping
// decimal, which happens to satisfy both requirements at once).
func classifyFloat(f float64) (numberKind, string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return numberNonFinite, "", &kernelerr.NonFiniteNumber{}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return numberFloat, stripFloatTrailingZero(s), nil
}

// stripFloatTrailingZero removes a redundant ".0" suffix FormatFloat
// never produces (it already yields "2" for 2.0), kept defensive in case
// of future formatting changes; trims trailing fractional zeros if any
// ever appear (e.g. "2.50" -> "2.5") without disturbing whole numbers.
func stripFloatTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// isFloatLiteral reports whether a JSON number's literal text carries
// float syntax (a decimal point or exponent marker).
func isFloatLiteral(s string) bool {
	return strings.ContainsAny(s, ".eE")
}
