// Package options coerces loosely typed observer options, as they arrive
// from scripts and scene files, into the values the engine works with.
package options

import (
	"math"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/viewprt/dom"
)

// Offset converts v to a finite threshold offset. Numbers pass through and
// numeric strings are parsed. Anything else, including nil, NaN and the
// infinities, yields (0, false).
func Offset(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// OffsetOrZero is Offset without the ok flag.
func OffsetOrZero(v any) float64 {
	f, _ := Offset(v)
	return f
}

// Once reports whether v is the boolean true. Truthy values of other types
// do not count.
func Once(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Container returns c, or fallback when c is nil.
func Container(c, fallback *dom.Element) *dom.Element {
	if c == nil {
		return fallback
	}
	return c
}
