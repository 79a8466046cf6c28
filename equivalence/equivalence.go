// Package equivalence provides ready-made equivalence predicates for common
// tolerance and normalization rules. Predicates that parse structured text
// treat parse failure as "not equivalent" rather than failing, so a single
// malformed value degrades to a reported difference instead of aborting the
// comparison.
package equivalence

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pojotools/treediff"
)

// NumericWithin treats two numbers as equal when their absolute difference
// is at most epsilon. The bound is inclusive.
func NumericWithin(epsilon float64) treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		if left.Type() != treediff.TypeNumber || right.Type() != treediff.TypeNumber {
			return false
		}
		return math.Abs(left.NumberValue()-right.NumberValue()) <= epsilon
	}
}

// CaseInsensitive compares the textual forms of two leaf values ignoring
// case.
func CaseInsensitive() treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		if left == nil || right == nil {
			return false
		}
		return strings.EqualFold(left.Text(), right.Text())
	}
}

// PunctuationInsensitive compares two strings keeping only letters and
// digits, with runs of anything else collapsed to a single space.
func PunctuationInsensitive() treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		if left.Type() != treediff.TypeString || right.Type() != treediff.TypeString {
			return false
		}
		return normalizePunctuation(left.StringValue()) == normalizePunctuation(right.StringValue())
	}
}

func normalizePunctuation(s string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// TimeTruncatedTo treats two RFC 3339 timestamps as equal when they match
// after truncation to the given unit, e.g. time.Second or time.Minute.
func TimeTruncatedTo(unit time.Duration) treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		a, b, ok := parseTimes(left, right)
		if !ok {
			return false
		}
		return a.Truncate(unit).Equal(b.Truncate(unit))
	}
}

// TimeWithin treats two RFC 3339 timestamps as equal when they are at most
// tolerance apart. The bound is inclusive.
func TimeWithin(tolerance time.Duration) treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		a, b, ok := parseTimes(left, right)
		if !ok {
			return false
		}
		return absDuration(a.Sub(b)) <= tolerance
	}
}

func parseTimes(left, right *treediff.Node) (time.Time, time.Time, bool) {
	if left.Type() != treediff.TypeString || right.Type() != treediff.TypeString {
		return time.Time{}, time.Time{}, false
	}
	a, err := time.Parse(time.RFC3339Nano, left.StringValue())
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	b, err := time.Parse(time.RFC3339Nano, right.StringValue())
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return a, b, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// UUID treats two UUID strings as equal when they parse to the same value,
// regardless of case, braces, or urn prefix.
func UUID() treediff.Equivalence {
	return func(left, right *treediff.Node) bool {
		if left.Type() != treediff.TypeString || right.Type() != treediff.TypeString {
			return false
		}
		a, err := uuid.Parse(left.StringValue())
		if err != nil {
			return false
		}
		b, err := uuid.Parse(right.StringValue())
		if err != nil {
			return false
		}
		return a == b
	}
}
