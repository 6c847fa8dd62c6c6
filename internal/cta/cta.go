// Package cta renders the repeated call-to-action block shown on closing
// slides.
package cta

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(hi, n))
}

// Resolve returns sentence when it exactly matches an entry of set (after
// trimming surrounding whitespace), otherwise the first entry. The second
// return value reports whether a substitution happened.
func Resolve(sentence string, set []string) (string, bool) {
	if len(set) == 0 {
		return strings.TrimSpace(sentence), false
	}
	trimmed := strings.TrimSpace(sentence)
	for _, candidate := range set {
		if trimmed == candidate {
			return candidate, false
		}
	}
	return set[0], true
}

// ParseRepeats converts a decoded JSON repeat count into an int. Integers,
// finite floats, and numeric strings are accepted; fractions truncate toward
// zero and values beyond the int range saturate. Anything else yields
// fallback.
func ParseRepeats(raw any, fallback int) int {
	switch v := raw.(type) {
	case nil:
		return fallback
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if n, ok := truncate(v); ok {
			return n
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			if n, ok := truncate(f); ok {
				return n
			}
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			if n, ok := truncate(f); ok {
				return n
			}
		}
	}
	return fallback
}

// truncate drops the fraction of a finite float and saturates at the int
// bounds. NaN reports false.
func truncate(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(math.Trunc(f)), true
}

// Render repeats sentence once per line, then adds a blank line and the
// closing line. An empty closing omits the trailer.
func Render(sentence string, repeats int, closing string) string {
	if repeats < 1 {
		repeats = 1
	}
	lines := make([]string, repeats)
	for i := range lines {
		lines[i] = sentence
	}
	block := strings.Join(lines, "\n")
	if strings.TrimSpace(closing) == "" {
		return block
	}
	return block + "\n\n" + closing
}
