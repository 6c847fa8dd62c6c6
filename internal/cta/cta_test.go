package cta_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"slidegen/internal/cta"
)

var sentences = []string{
	"You promised yourself this wouldn't happen again.",
	"You know exactly why you can't slip again.",
}

func TestClamp(t *testing.T) {
	cases := []struct{ n, want int }{{15, 10}, {8, 8}, {9, 9}, {1, 8}, {-3, 8}, {10, 10}}
	for _, tc := range cases {
		if got := cta.Clamp(tc.n, 8, 10); got != tc.want {
			t.Fatalf("Clamp(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestRepeatCountOfFifteenRendersTenLines(t *testing.T) {
	block := cta.Render(sentences[0], cta.Clamp(15, 8, 10), "Try Lastr.")
	parts := strings.Split(block, "\n\n")
	if len(parts) != 2 || parts[1] != "Try Lastr." {
		t.Fatalf("unexpected block layout %q", block)
	}
	lines := strings.Split(parts[0], "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 repeated lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line != sentences[0] {
			t.Fatalf("unexpected line %q", line)
		}
	}
}

func TestResolveSubstitutesFirstSentence(t *testing.T) {
	got, substituted := cta.Resolve("Download now!", sentences)
	if got != sentences[0] || !substituted {
		t.Fatalf("Resolve = %q, %v", got, substituted)
	}
	got, substituted = cta.Resolve("  "+sentences[1]+"\n", sentences)
	if got != sentences[1] || substituted {
		t.Fatalf("Resolve exact = %q, %v", got, substituted)
	}
	got, substituted = cta.Resolve("you know exactly why you can't slip again.", sentences)
	if got != sentences[0] || !substituted {
		t.Fatalf("match must be case-sensitive, got %q, %v", got, substituted)
	}
}

func TestParseRepeats(t *testing.T) {
	cases := []struct {
		raw  any
		want int
	}{
		{nil, 8},
		{float64(9), 9},
		{9.5, 9},
		{15.5, 15},
		{1e20, math.MaxInt},
		{-1e20, math.MinInt},
		{math.Inf(1), math.MaxInt},
		{math.NaN(), 8},
		{"15.0", 15},
		{json.Number("1e20"), math.MaxInt},
		{"10", 10},
		{" 12 ", 12},
		{"ten", 8},
		{json.Number("9"), 9},
		{true, 8},
		{[]any{1}, 8},
	}
	for _, tc := range cases {
		if got := cta.ParseRepeats(tc.raw, 8); got != tc.want {
			t.Fatalf("ParseRepeats(%v) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseRepeatsThenClampStaysInBounds(t *testing.T) {
	for _, raw := range []any{15.5, 1e20, "15.0", json.Number("12.7")} {
		if got := cta.Clamp(cta.ParseRepeats(raw, 8), 8, 10); got != 10 {
			t.Fatalf("Clamp(ParseRepeats(%v)) = %d, want 10", raw, got)
		}
	}
}

func TestRenderWithoutClosing(t *testing.T) {
	if got := cta.Render("go", 2, ""); got != "go\ngo" {
		t.Fatalf("Render = %q", got)
	}
}
