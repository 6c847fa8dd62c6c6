package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Copy", statusWarn, "fallback", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Copy:", "[WARN] fallback")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Output", statusOK, "/tmp/output.json", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") {
		t.Fatalf("expected row content, got %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table for no headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderStatusLineUnknownKindFallsBackToInfo(t *testing.T) {
	got := renderStatusLine("Run", statusKind(42), "abc", false)
	if !strings.Contains(got, "[INFO] abc") {
		t.Fatalf("expected info tag, got %q", got)
	}
}

func TestRenderSectionHeaderUnderline(t *testing.T) {
	lines := renderSectionHeader(" Readiness ", false)
	if len(lines) != 2 || lines[0] != "Readiness" || lines[1] != "=========" {
		t.Fatalf("unexpected header %q", lines)
	}
}
