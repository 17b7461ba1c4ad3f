package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"openingline/internal/candidates"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Candidates", statusWarn, "0 total", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Candidates:", "[EMPTY] 0 total")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Candidates", statusOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestBacklogKind(t *testing.T) {
	tests := []struct {
		stats candidates.Stats
		want  statusKind
	}{
		{candidates.Stats{}, statusWarn},
		{candidates.Stats{Total: 2, Processed: 2}, statusOK},
		{candidates.Stats{Total: 2, Processed: 1, Unprocessed: 1}, statusInfo},
	}
	for _, tt := range tests {
		if got := backlogKind(tt.stats); got != tt.want {
			t.Fatalf("backlogKind(%+v) = %v, want %v", tt.stats, got, tt.want)
		}
	}
}

func TestRenderStatusEmptyBacklog(t *testing.T) {
	out := renderStatus(statusReport{MoviesFile: "/data/movies.json", EntriesFile: "/data/entries.json"}, false)
	if !strings.Contains(out, "openingline discover") {
		t.Fatalf("expected discover hint, got:\n%s", out)
	}
	if strings.Contains(out, "Unprocessed") {
		t.Fatalf("no year table expected for an empty backlog:\n%s", out)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") || strings.Count(out, "\n") < 4 {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
