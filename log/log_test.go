package log

import (
	"strings"
	"testing"
)

func capture(t *testing.T) *[]string {
	t.Helper()
	prevOut, prevOnLog, prevVerbose := Out, OnLog, Verbose
	t.Cleanup(func() {
		Out, OnLog, Verbose = prevOut, prevOnLog, prevVerbose
	})
	var lines []string
	Out = nil
	OnLog = func(s string) {
		lines = append(lines, s)
	}
	return &lines
}

func TestLogfHasCallSite(t *testing.T) {
	lines := capture(t)
	Logf("hello %d\n", 42)
	if len(*lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(*lines))
	}
	s := (*lines)[0]
	if !strings.Contains(s, "log_test.go:") {
		t.Fatalf("expected call site in %q", s)
	}
	if !strings.Contains(s, "hello 42") {
		t.Fatalf("expected message in %q", s)
	}
}

func TestVerbosefGated(t *testing.T) {
	lines := capture(t)
	Verbose = false
	Verbosef("quiet\n")
	if len(*lines) != 0 {
		t.Fatalf("expected no output with Verbose off, got %v", *lines)
	}
	Verbose = true
	Verbosef("loud\n")
	if len(*lines) != 1 {
		t.Fatalf("expected 1 line with Verbose on, got %d", len(*lines))
	}
}

func TestErrorfHasCallstack(t *testing.T) {
	lines := capture(t)
	Errorf("boom: %v", "reason")
	s := (*lines)[0]
	if !strings.HasPrefix(s, "boom: reason\n") {
		t.Fatalf("expected message first in %q", s)
	}
	if !strings.Contains(s, "log_test.go") {
		t.Fatalf("expected callstack in %q", s)
	}
}

func TestEvent(t *testing.T) {
	lines := capture(t)
	Event("saved", "path", "prefs.json", "keys", 3)
	s := (*lines)[0]
	if !strings.Contains(s, " saved\n") {
		t.Fatalf("expected event name in %q", s)
	}
	if !strings.Contains(s, "prefs.json") {
		t.Fatalf("expected event values in %q", s)
	}
}
