package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"phase", LevelPhase, false},
		{"func", LevelFunc, false},
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"verbose", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFunc) {
		t.Error("phase level must not emit func-scope events")
	}
	if !LevelFunc.ShouldEmit(ScopePhase) {
		t.Error("func level must emit phase-scope events")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Error("debug level must emit everything")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Error("off level must emit nothing")
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePhase, "walk", 0)
	span.End("3 scopes")
	// Ниже порога, в вывод не попадает.
	Begin(tr, ScopeFunc, "fn:main", 0).End("")

	out := buf.String()
	if !strings.Contains(out, "walk") {
		t.Errorf("phase span missing from output:\n%s", out)
	}
	if strings.Contains(out, "fn:main") {
		t.Errorf("func span emitted at phase level:\n%s", out)
	}
	if !strings.Contains(out, "(3 scopes)") {
		t.Errorf("span detail missing from output:\n%s", out)
	}
}

func TestNewAutoFormat(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Output: &buf, OutputPath: "run.ndjson"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopePhase, Name: "resolve"})
	out := buf.String()
	if !strings.Contains(out, `"name":"resolve"`) {
		t.Errorf("expected ndjson output, got:\n%s", out)
	}
}

func TestNopSpanSafe(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "noop", 0)
	span.Point("p", "")
	if d := span.End(""); d != 0 {
		t.Errorf("nop span duration = %v, want 0", d)
	}
}
