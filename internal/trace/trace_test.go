package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if lvl.String() != name {
			t.Fatalf("round trip %q -> %q", name, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeModule) {
		t.Fatalf("phase level must not emit module events")
	}
	if !LevelDetail.ShouldEmit(ScopeModule) || LevelDetail.ShouldEmit(ScopeDefinition) {
		t.Fatalf("detail level must emit module but not definition events")
	}
	if !LevelDebug.ShouldEmit(ScopeDefinition) {
		t.Fatalf("debug level must emit everything")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	span := Begin(tr, ScopePass, "sequence", 0)
	Point(tr, ScopeModule, "module:a", "queued", span.ID())
	Point(tr, ScopeDefinition, "fn:a.f", "", span.ID())
	span.WithExtra("modules", "2").WithExtra("batches", "1").End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ sequence") {
		t.Fatalf("unexpected begin line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "• module:a (queued)") {
		t.Fatalf("unexpected point line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "← sequence (ok) {batches=1, modules=2}") {
		t.Fatalf("unexpected end line: %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopePass, "analyze", 0).End("")

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		kinds = append(kinds, ev["kind"].(string))
	}
	if len(kinds) != 2 || kinds[0] != "begin" || kinds[1] != "end" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(tr, ScopePass, "p", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span not propagated")
	}
}

func TestNopSpanIsInert(t *testing.T) {
	span := Begin(Nop, ScopePass, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("nop span must be inert")
	}
}

func TestTracingLevels(t *testing.T) {
	tr := VerboseTracing(true)
	if tr.TraceLevel(true) != TraceVerbose || tr.TraceLevel(false) != TraceVerbose {
		t.Fatalf("verbose tracing = %+v", tr)
	}
	if got := VerboseTracing(false).TraceLevel(true); got != TraceSilent {
		t.Fatalf("silent tracing code-gen level = %v", got)
	}

	user, err := ParseTracing("user-defined", "compact")
	if err != nil {
		t.Fatalf("ParseTracing: %v", err)
	}
	if user.TraceLevel(true) != TraceSilent || user.TraceLevel(false) != TraceCompact {
		t.Fatalf("user-defined tracing = %+v", user)
	}
	if _, err := ParseTracing("nobody", "compact"); err == nil {
		t.Fatalf("expected filter error")
	}
	if _, err := ParseTracing("all", "chatty"); err == nil {
		t.Fatalf("expected verbosity error")
	}
}
