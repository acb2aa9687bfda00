package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

func TestLevelAllowsScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelPhase, ScopeRun, true},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeModule, false},
		{LevelModule, ScopeModule, true},
		{LevelModule, ScopeFunction, false},
		{LevelFunction, ScopeFunction, true},
	}
	for _, tc := range cases {
		if got := tc.level.Allows(tc.scope); got != tc.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "OFF": LevelOff, " phase ": LevelPhase, "Module": LevelModule, "function": LevelFunction} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("debug"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSpansInheritModuleAndFunction(t *testing.T) {
	rec := NewRecorder(LevelFunction)
	ctx := WithTracer(context.Background(), rec)

	ctx, phase := StartSpan(ctx, ScopePhase, "bodies")
	mctx, mod := StartModule(ctx, "lower", "main")
	_, fn := StartFunction(mctx, "main", "main.f")
	fn.Count("constraints", 3).Count("constraints", 2).End("")
	mod.End("")
	phase.End("")

	events := rec.Events()
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6", len(events))
	}
	if events[1].ParentID != phase.ID() || events[2].ParentID != mod.ID() {
		t.Fatalf("parents = %d, %d", events[1].ParentID, events[2].ParentID)
	}
	ended := rec.Ended(ScopeFunction)
	if len(ended) != 1 {
		t.Fatalf("function ends = %d", len(ended))
	}
	end := ended[0]
	if end.Module != "main" || end.Function != "main.f" || end.Outcome != OutcomeOK || end.Counts["constraints"] != 5 {
		t.Fatalf("function end = %+v", end)
	}
	if mods := rec.Ended(ScopeModule); mods[0].Function != "" || mods[0].Name != "lower" {
		t.Fatalf("module end = %+v", mods[0])
	}
}

func TestLevelFiltersFunctionSpans(t *testing.T) {
	rec := NewRecorder(LevelModule)
	ctx := WithTracer(context.Background(), rec)

	mctx, mod := StartModule(ctx, "lower", "main")
	fctx, fn := StartFunction(mctx, "main", "main.f")
	if fn != nil || fctx != mctx {
		t.Fatal("function span opened below its level")
	}
	fn.Count("constraints", 1).End("")
	mod.End("")

	if got := len(rec.Events()); got != 2 {
		t.Fatalf("got %d events, want 2", got)
	}
}

func TestOutcome(t *testing.T) {
	de := diag.Errorf(diag.SemaTypeMismatch, "main", source.Span{}, "bad")
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{de, diag.SemaTypeMismatch.ID()},
		{errors.Join(errors.New("wrapped"), de), diag.SemaTypeMismatch.ID()},
		{errors.New("disk full"), "failed"},
	}
	for _, tc := range cases {
		if got := Outcome(tc.err); got != tc.want {
			t.Errorf("Outcome(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFunction, FormatText)
	ctx := WithTracer(context.Background(), tr)

	mctx, mod := StartModule(ctx, "lower", "main")
	_, fn := StartFunction(mctx, "main", "main.f")
	fn.End(diag.SemaReturnTypeMismatch.ID())
	mod.Count("diagnostics", 1).End(diag.SemaReturnTypeMismatch.ID())
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"→ lower [main]", "→ main.f", "SEM3013", "{diagnostics=1}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "[000001]") {
		t.Errorf("first event is not sequence 1:\n%s", out)
	}
}

func TestNDJSONCarriesPayload(t *testing.T) {
	ev := &Event{Kind: KindEnd, Scope: ScopeFunction, Name: "main.f", Module: "main", Function: "main.f",
		Outcome: "SEM3010", Counts: map[string]int{"constraints": 4}}
	line := FormatEvent(ev, FormatNDJSON)
	if !bytes.HasSuffix(line, []byte("\n")) {
		t.Fatalf("line %q is not terminated", line)
	}
	var got struct {
		Kind     string         `json:"kind"`
		Scope    string         `json:"scope"`
		Module   string         `json:"module"`
		Function string         `json:"function"`
		Outcome  string         `json:"outcome"`
		Counts   map[string]int `json:"counts"`
	}
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "end" || got.Scope != "function" || got.Module != "main" || got.Outcome != "SEM3010" || got.Counts["constraints"] != 4 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestNewPicksFormatByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	st, ok := tr.(*StreamTracer)
	if !ok || st.format != FormatNDJSON {
		t.Fatalf("tracer = %T, want an ndjson stream", tr)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if off, _ := New(Config{}); off != Nop {
		t.Fatal("level off must give Nop")
	}
}

func TestNilSpanIsSafe(t *testing.T) {
	_, span := StartSpan(context.Background(), ScopeRun, "lower")
	if span.ID() != 0 {
		t.Fatal("untraced span has an id")
	}
	if d := span.Count("k", 1).End("ok"); d != 0 {
		t.Fatalf("nil span elapsed %v", d)
	}
}
