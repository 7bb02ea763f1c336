package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeBlock, false},
		{LevelDetail, ScopeBlock, true},
		{LevelDetail, ScopeLine, false},
		{LevelDebug, ScopeLine, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"":             FormatText,
		"-":            FormatText,
		"run.ndjson":   FormatNDJSON,
		"run.json":     FormatChrome,
		"run.log":      FormatText,
		"/tmp/a.trace": FormatText,
	}
	for path, want := range cases {
		if got := DetectFormat(FormatAuto, path); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", path, got, want)
		}
	}
	if got := DetectFormat(FormatNDJSON, "x.json"); got != FormatNDJSON {
		t.Errorf("explicit format overridden: %s", got)
	}
}

func TestStreamTextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopePass, "build")
	_, inner := Start(ctx, ScopeBlock, "block:0")
	inner.WithExtra("mapped", "3").End("")
	_, line := Start(ctx, ScopeLine, "line:0")
	line.End("")
	outer.End("ok")

	out := buf.String()
	for _, want := range []string{"→ build", "  → block:0", "← block:0 {mapped=3}", "← build (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "line:0") {
		t.Errorf("line scope emitted at detail level:\n%s", out)
	}
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	span := Begin(tr, ScopePass, "chain", 0)
	span.End("2 blocks")
	Point(tr, ScopePass, "drop", "anchor a", span.ID())
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		TraceEvents []struct {
			Name string            `json:"name"`
			Ph   string            `json:"ph"`
			Args map[string]string `json:"args"`
		} `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("got %d events, want 3", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0].Ph != "B" || doc.TraceEvents[1].Ph != "E" || doc.TraceEvents[2].Ph != "i" {
		t.Errorf("unexpected phases: %+v", doc.TraceEvents)
	}
	if doc.TraceEvents[1].Args["detail"] != "2 blocks" {
		t.Errorf("detail lost: %+v", doc.TraceEvents[1].Args)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(2, LevelPhase)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopePass, name, "", 0)
	}
	events := r.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", events)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("dump has %d lines, want 2", n)
	}
}

func TestNopAndOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("tracer enabled at LevelOff")
	}
	ctx, span := Start(context.Background(), ScopeDriver, "job")
	if span.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Errorf("nop span carries an id")
	}
	if d := span.End(""); d != 0 {
		t.Errorf("nop span duration = %v", d)
	}
}

func TestParse(t *testing.T) {
	if l, err := ParseLevel("detail"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if f, err := ParseFormat("chrome"); err != nil || f != FormatChrome {
		t.Errorf("ParseFormat: %v %v", f, err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode: %v %v", m, err)
	}
}

func TestMultiRing(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	if multi.Ring() != ring {
		t.Fatalf("Ring() did not return the ring target")
	}
	Begin(multi, ScopePass, "merge", 0).End("")
	if len(ring.Snapshot()) == 0 {
		t.Errorf("ring got no events")
	}
	if NewMultiTracer(LevelPhase, Nop).Ring() != nil {
		t.Errorf("Ring() without ring target must be nil")
	}
}
