package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelOff, LevelError, LevelPhase, LevelDetail, LevelDebug} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Fatalf("round trip of %s gave %s, %v", l, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatalf("phase level must stop at passes")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatalf("detail level must stop at files")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Fatalf("debug level must record nodes")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("LevelOff tracer must be disabled")
	}
}

func TestSpansNestThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, pass := Start(ctx, ScopePass, "compile")
	_, file := Start(ctx, ScopeFile, "file:main.j")
	file.WithExtra("issues", "0").End("")
	_, node := Start(ctx, ScopeNode, "node")
	node.End("")
	pass.End("done")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].ParentID != pass.ID() {
		t.Fatalf("file span must be parented to the pass, got %d", events[1].ParentID)
	}
	if events[2].Extra["issues"] != "0" {
		t.Fatalf("extra lost: %+v", events[2].Extra)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("sequence numbers must increase")
		}
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("expected cde, got %v", names)
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatText)
	st.Emit(&Event{
		Time:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Kind:   KindSpanEnd,
		Scope:  ScopePass,
		Name:   "load",
		Detail: "3 files",
		Extra:  map[string]string{"b": "2", "a": "1"},
	})
	st.Emit(&Event{Kind: KindPoint, Scope: ScopeFile, Name: "dropped"})
	want := "03:04:05.000 [pass] ← load (3 files) {a=1, b=2}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	st.Emit(&Event{Time: time.Now(), Kind: KindSpanBegin, Scope: ScopePass, SpanID: 7, Name: "resolve"})
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "begin" || got["scope"] != "pass" || got["name"] != "resolve" {
		t.Fatalf("unexpected record %v", got)
	}
}

func TestMultiFindsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ring := Ring(tr)
	if ring == nil {
		t.Fatalf("expected a ring inside the multi tracer")
	}
	Begin(tr, ScopePass, "load", 0).End("")
	if len(ring.Snapshot()) != 2 || buf.Len() == 0 {
		t.Fatalf("both sinks must receive events")
	}
	var dump bytes.Buffer
	if err := ring.Dump(&dump, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(dump.String(), "\n") != 2 {
		t.Fatalf("unexpected dump %q", dump.String())
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("disabled tracer must not start a heartbeat")
	}
	ring := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat {
		t.Fatalf("expected heartbeat events, got %+v", events)
	}
}
