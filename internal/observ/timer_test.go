package observ

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := &Timer{now: fakeClock(2 * time.Millisecond)}
	load := tm.Begin("load")
	tm.End(load, "3 files")
	tm.End(load, "second end is ignored")
	compile := tm.Begin("compile")
	open := tm.Begin("write")
	tm.End(compile, "")
	tm.End(42, "ignored")

	report := tm.Report()
	report.Files = 3
	if len(report.Phases) != 2 {
		t.Fatalf("open phases must be left out, got %+v", report.Phases)
	}
	if report.Phases[0] != (PhaseReport{Name: "load", DurationMS: 2, Note: "3 files"}) {
		t.Fatalf("unexpected first phase %+v", report.Phases[0])
	}
	if report.Phases[1].DurationMS != 4 || report.TotalMS != 6 {
		t.Fatalf("durations not accumulated: %+v", report)
	}
	if tm.Elapsed(load) != 2*time.Millisecond {
		t.Fatalf("Elapsed of a closed phase must be its duration, got %v", tm.Elapsed(load))
	}
	if tm.Elapsed(open) <= 0 {
		t.Fatalf("Elapsed of an open phase must run on")
	}

	var js bytes.Buffer
	if err := report.WriteJSON(&js); err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Files != 3 || len(back.Phases) != 2 || strings.Contains(js.String(), `"note":""`) {
		t.Fatalf("unexpected JSON %s", js.String())
	}

	var text bytes.Buffer
	if err := report.WriteText(&text); err != nil {
		t.Fatal(err)
	}
	want := "timings (3 files):\n" +
		"  load         2.00 ms  3 files\n" +
		"  compile      4.00 ms\n" +
		"  total        6.00 ms\n"
	if text.String() != want {
		t.Fatalf("text report:\n%q\nwant:\n%q", text.String(), want)
	}
}

func TestEmptyTimer(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("expected an empty report, got %+v", r)
	}
}
