package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ojc/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"a.j.json", "b.j.json"}
	m := NewProgressModel("compile", files, nil).(*progressModel)

	steps := []driver.Event{
		{File: "a.j.json", Stage: driver.StageLoad, Status: driver.StatusDone},
		{File: "b.j.json", Stage: driver.StageLoad, Status: driver.StatusDone},
		{File: "a.j.json", Stage: driver.StageCompile, Status: driver.StatusWorking},
		{File: "a.j.json", Stage: driver.StageCompile, Status: driver.StatusDone, Warnings: 2},
		{File: "b.j.json", Stage: driver.StageCompile, Status: driver.StatusError, Errors: 1},
		{File: "b.j.json", Stage: driver.StageWrite, Status: driver.StatusDone},
		{File: "unknown.j.json", Stage: driver.StageLoad, Status: driver.StatusDone},
	}
	for _, ev := range steps {
		m.applyEvent(ev)
	}

	if got := m.items[0].status; got != "compiled" {
		t.Fatalf("a.j.json status = %q, want compiled", got)
	}
	if got := m.items[1].status; got != "error" {
		t.Fatalf("errors must stick, got %q", got)
	}
	if m.percent() != 1.0 {
		t.Fatalf("percent = %v, want 1", m.percent())
	}

	view := m.View()
	if !strings.Contains(view, "(2 warnings)") {
		t.Fatalf("view should mention warnings:\n%s", view)
	}
	if !strings.Contains(view, "b.j.json") {
		t.Fatalf("view should list files:\n%s", view)
	}
}

func TestProgressModelQuitsWhenChannelCloses(t *testing.T) {
	ch := make(chan driver.Event, 1)
	m := NewProgressModel("compile", []string{"a.j.json"}, ch).(*progressModel)
	ch <- driver.Event{File: "a.j.json", Stage: driver.StageLoad, Status: driver.StatusWorking}
	close(ch)

	msg := m.listenForEvent()()
	if _, ok := msg.(eventMsg); !ok {
		t.Fatalf("expected event message, got %T", msg)
	}
	m.Update(msg)
	if m.items[0].status != "loading" {
		t.Fatalf("status = %q, want loading", m.items[0].status)
	}

	msg = m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg after close, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if !m.done || cmd == nil {
		t.Fatal("model should finish and quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
	if !strings.Contains(m.View(), "done: compile") {
		t.Fatalf("unexpected final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Foundation/CPObject.j", 10); got != "Foun..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
