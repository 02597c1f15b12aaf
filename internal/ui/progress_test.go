package ui

import (
	"errors"
	"strings"
	"testing"

	"plinth/internal/driver"
)

func TestApplyEventTracksModules(t *testing.T) {
	m := NewProgressModel("check", []string{"a", "b", "c", "d"}, nil).(*progressModel)

	m.applyEvent(driver.Event{Stage: driver.StageSequence, Status: driver.StatusWorking})
	if m.stageLabel != "ordering" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	m.applyEvent(driver.Event{Module: "a", Stage: driver.StageCheck, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Module: "b", Stage: driver.StageCheck, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Module: "c", Stage: driver.StageCheck, Status: driver.StatusError, Err: errors.New("boom")})
	m.applyEvent(driver.Event{Module: "unknown", Stage: driver.StageCheck, Status: driver.StatusDone})

	want := []string{"checking", "done", "error", "queued"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Fatalf("%s status = %q, want %q", item.name, item.status, want[i])
		}
	}
	if got := m.percent(); got != 2.5/4 {
		t.Fatalf("percent = %v", got)
	}
}

func TestViewListsModules(t *testing.T) {
	m := NewProgressModel("check", []string{"validators/vault"}, nil).(*progressModel)
	m.done = true
	view := m.View()
	if !strings.Contains(view, "done: check") || !strings.Contains(view, "validators/vault") {
		t.Fatalf("view = %q", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("модуль/валидатор", 8); got != "модул..." {
		t.Fatalf("truncate = %q", got)
	}
}
