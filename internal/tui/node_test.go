package tui

import (
	"errors"
	"strings"
	"testing"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"
)

func TestNodeFetchSnapshot(t *testing.T) {
	m := NewNodeModel(testServices())
	m.SetSize(120, 40)

	msg := m.fetchCmd()()
	updated, _ := m.Update(msg)
	if updated.Status().State != domain.SessionConnected {
		t.Fatalf("expected connected status, got %s", updated.Status().State)
	}
	if len(updated.Positions()) != 1 || updated.Positions()[0].ID != "1001" {
		t.Fatalf("unexpected positions: %+v", updated.Positions())
	}

	view := updated.View()
	for _, want := range []string{"http://127.0.0.1:8000", "5001 @ Demo-Server", "XAUUSD", "line two"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}

func TestNodeViewDisconnected(t *testing.T) {
	svc := testServices()
	svc.Session = &stubSession{status: mt5.Status{State: domain.SessionDisconnected}}
	svc.ServerErr = func() error { return errors.New("address already in use") }
	m := NewNodeModel(svc)
	m.SetSize(120, 40)

	updated, _ := m.Update(m.fetchCmd()())
	view := updated.View()
	if !strings.Contains(view, "disconnected") {
		t.Fatal("expected disconnected session in view")
	}
	if !strings.Contains(view, "address already in use") {
		t.Fatal("expected server error in view")
	}
	if !strings.Contains(view, "No open positions") {
		t.Fatal("expected empty positions placeholder")
	}
}

func TestNodeViewBeforeFirstSnapshot(t *testing.T) {
	m := NewNodeModel(Services{})
	if !strings.Contains(m.View(), "Starting node") {
		t.Fatal("expected startup placeholder")
	}
	updated, _ := m.Update(m.fetchCmd()())
	if updated.View() == "" {
		t.Fatal("expected view with no services wired")
	}
}
