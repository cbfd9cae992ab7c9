package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirm_InvokesCallbackOnce(t *testing.T) {
	m := NewConfirmModel()

	calls := 0
	m.Open("RT3080", func() tea.Msg {
		calls++
		return nil
	})
	if !m.Active() {
		t.Fatal("expected model active after Open")
	}

	cmd := m.Confirm()
	if cmd == nil {
		t.Fatal("expected a command from Confirm")
	}
	cmd()
	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
	if m.Active() {
		t.Error("expected model idle after Confirm")
	}

	// A second confirm finds no callback left to run
	if cmd := m.Confirm(); cmd != nil {
		cmd()
	}
	if calls != 1 {
		t.Fatalf("callback ran %d times after double confirm, want 1", calls)
	}
}

func TestConfirm_CancelNeverInvokes(t *testing.T) {
	m := NewConfirmModel()

	calls := 0
	m.Open("RT3080", func() tea.Msg {
		calls++
		return nil
	})

	m.Cancel()
	if m.Active() {
		t.Error("expected model idle after Cancel")
	}
	if calls != 0 {
		t.Fatalf("callback ran %d times after cancel, want 0", calls)
	}

	// Confirming after cancel must not resurrect the callback
	if cmd := m.Confirm(); cmd != nil {
		cmd()
	}
	if calls != 0 {
		t.Fatalf("callback ran %d times, want 0", calls)
	}
}

func TestConfirm_ReopenReplacesCallback(t *testing.T) {
	m := NewConfirmModel()

	firstCalls := 0
	m.Open("AA1111", func() tea.Msg { firstCalls++; return nil })
	m.Cancel()

	secondCalls := 0
	m.Open("BB2222", func() tea.Msg { secondCalls++; return nil })
	if cmd := m.Confirm(); cmd != nil {
		cmd()
	}

	if firstCalls != 0 {
		t.Errorf("stale callback ran %d times", firstCalls)
	}
	if secondCalls != 1 {
		t.Errorf("current callback ran %d times, want 1", secondCalls)
	}
}
