package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestStatusBarClearIfSeqMatch(t *testing.T) {
	m := NewStatusBarModel()
	m.SetWidth(80)

	m.SetTemporaryMessage("first", time.Second)
	stale := m.messageSeq
	m.SetTemporaryMessage("second", time.Second)

	if m.ClearIfSeqMatch(stale) {
		t.Error("stale clear should be ignored")
	}
	if m.Message() != "second" {
		t.Errorf("message = %q, want second", m.Message())
	}
	if !m.ClearIfSeqMatch(m.messageSeq) {
		t.Error("current clear should apply")
	}
	if m.Message() != "" {
		t.Errorf("message after clear = %q", m.Message())
	}
}

func TestStatusBarView(t *testing.T) {
	m := NewStatusBarModel()
	m.SetWidth(100)

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "[Tab]next") {
		t.Errorf("idle bar should show key hints, got %q", view)
	}

	m.SetWarning("no measurable geometry", time.Second)
	view = ansi.Strip(m.View())
	if !strings.Contains(view, "⚠ no measurable geometry") {
		t.Errorf("warning not shown: %q", view)
	}

	m.SetTemporaryMessage("saved", time.Second)
	view = ansi.Strip(m.View())
	if strings.Contains(view, "⚠") || !strings.Contains(view, "saved") {
		t.Errorf("plain message shown as warning: %q", view)
	}
}

func TestStatusBarNarrow(t *testing.T) {
	m := NewStatusBarModel()
	m.SetWidth(30)
	if got := len(strings.Split(m.View(), "\n")); got != 1 {
		t.Errorf("narrow status bar wrapped onto %d lines", got)
	}
}
