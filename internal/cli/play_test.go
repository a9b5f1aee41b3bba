package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/repostory/pkg/story"
	"github.com/matzehuels/repostory/pkg/view"
)

func playBundle() story.Bundle {
	return story.New([]story.Commit{
		{Hash: "aaaa111", Author: "Ann", Time: 100, Subject: "init"},
		{Hash: "bbbb222", Parents: []string{"aaaa111"}, Author: "Ann", Time: 200, Subject: "feature"},
		{Hash: "cccc333", Parents: []string{"bbbb222"}, Author: "Bob", Time: 300, Subject: "release"},
	}, map[string][]string{"cccc333": {"v1.0.0"}})
}

func newTestPlayModel(initial int) *playModel {
	m := newPlayModel(view.New(playBundle(), nil, view.Options{InitialVisible: initial}), "Demo")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 13})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayResize(t *testing.T) {
	m := newTestPlayModel(1)
	if w, h := m.ctrl.Size(); w != 40 || h != 20 {
		t.Errorf("controller size = %dx%d, want 40x20", w, h)
	}
	if m.canvas.Cols() != 40 || m.canvas.Rows() != 10 {
		t.Errorf("canvas = %dx%d cells", m.canvas.Cols(), m.canvas.Rows())
	}
}

func TestPlayTicksUntilEnd(t *testing.T) {
	m := newTestPlayModel(1)

	_, cmd := m.Update(key(" "))
	if cmd == nil || !m.ctrl.Playing() {
		t.Fatal("space should start playback and schedule a tick")
	}
	_, cmd = m.Update(tickMsg(time.Now()))
	if m.ctrl.Visible() != 2 || cmd == nil {
		t.Fatalf("after first tick: visible = %d, next tick scheduled = %v", m.ctrl.Visible(), cmd != nil)
	}
	_, cmd = m.Update(tickMsg(time.Now()))
	if m.ctrl.Visible() != 3 || m.ctrl.Playing() || cmd != nil {
		t.Errorf("after last tick: visible = %d, playing = %v, next tick = %v", m.ctrl.Visible(), m.ctrl.Playing(), cmd != nil)
	}
}

func TestPlayPauseKeepsOneTick(t *testing.T) {
	m := newTestPlayModel(1)
	_, first := m.Update(key(" "))
	m.Update(key(" "))
	_, again := m.Update(key(" "))
	if first == nil {
		t.Fatal("no tick scheduled on play")
	}
	if again != nil {
		t.Error("resuming while a tick is pending scheduled a second one")
	}
}

func TestPlayKeys(t *testing.T) {
	m := newTestPlayModel(2)

	m.Update(key("right"))
	if m.ctrl.Visible() != 3 {
		t.Errorf("right: visible = %d", m.ctrl.Visible())
	}
	m.Update(key("left"))
	m.Update(key("left"))
	if m.ctrl.Visible() != 1 {
		t.Errorf("left: visible = %d", m.ctrl.Visible())
	}
	m.Update(key("+"))
	if m.ctrl.Zoom() <= 1 {
		t.Errorf("+: zoom = %g", m.ctrl.Zoom())
	}
	m.Update(key("d"))
	if x, _ := m.ctrl.Pan(); x != panStep {
		t.Errorf("d: pan x = %g", x)
	}
	m.Update(key("r"))
	if m.ctrl.Visible() != 2 || m.ctrl.Zoom() != 1 {
		t.Errorf("r: visible = %d zoom = %g", m.ctrl.Visible(), m.ctrl.Zoom())
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestPlayMouseDrag(t *testing.T) {
	m := newTestPlayModel(3)
	m.Update(tea.MouseMsg{X: 5, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{X: 8, Y: 4, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 8, Y: 4, Action: tea.MouseActionRelease})

	x, y := m.ctrl.Pan()
	if x != 3 || y != 2 {
		t.Errorf("pan = (%g, %g), want (3, 2)", x, y)
	}
	if m.ctrl.Dragging() {
		t.Error("still dragging after release")
	}

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.ctrl.Zoom() >= 1 {
		t.Errorf("wheel down: zoom = %g", m.ctrl.Zoom())
	}
}

func TestPlayView(t *testing.T) {
	m := newTestPlayModel(3)
	out := m.View()
	for _, want := range []string{"Demo", "(3/3)", "cccc333", "Bob", "release", "v1.0.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() is missing %q", want)
		}
	}

	m.Update(key("home"))
	if !strings.Contains(m.View(), "no commits visible") {
		t.Error("View() at cursor 0 should say nothing is visible")
	}
}
