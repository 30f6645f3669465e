package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(t.TempDir(), nil)

	p, sched := testProject(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	next, _ = m.Update(projectLoadedMsg{project: p, sched: sched})
	return next.(Model)
}

func TestModel_LoadAndView(t *testing.T) {
	m := loadedModel(t)

	if !m.ready {
		t.Fatal("model should be ready after projectLoadedMsg")
	}
	out := m.View()
	if !strings.Contains(out, "Riverside Tower") {
		t.Error("view missing project name")
	}
	if !strings.Contains(m.status, "loaded 3 work items") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_LoadWarnings(t *testing.T) {
	m := NewModel(t.TempDir(), nil)
	p, sched := testProject(t)

	next, _ := m.Update(projectLoadedMsg{
		project:  p,
		sched:    sched,
		warnings: []error{errors.New("unknown successor")},
	})
	m = next.(Model)

	if !m.statusIsError || !strings.Contains(m.status, "1 validation warning") {
		t.Errorf("status = %q (isError=%v)", m.status, m.statusIsError)
	}
}

func TestModel_LoadFailure(t *testing.T) {
	m := NewModel(t.TempDir(), nil)
	next, _ := m.Update(loadFailedMsg{errors.New("no project data found")})
	m = next.(Model)

	if !m.statusIsError {
		t.Error("load failure should set an error status")
	}
	if m.ready {
		t.Error("model must not become ready on failure")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(Model)
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	if out := m.View(); !strings.Contains(out, "sitework") {
		t.Error("help view missing title")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := loadedModel(t)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key.String())
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("%s produced %v, want quit", key.String(), msg)
		}
	}
}

func TestModel_YankRequiresHover(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(Model)
	if !m.statusIsError || !strings.Contains(m.status, "nothing hovered") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_ConnectorKeysReachGantt(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.gantt.HoverDescription() == "" {
		t.Error("tab should reach the gantt view and focus a connector")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)
	if m.gantt.Overlay().Visible() {
		t.Error("c should toggle the connector layer off")
	}
}

func TestModel_DependencyFormLifecycle(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = next.(Model)
	if m.depForm == nil {
		t.Fatal("a should open the dependency form")
	}
	if out := m.View(); !strings.Contains(out, "Add dependency") {
		t.Error("form view missing header")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.depForm != nil {
		t.Error("esc should dismiss the form")
	}
}

func TestModel_StatusMsg(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(statusMsg{text: "exported sitework-snapshot.svg"})
	m = next.(Model)
	if m.status != "exported sitework-snapshot.svg" || m.statusIsError {
		t.Errorf("status = %q (isError=%v)", m.status, m.statusIsError)
	}
}

func TestNewHelpViewport(t *testing.T) {
	vp := newHelpViewport(100, 30)
	if vp.Width != 100 || vp.Height != 29 {
		t.Errorf("viewport size = %dx%d", vp.Width, vp.Height)
	}
	if !strings.Contains(vp.View(), "sitework") {
		t.Error("help viewport missing title")
	}

	// Tiny terminals still get a usable window.
	vp = newHelpViewport(0, 0)
	if vp.Width != 80 || vp.Height != 5 {
		t.Errorf("fallback size = %dx%d", vp.Width, vp.Height)
	}
}
