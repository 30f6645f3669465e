package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/sitework/pkg/model"
	"github.com/vanderheijden86/sitework/pkg/schedule"
)

func testProject(t *testing.T) (*model.Project, *schedule.Result) {
	t.Helper()
	p := &model.Project{
		Name: "Riverside Tower",
		WorkItems: []model.WorkItem{
			{ID: "exc", Title: "Excavation", Status: model.StatusDone, DurationDays: 5, StartDay: 0},
			{ID: "fnd", Title: "Foundation", Status: model.StatusInProgress, DurationDays: 10, StartDay: 5},
			{ID: "lnd", Title: "Landscaping", Status: model.StatusPlanned, DurationDays: 3, StartDay: 0},
		},
		Dependencies: []model.Dependency{
			{PredecessorID: "exc", SuccessorID: "fnd", Type: model.FinishToStart},
		},
		Milestones: []model.Milestone{
			{ID: 1, Name: "Groundwork complete", Day: 15, Contributors: []string{"fnd"}},
		},
	}
	sched, err := schedule.Compute(p.WorkItems, p.Dependencies)
	if err != nil {
		t.Fatalf("schedule.Compute: %v", err)
	}
	return p, sched
}

func testGanttModel(t *testing.T) GanttModel {
	t.Helper()
	g := NewGanttModel(TestTheme())
	p, sched := testProject(t)
	g.SetData(p, sched)
	g.SetSize(100, 30)
	return g
}

func TestGanttModel_FocusCycling(t *testing.T) {
	g := testGanttModel(t)

	if g.HoverDescription() != "" {
		t.Fatal("no hover expected before focusing")
	}

	g.FocusNext()
	first := g.HoverDescription()
	if first == "" {
		t.Fatal("focusing a connector should produce a description")
	}
	if !g.hover.active {
		t.Error("hover state should be active")
	}

	n := len(g.overlay.Elements)
	for i := 0; i < n; i++ {
		g.FocusNext()
	}
	if got := g.HoverDescription(); got != first {
		t.Errorf("cycling %d times should wrap to the first connector, got %q", n, got)
	}

	g.FocusPrev()
	g.FocusNext()
	if got := g.HoverDescription(); got != first {
		t.Errorf("prev then next should return to same connector, got %q", got)
	}

	g.Blur()
	if g.HoverDescription() != "" || g.hover.active {
		t.Error("blur should clear the hover")
	}
}

func TestGanttModel_HoverConnectsEndpoints(t *testing.T) {
	g := testGanttModel(t)

	// The only explicit dependency is exc -> fnd.
	for i := range g.overlay.Elements {
		if g.overlay.Elements[i].Connector.Key == "dep:exc->fnd" {
			g.focusIdx = i - 1
			g.FocusNext()
			break
		}
	}

	if !g.hover.ids["exc"] || !g.hover.ids["fnd"] {
		t.Errorf("hover ids = %v, want exc and fnd", g.hover.ids)
	}
	if g.hover.ids["lnd"] {
		t.Error("landscaping is not an endpoint and must not be in hover ids")
	}
}

func TestGanttModel_ToggleConnectors(t *testing.T) {
	g := testGanttModel(t)

	g.FocusNext()
	g.ToggleConnectors()

	if g.overlay.Visible() {
		t.Error("overlay should be hidden after toggle")
	}
	if g.HoverDescription() != "" {
		t.Error("hiding the layer should drop focus and hover")
	}
	for _, el := range g.overlay.Elements {
		if el.TabIndex != -1 {
			t.Fatalf("hidden element TabIndex = %d, want -1", el.TabIndex)
		}
	}

	// Focus cycling is inert while hidden.
	g.FocusNext()
	if g.HoverDescription() != "" {
		t.Error("focus should not move while the layer is hidden")
	}

	g.ToggleConnectors()
	for _, el := range g.overlay.Elements {
		if el.TabIndex != 0 {
			t.Fatalf("visible element TabIndex = %d, want 0", el.TabIndex)
		}
	}
}

func TestGanttModel_KeyboardRouting(t *testing.T) {
	g := testGanttModel(t)

	g.Update(tea.KeyMsg{Type: tea.KeyTab})
	if g.HoverDescription() == "" {
		t.Error("tab should focus a connector")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if g.HoverDescription() != "" {
		t.Error("esc should clear focus")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if g.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", g.cursor)
	}
	g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if g.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", g.cursor)
	}
}

func TestGanttModel_View(t *testing.T) {
	g := testGanttModel(t)
	out := g.View()

	for _, want := range []string{"Riverside Tower", "Excavation", "Foundation", "Groundwork complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Footer shows the hovered description once a connector is focused.
	g.FocusNext()
	out = g.View()
	if !strings.Contains(out, g.HoverDescription()) {
		t.Error("view should include the hovered connector's description")
	}
}

func TestGanttModel_EmptyProject(t *testing.T) {
	g := NewGanttModel(TestTheme())
	g.SetData(&model.Project{Name: "empty"}, &schedule.Result{})
	g.SetSize(80, 24)

	if g.overlay != nil {
		t.Error("no work items means no overlay")
	}
	g.FocusNext() // must not panic
	if g.HoverDescription() != "" {
		t.Error("nothing to hover in an empty project")
	}
}

func TestConnectorBox(t *testing.T) {
	g := testGanttModel(t)
	for _, el := range g.overlay.Elements {
		box := connectorBox(el.Connector)
		if box.Width < 0 || box.Height < 0 {
			t.Fatalf("connector %s: negative box %+v", el.Connector.Key, box)
		}
		c := box.Center()
		lo, hi := el.Connector.From.X, el.Connector.To.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if c.X < lo || c.X > hi {
			t.Errorf("connector %s: center X %v outside endpoint span [%v, %v]", el.Connector.Key, c.X, lo, hi)
		}
	}
}
