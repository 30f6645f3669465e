package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sitework/pkg/gantt"
	"github.com/vanderheijden86/sitework/pkg/model"
	"github.com/vanderheijden86/sitework/pkg/schedule"
)

// labelWidth is the fixed width of the task-title column.
const labelWidth = 24

// hoverState is the tooltip/dimming state mirrored out of the connector
// interaction machine. It lives behind a pointer so bubbletea's value
// copies of the model all see the same state.
type hoverState struct {
	active bool
	ids    map[string]bool
	desc   string
	pos    gantt.Point
}

// GanttModel renders the schedule as rows of bars with a milestone lane,
// plus the dependency connector layer driven through the overlay's
// interaction machine.
type GanttModel struct {
	theme Theme

	project *model.Project
	sched   *schedule.Result

	layout   gantt.LayoutOptions
	colors   gantt.Colors
	geometry gantt.Geometry
	overlay  *gantt.Overlay
	ix       *gantt.Interactions
	hover    *hoverState

	focusIdx     int // index into overlay elements, -1 = none
	cursor       int
	scrollOffset int
	width        int
	height       int

	showConnectors bool
	ready          bool
}

// NewGanttModel creates an empty Gantt view.
func NewGanttModel(theme Theme) GanttModel {
	hover := &hoverState{}
	ix := gantt.NewInteractions(gantt.Callbacks{
		Hover: func(ids []string, desc string, pos gantt.Point) {
			hover.active = true
			hover.ids = make(map[string]bool, len(ids))
			for _, id := range ids {
				hover.ids[id] = true
			}
			hover.desc = desc
			hover.pos = pos
		},
		Move: func(pos gantt.Point) {
			hover.pos = pos
		},
		Leave: func() {
			*hover = hoverState{}
		},
	})
	return GanttModel{
		theme:          theme,
		layout:         gantt.DefaultLayout(),
		colors:         gantt.DefaultColors(),
		ix:             ix,
		hover:          hover,
		focusIdx:       -1,
		showConnectors: true,
	}
}

// SetData replaces the project and rebuilds geometry and connectors. Any
// active hover is cleared; a reload invalidates the hovered key.
func (g *GanttModel) SetData(project *model.Project, sched *schedule.Result) {
	g.project = project
	g.sched = sched
	g.focusIdx = -1
	g.ix.Leave()

	if project == nil || sched == nil {
		g.overlay = nil
		g.ready = false
		return
	}

	g.geometry = gantt.BuildGeometry(project.WorkItems, project.Milestones, g.layout)
	connectors := gantt.BuildConnectors(gantt.Inputs{
		Dependencies:   project.Dependencies,
		Contributors:   contributorsByMilestone(project.Milestones),
		Required:       requiredByItem(project.WorkItems),
		CriticalSet:    sched.CriticalSet,
		CriticalOrder:  sched.CriticalOrder,
		Geometry:       g.geometry,
		Titles:         project.TitleMap(),
		MilestoneNames: project.MilestoneNames(),
	})
	if g.colors == (gantt.Colors{}) {
		g.colors = gantt.DefaultColors()
	}
	g.overlay = gantt.BuildOverlay(connectors, g.showConnectors, g.ix, g.colors)
	g.ready = true
}

// SetSize sets the available rendering dimensions.
func (g *GanttModel) SetSize(width, height int) {
	g.width = width
	g.height = height
}

// Overlay exposes the connector layer, e.g. for SVG export of the current
// visibility state.
func (g *GanttModel) Overlay() *gantt.Overlay {
	return g.overlay
}

// HoverDescription returns the description of the hovered connector, or ""
// when nothing is hovered.
func (g *GanttModel) HoverDescription() string {
	return g.hover.desc
}

// Update handles keyboard input.
func (g *GanttModel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		g.moveCursor(1)
	case "k", "up":
		g.moveCursor(-1)
	case "g", "home":
		g.cursor = 0
		g.scrollOffset = 0
	case "G", "end":
		if n := g.rowCount(); n > 0 {
			g.cursor = n - 1
			g.ensureVisible()
		}
	case "tab":
		g.FocusNext()
	case "shift+tab":
		g.FocusPrev()
	case "esc":
		g.Blur()
	case "c":
		g.ToggleConnectors()
	}
	return nil
}

// FocusNext moves keyboard focus to the next connector element, wrapping.
func (g *GanttModel) FocusNext() {
	g.cycleFocus(1)
}

// FocusPrev moves keyboard focus to the previous connector element, wrapping.
func (g *GanttModel) FocusPrev() {
	g.cycleFocus(-1)
}

func (g *GanttModel) cycleFocus(delta int) {
	if g.overlay == nil || !g.overlay.Visible() || len(g.overlay.Elements) == 0 {
		return
	}
	n := len(g.overlay.Elements)
	g.focusIdx = ((g.focusIdx+delta)%n + n) % n
	el := g.overlay.Elements[g.focusIdx]
	el.Focus(connectorBox(el.Connector))
}

// Blur drops connector focus and clears the hover.
func (g *GanttModel) Blur() {
	if g.focusIdx >= 0 && g.overlay != nil && g.focusIdx < len(g.overlay.Elements) {
		g.overlay.Elements[g.focusIdx].Blur()
	} else {
		g.ix.Leave()
	}
	g.focusIdx = -1
}

// ToggleConnectors flips the connector layer's visibility. A hidden layer
// keeps its elements but they leave the tab order, so focus is dropped.
func (g *GanttModel) ToggleConnectors() {
	g.showConnectors = !g.showConnectors
	if g.overlay != nil {
		g.overlay.SetVisible(g.showConnectors)
	}
	if !g.showConnectors {
		g.Blur()
	}
}

// connectorBox is the bounding box of a connector's endpoints; keyboard
// focus synthesizes its hover position at this box's center.
func connectorBox(c gantt.Connector) gantt.Rect {
	left, right := c.From.X, c.To.X
	if left > right {
		left, right = right, left
	}
	top, bottom := c.From.Y, c.To.Y
	if top > bottom {
		top, bottom = bottom, top
	}
	return gantt.Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func (g *GanttModel) rowCount() int {
	if g.project == nil {
		return 0
	}
	return len(g.project.WorkItems)
}

func (g *GanttModel) moveCursor(delta int) {
	g.cursor += delta
	if g.cursor < 0 {
		g.cursor = 0
	}
	if n := g.rowCount(); g.cursor >= n {
		g.cursor = n - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

func (g *GanttModel) ensureVisible() {
	visible := g.visibleRows()
	if g.cursor < g.scrollOffset {
		g.scrollOffset = g.cursor
	}
	if g.cursor >= g.scrollOffset+visible {
		g.scrollOffset = g.cursor - visible + 1
	}
}

func (g *GanttModel) visibleRows() int {
	rows := g.height - 6 // header, milestone lane, footer, borders
	if rows < 3 {
		rows = 3
	}
	return rows
}

// colsPerDay picks a horizontal scale so the whole schedule fits the track.
func (g *GanttModel) colsPerDay() int {
	if g.sched == nil || g.sched.TotalDuration <= 0 {
		return 2
	}
	track := g.trackWidth()
	cols := track / (g.sched.TotalDuration + 1)
	if cols < 1 {
		cols = 1
	}
	if cols > 4 {
		cols = 4
	}
	return cols
}

func (g *GanttModel) trackWidth() int {
	track := g.width - labelWidth - 4
	if track < 20 {
		track = 20
	}
	return track
}

// View renders the chart.
func (g GanttModel) View() string {
	if !g.ready {
		return g.theme.MutedText.Render("No project loaded")
	}

	var b strings.Builder
	b.WriteString(g.renderHeader())
	b.WriteString("\n")
	b.WriteString(g.renderMilestoneLane())
	b.WriteString("\n")

	visible := g.visibleRows()
	start := g.scrollOffset
	end := start + visible
	if end > len(g.project.WorkItems) {
		end = len(g.project.WorkItems)
	}
	for i := start; i < end; i++ {
		b.WriteString(g.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString(g.renderFooter())
	return b.String()
}

func (g GanttModel) renderHeader() string {
	title := g.theme.PrimaryBold.Render(g.project.Name)
	connState := "on"
	if !g.showConnectors {
		connState = "off"
	}
	nConn := 0
	if g.overlay != nil {
		nConn = len(g.overlay.Elements)
	}
	stats := g.theme.MutedText.Render(fmt.Sprintf(
		"│ %d items │ %d connectors (%s) │ critical path %d days",
		len(g.project.WorkItems), nConn, connState, g.sched.TotalDuration))
	line := lipgloss.JoinHorizontal(lipgloss.Left, title, " ", stats)
	border := g.theme.MutedText.Render(strings.Repeat("─", max(g.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Left, line, border)
}

// renderMilestoneLane draws the diamond markers above row 0.
func (g GanttModel) renderMilestoneLane() string {
	cols := g.colsPerDay()
	lane := make([]rune, g.trackWidth())
	for i := range lane {
		lane[i] = ' '
	}
	labels := ""
	for _, ms := range g.project.Milestones {
		col := ms.Day * cols
		if col >= 0 && col < len(lane) {
			lane[col] = '◆'
		}
		labels += fmt.Sprintf("  ◆%d %s", ms.ID, ms.Name)
	}

	laneStr := string(lane)
	style := g.theme.MilestoneText
	if g.hover.active && !g.anyMilestoneHovered() {
		style = g.theme.DimmedText
	}
	pad := strings.Repeat(" ", labelWidth)
	return pad + style.Render(laneStr) + "\n" +
		g.theme.MutedText.Render(runewidth.Truncate(pad+labels, max(g.width, 10), "…"))
}

func (g GanttModel) anyMilestoneHovered() bool {
	for id := range g.hover.ids {
		if strings.HasPrefix(id, "milestone:") {
			return true
		}
	}
	return false
}

func (g GanttModel) renderRow(i int) string {
	it := g.project.WorkItems[i]
	selected := i == g.cursor
	dimmed := g.hover.active && !g.hover.ids[it.ID]

	statusStyle := g.theme.Renderer.NewStyle().Foreground(g.theme.GetStatusColor(it.Status))
	title := runewidth.Truncate(it.Title, labelWidth-3, "…")
	title = runewidth.FillRight(title, labelWidth-3)

	label := statusStyle.Render("●") + " " + g.theme.Base.Render(title)
	if dimmed {
		label = g.theme.DimmedText.Render("● " + title)
	}

	bar := g.renderBar(it, dimmed)

	row := label + " " + bar
	if selected {
		row = g.theme.Selected.Render(row)
	}
	return row
}

func (g GanttModel) renderBar(it model.WorkItem, dimmed bool) string {
	cols := g.colsPerDay()
	track := g.trackWidth()

	start := it.StartDay * cols
	width := it.DurationDays * cols
	if width < 1 {
		width = 1 // zero-duration items still get a visible sliver
	}
	if start >= track {
		start = track - 1
	}
	if start+width > track {
		width = track - start
	}
	if width < 1 {
		width = 1
	}

	var barStyle lipgloss.Style
	switch {
	case dimmed:
		barStyle = g.theme.DimmedText
	case g.sched.CriticalSet[it.ID]:
		barStyle = g.theme.CriticalBold
	default:
		barStyle = g.theme.Renderer.NewStyle().Foreground(g.theme.GetStatusColor(it.Status))
	}

	return strings.Repeat(" ", start) +
		barStyle.Render(strings.Repeat("█", width))
}

func (g GanttModel) renderFooter() string {
	border := g.theme.MutedText.Render(strings.Repeat("─", max(g.width, 1)))

	var line string
	if g.hover.active {
		style := g.theme.SecondaryText
		if g.focusIdx >= 0 && g.overlay != nil && g.focusIdx < len(g.overlay.Elements) {
			el := g.overlay.Elements[g.focusIdx]
			if el.Connector.IsCritical {
				style = g.theme.CriticalBold
			} else if strings.HasPrefix(el.Connector.Key, "ms-") {
				style = g.theme.MilestoneText
			}
		}
		line = style.Render(runewidth.Truncate("▸ "+g.hover.desc, max(g.width, 10), "…"))
	} else {
		line = g.theme.MutedText.Render(runewidth.Truncate(
			"tab: next connector  esc: clear  c: toggle connectors  y: copy  e: export  ?: help  q: quit",
			max(g.width, 10), "…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, border, line)
}

func contributorsByMilestone(milestones []model.Milestone) map[int][]string {
	m := make(map[int][]string, len(milestones))
	for _, ms := range milestones {
		if len(ms.Contributors) > 0 {
			m[ms.ID] = ms.Contributors
		}
	}
	return m
}

func requiredByItem(items []model.WorkItem) map[string][]int {
	m := make(map[string][]int)
	for _, it := range items {
		if len(it.RequiredMilestones) > 0 {
			m[it.ID] = it.RequiredMilestones
		}
	}
	return m
}
