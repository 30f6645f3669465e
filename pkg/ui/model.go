// Package ui implements the interactive terminal front end: a Gantt chart
// with a focusable dependency connector layer, live reload, and snapshot
// export.
package ui

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitework/internal/datasource"
	"github.com/vanderheijden86/sitework/pkg/config"
	"github.com/vanderheijden86/sitework/pkg/debug"
	"github.com/vanderheijden86/sitework/pkg/export"
	"github.com/vanderheijden86/sitework/pkg/gantt"
	"github.com/vanderheijden86/sitework/pkg/model"
	"github.com/vanderheijden86/sitework/pkg/schedule"
	"github.com/vanderheijden86/sitework/pkg/watcher"
)

// Messages flowing through the program.
type (
	fileChangedMsg   struct{}
	projectLoadedMsg struct {
		project  *model.Project
		sched    *schedule.Result
		warnings []error
	}
	loadFailedMsg struct{ err error }
	statusMsg     struct {
		text    string
		isError bool
	}
)

// Model is the root bubbletea model.
type Model struct {
	siteDir string
	watcher *watcher.Watcher

	gantt GanttModel
	theme Theme

	depForm *DepFormModel

	showHelp bool
	helpVP   viewport.Model

	width  int
	height int
	ready  bool

	status        string
	statusIsError bool
}

// NewModel creates the root model for a .sitework directory. The watcher
// may be nil when live reload is disabled.
func NewModel(siteDir string, w *watcher.Watcher) Model {
	theme := DefaultTheme(lipgloss.NewRenderer(os.Stdout))
	return Model{
		siteDir: siteDir,
		watcher: w,
		gantt:   NewGanttModel(theme),
		theme:   theme,
	}
}

// WithConfig applies user configuration: startup connector visibility, the
// export scale, and connector stroke colors.
func (m Model) WithConfig(cfg config.Config) Model {
	m.gantt.showConnectors = cfg.UI.ShowConnectors
	if cfg.UI.PxPerDay > 0 {
		m.gantt.layout.PxPerDay = cfg.UI.PxPerDay
	}
	m.gantt.colors = gantt.Colors{
		Default:   cfg.Colors.Default,
		Critical:  cfg.Colors.Critical,
		Milestone: cfg.Colors.Milestone,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadProjectCmd(m.siteDir)}
	if m.watcher != nil {
		cmds = append(cmds, watchCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// loadProjectCmd loads the freshest data source and computes the schedule.
func loadProjectCmd(siteDir string) tea.Cmd {
	return func() tea.Msg {
		project, warnings, err := datasource.LoadProject(siteDir)
		if err != nil {
			return loadFailedMsg{err}
		}
		sched, err := schedule.Compute(project.WorkItems, project.Dependencies)
		if err != nil {
			return loadFailedMsg{fmt.Errorf("scheduling: %w", err)}
		}
		return projectLoadedMsg{project: project, sched: sched, warnings: warnings}
	}
}

// watchCmd blocks until the watched file changes.
func watchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return fileChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gantt.SetSize(msg.Width, msg.Height-2)
		if m.showHelp {
			m.helpVP = newHelpViewport(msg.Width, msg.Height)
		}
		return m, nil

	case projectLoadedMsg:
		m.gantt.SetData(msg.project, msg.sched)
		m.ready = true
		if len(msg.warnings) > 0 {
			m.setStatus(fmt.Sprintf("loaded with %d validation warnings", len(msg.warnings)), true)
			for _, w := range msg.warnings {
				debug.Log("validation: %v", w)
			}
		} else {
			m.setStatus(fmt.Sprintf("loaded %d work items", len(msg.project.WorkItems)), false)
		}
		if m.depForm != nil {
			m.depForm = nil
		}
		return m, nil

	case loadFailedMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil

	case fileChangedMsg:
		debug.Log("ui: data source changed, reloading")
		return m, tea.Batch(loadProjectCmd(m.siteDir), watchCmd(m.watcher))

	case statusMsg:
		m.setStatus(msg.text, msg.isError)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.depForm != nil {
		cmd := m.depForm.Update(msg)
		return m.afterFormUpdate(cmd)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal form captures everything except ctrl+c.
	if m.depForm != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "esc" {
			m.depForm = nil
			return m, nil
		}
		cmd := m.depForm.Update(msg)
		return m.afterFormUpdate(cmd)
	}

	if m.showHelp {
		switch msg.String() {
		case "q", "esc", "?":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		m.helpVP = newHelpViewport(m.width, m.height)
		return m, nil

	case "y":
		desc := m.gantt.HoverDescription()
		if desc == "" {
			m.setStatus("nothing hovered to copy", true)
			return m, nil
		}
		if err := clipboard.WriteAll(desc); err != nil {
			m.setStatus(fmt.Sprintf("clipboard: %v", err), true)
		} else {
			m.setStatus("copied connector description", false)
		}
		return m, nil

	case "e":
		return m, m.exportSnapshotCmd()

	case "a":
		if m.gantt.project != nil && len(m.gantt.project.WorkItems) >= 2 {
			form := NewDepFormModel(m.gantt.project.WorkItems, m.theme)
			m.depForm = &form
			return m, m.depForm.Init()
		}
		m.setStatus("need at least two work items to add a dependency", true)
		return m, nil

	case "r":
		return m, loadProjectCmd(m.siteDir)
	}

	cmd := m.gantt.Update(msg)
	return m, cmd
}

func (m Model) afterFormUpdate(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.depForm == nil {
		return m, cmd
	}
	if m.depForm.Done() {
		dep, ok := m.depForm.Result()
		m.depForm = nil
		if !ok {
			m.setStatus("dependency form cancelled", false)
			return m, nil
		}
		return m.applyNewDependency(dep)
	}
	return m, cmd
}

// applyNewDependency appends the dependency in memory and recomputes the
// schedule. The edit is not written back; the data source stays the source
// of truth.
func (m Model) applyNewDependency(dep model.Dependency) (tea.Model, tea.Cmd) {
	project := m.gantt.project
	project.Dependencies = append(project.Dependencies, dep)

	sched, err := schedule.Compute(project.WorkItems, project.Dependencies)
	if err != nil {
		// Roll back; the added edge made the graph cyclic.
		project.Dependencies = project.Dependencies[:len(project.Dependencies)-1]
		m.setStatus(fmt.Sprintf("rejected: %v", err), true)
		return m, nil
	}
	m.gantt.SetData(project, sched)
	m.setStatus(fmt.Sprintf("added %s → %s (unsaved)", dep.PredecessorID, dep.SuccessorID), false)
	return m, nil
}

func (m Model) exportSnapshotCmd() tea.Cmd {
	project := m.gantt.project
	sched := m.gantt.sched
	return func() tea.Msg {
		if project == nil || sched == nil {
			return statusMsg{text: "no project to export", isError: true}
		}
		path := "sitework-snapshot.svg"
		err := export.SaveGanttSnapshot(export.GanttSnapshotOptions{
			Path:     path,
			Project:  project,
			Schedule: sched,
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("export: %v", err), isError: true}
		}
		return statusMsg{text: "exported " + path, isError: false}
	}
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusIsError = isError
}

func (m Model) View() string {
	if m.depForm != nil {
		return m.depForm.View()
	}
	if m.showHelp {
		return m.helpVP.View()
	}

	statusStyle := m.theme.MutedText
	if m.statusIsError {
		statusStyle = m.theme.CriticalBold
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.gantt.View(),
		statusStyle.Render(m.status),
	)
}
