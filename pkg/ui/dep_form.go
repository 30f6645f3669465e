package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/sitework/pkg/model"
)

// DepFormModel is the modal form for adding a dependency between two
// existing work items.
type DepFormModel struct {
	form  *huh.Form
	theme Theme

	predecessor string
	successor   string
	depType     string
}

// NewDepFormModel builds the form over the project's work items.
func NewDepFormModel(items []model.WorkItem, theme Theme) DepFormModel {
	opts := make([]huh.Option[string], 0, len(items))
	for _, it := range items {
		opts = append(opts, huh.NewOption(it.Title+" ("+it.ID+")", it.ID))
	}

	m := DepFormModel{theme: theme, depType: string(model.FinishToStart)}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Predecessor").
				Options(opts...).
				Value(&m.predecessor),
			huh.NewSelect[string]().
				Title("Successor").
				Options(opts...).
				Value(&m.successor),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Finish to start", string(model.FinishToStart)),
					huh.NewOption("Start to start", string(model.StartToStart)),
					huh.NewOption("Finish to finish", string(model.FinishToFinish)),
					huh.NewOption("Start to finish", string(model.StartToFinish)),
				).
				Value(&m.depType),
		),
	)
	return m
}

func (m *DepFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *DepFormModel) Update(msg tea.Msg) tea.Cmd {
	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}
	return cmd
}

// Done reports whether the form has left its interactive state.
func (m *DepFormModel) Done() bool {
	return m.form.State != huh.StateNormal
}

// Result returns the completed dependency once the form is done. Identical
// endpoints are treated as a cancel; a self-edge is never valid.
func (m *DepFormModel) Result() (model.Dependency, bool) {
	if m.form.State != huh.StateCompleted {
		return model.Dependency{}, false
	}
	if m.predecessor == m.successor {
		return model.Dependency{}, false
	}
	return model.Dependency{
		PredecessorID: m.predecessor,
		SuccessorID:   m.successor,
		Type:          model.DependencyType(m.depType),
	}, true
}

func (m *DepFormModel) View() string {
	header := m.theme.Header.Render("Add dependency")
	return header + "\n\n" + m.form.View()
}
