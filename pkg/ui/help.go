package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# sitework

Interactive Gantt viewer for construction schedules.

## Navigation

| Key | Action |
|-----|--------|
| j / k | move row cursor |
| g / G | first / last row |
| tab / shift+tab | focus next / previous connector |
| esc | clear connector focus |

## Connectors

| Key | Action |
|-----|--------|
| c | toggle the connector layer |
| y | copy the hovered connector's description |

Focusing a connector dims every bar it does not touch and shows its
description in the footer. Critical-path arrows render in red and are
drawn last, on top of the rest.

## Project

| Key | Action |
|-----|--------|
| a | add a dependency (in memory) |
| e | export an SVG snapshot |
| r | reload from disk |
| ? | toggle this help |
| q | quit |
`

// renderHelp renders the help markdown at the given terminal width.
func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// newHelpViewport builds a scrollable viewport holding the rendered help
// text, sized to the current terminal.
func newHelpViewport(width, height int) viewport.Model {
	if width <= 0 {
		width = 80
	}
	vp := viewport.New(width, max(height-1, 5))
	vp.SetContent(renderHelp(width))
	return vp
}
