// Package gantt implements the dependency-connector overlay engine for the
// schedule chart: connector construction from explicit dependencies, implicit
// critical-path links and milestone linkage, human-readable connector
// descriptions, the hover/focus interaction state machine, and the accessible
// render layer that ties them together.
package gantt

import "strconv"

// Point is a pixel coordinate on the chart surface.
type Point struct {
	X, Y float64
}

// Rect is a bounding box in pixel space, as reported by a focused element.
type Rect struct {
	Left, Top, Width, Height float64
}

// Center returns the midpoint of the rect. The keyboard path synthesizes
// hover positions from it since there is no pointer to read.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// BarRect is a work item's horizontal span and row on the Gantt grid.
// Produced by the surrounding chart layout; the overlay only reads it.
type BarRect struct {
	X        float64
	Width    float64
	RowIndex int
}

// Geometry resolves work-item ids to bar rects and milestone ids to points.
// Missing entries are how the chart signals "not drawable": any connector
// with an unresolvable endpoint is dropped, never partially rendered.
type Geometry struct {
	Bars       map[string]BarRect
	Milestones map[int]Point

	// Vertical metrics used to derive a bar's row center.
	Top       float64
	RowHeight float64
	RowGap    float64
}

// Bar looks up a work item's rect.
func (g Geometry) Bar(id string) (BarRect, bool) {
	r, ok := g.Bars[id]
	return r, ok
}

// MilestonePoint looks up a milestone's anchor point.
func (g Geometry) MilestonePoint(id int) (Point, bool) {
	p, ok := g.Milestones[id]
	return p, ok
}

// RowCenterY returns the vertical center of the given row.
func (g Geometry) RowCenterY(row int) float64 {
	return g.Top + float64(row)*(g.RowHeight+g.RowGap) + g.RowHeight/2
}

// LeftEdge returns the bar's left-edge anchor at the row center.
func (g Geometry) LeftEdge(r BarRect) Point {
	return Point{X: r.X, Y: g.RowCenterY(r.RowIndex)}
}

// RightEdge returns the bar's right-edge anchor at the row center.
func (g Geometry) RightEdge(r BarRect) Point {
	return Point{X: r.X + r.Width, Y: g.RowCenterY(r.RowIndex)}
}

// RefKind discriminates the two endpoint identifier spaces.
type RefKind int

const (
	RefWorkItem RefKind = iota
	RefMilestone
)

// Ref identifies one connector endpoint: either a work item (opaque string
// id) or a milestone (integer id). Work-item and milestone ids live in
// separate spaces; Ref keeps them apart in the type system, and String
// produces the shared encoding other components key their highlighting on.
type Ref struct {
	Kind      RefKind
	WorkItem  string
	Milestone int
}

// WorkItemRef builds a work-item endpoint reference.
func WorkItemRef(id string) Ref {
	return Ref{Kind: RefWorkItem, WorkItem: id}
}

// MilestoneRef builds a milestone endpoint reference.
func MilestoneRef(id int) Ref {
	return Ref{Kind: RefMilestone, Milestone: id}
}

// String returns the external encoding: the raw work-item id, or
// "milestone:<id>" for milestones so the two id spaces never collide in
// the identifier set shared with bar-highlighting consumers.
func (r Ref) String() string {
	if r.Kind == RefMilestone {
		return "milestone:" + strconv.Itoa(r.Milestone)
	}
	return r.WorkItem
}

// Colors is the three-color configuration for connector rendering.
type Colors struct {
	Default   string `yaml:"default"`
	Critical  string `yaml:"critical"`
	Milestone string `yaml:"milestone"`
}

// DefaultColors returns the stock palette.
func DefaultColors() Colors {
	return Colors{
		Default:   "#6b80bf",
		Critical:  "#e05252",
		Milestone: "#8a63c9",
	}
}
