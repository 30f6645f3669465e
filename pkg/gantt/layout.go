package gantt

import "github.com/vanderheijden86/sitework/pkg/model"

// LayoutOptions controls how scheduled work items map onto pixel space.
type LayoutOptions struct {
	PxPerDay  float64 // horizontal scale
	RowHeight float64
	RowGap    float64
	Left      float64 // chart origin
	Top       float64 // top of row 0; the milestone lane sits above it
}

// DefaultLayout returns the stock chart metrics.
func DefaultLayout() LayoutOptions {
	return LayoutOptions{
		PxPerDay:  18,
		RowHeight: 26,
		RowGap:    10,
		Left:      40,
		Top:       60,
	}
}

// BuildGeometry places each work item's bar on its own row, in slice order,
// and each milestone on the lane above row 0 at its scheduled day. Items
// and milestones land in the lookup maps the connector build resolves
// against; anything absent from the slices is simply not resolvable.
func BuildGeometry(items []model.WorkItem, milestones []model.Milestone, opts LayoutOptions) Geometry {
	g := Geometry{
		Bars:       make(map[string]BarRect, len(items)),
		Milestones: make(map[int]Point, len(milestones)),
		Top:        opts.Top,
		RowHeight:  opts.RowHeight,
		RowGap:     opts.RowGap,
	}
	for row, it := range items {
		w := float64(it.DurationDays) * opts.PxPerDay
		if w < opts.PxPerDay/2 {
			// zero-duration items still get a visible sliver
			w = opts.PxPerDay / 2
		}
		g.Bars[it.ID] = BarRect{
			X:        opts.Left + float64(it.StartDay)*opts.PxPerDay,
			Width:    w,
			RowIndex: row,
		}
	}
	for _, ms := range milestones {
		g.Milestones[ms.ID] = Point{
			X: opts.Left + float64(ms.Day)*opts.PxPerDay,
			Y: opts.Top / 2,
		}
	}
	return g
}

// CanvasSize returns the pixel extent needed to fit the laid-out chart.
func CanvasSize(items []model.WorkItem, milestones []model.Milestone, opts LayoutOptions) (int, int) {
	maxDay := 0
	for _, it := range items {
		if it.EndDay() > maxDay {
			maxDay = it.EndDay()
		}
	}
	for _, ms := range milestones {
		if ms.Day > maxDay {
			maxDay = ms.Day
		}
	}
	w := int(opts.Left*2 + float64(maxDay)*opts.PxPerDay)
	h := int(opts.Top + float64(len(items))*(opts.RowHeight+opts.RowGap) + opts.Top)
	if w < 640 {
		w = 640
	}
	if h < 240 {
		h = 240
	}
	return w, h
}
