package gantt

// ElementRole is the accessibility role exposed for connector graphics.
const ElementRole = "graphics-symbol"

// GlowFilterID names the SVG filter critical connectors reference. Only
// critical connectors carry it; non-critical ones never glow.
const GlowFilterID = "connector-glow"

// Element is one focusable, labeled connector graphic. It delegates all
// event handling to the overlay's interaction machine so pointer and
// keyboard input share one hover state.
type Element struct {
	Connector Connector

	// AriaLabel is announced by assistive tech; it is the connector's
	// precomputed description.
	AriaLabel string

	// TabIndex is 0 when the overlay is visible, -1 when hidden. Hidden
	// elements stay in the tree but leave the tab order.
	TabIndex int

	// FilterID is GlowFilterID for critical connectors, "" otherwise.
	FilterID string

	overlay *Overlay
}

// Class returns the element's current visual class.
func (e *Element) Class() VisualClass {
	return e.overlay.ix.ClassFor(&e.Connector)
}

// MouseEnter handles pointer entry at the given coordinate.
func (e *Element) MouseEnter(pos Point) {
	e.overlay.ix.Enter(&e.Connector, pos)
}

// MouseMove forwards pointer tracking while hovered.
func (e *Element) MouseMove(pos Point) {
	e.overlay.ix.Move(pos)
}

// MouseLeave ends the hover.
func (e *Element) MouseLeave() {
	e.overlay.ix.Leave()
}

// Focus handles keyboard focus; the hover position is the box center.
func (e *Element) Focus(box Rect) {
	e.overlay.ix.EnterFocused(&e.Connector, box)
}

// Blur ends a keyboard-initiated hover.
func (e *Element) Blur() {
	e.overlay.ix.Leave()
}

// Overlay is the connector layer of the chart: the ordered elements plus
// the shared interaction machine and visibility state.
type Overlay struct {
	Elements []*Element
	Colors   Colors

	visible bool
	ix      *Interactions
}

// BuildOverlay assembles the render layer for a connector list. A nil or
// empty list yields a nil overlay — the documented "no data" signal; the
// chart renders no container at all rather than an empty one.
func BuildOverlay(connectors []Connector, visible bool, ix *Interactions, colors Colors) *Overlay {
	if len(connectors) == 0 {
		return nil
	}
	if ix == nil {
		ix = NewInteractions(Callbacks{})
	}
	o := &Overlay{Colors: colors, visible: visible, ix: ix}
	for _, c := range connectors {
		e := &Element{
			Connector: c,
			AriaLabel: c.Description,
			TabIndex:  tabIndexFor(visible),
			overlay:   o,
		}
		if c.IsCritical {
			e.FilterID = GlowFilterID
		}
		o.Elements = append(o.Elements, e)
	}
	return o
}

// Interactions exposes the overlay's state machine, e.g. for wiring
// external tooltip or bar-dimming consumers after construction.
func (o *Overlay) Interactions() *Interactions {
	return o.ix
}

// Visible reports the overlay's visibility state.
func (o *Overlay) Visible() bool {
	return o.visible
}

// AriaHidden reports whether the layer is marked hidden to assistive tech.
// True exactly when not visible; a visible layer carries no aria-hidden
// attribute at all.
func (o *Overlay) AriaHidden() bool {
	return !o.visible
}

// SetVisible flips visibility, updating every element's tab stop. Elements
// are never removed from the tree, only excluded from sequential focus.
func (o *Overlay) SetVisible(v bool) {
	o.visible = v
	for _, e := range o.Elements {
		e.TabIndex = tabIndexFor(v)
	}
}

// ColorFor picks the configured stroke color for a connector.
func (o *Overlay) ColorFor(c *Connector) string {
	switch {
	case c.Role == RoleMilestoneContribution || c.Role == RoleMilestoneRequirement:
		return o.Colors.Milestone
	case c.IsCritical:
		return o.Colors.Critical
	default:
		return o.Colors.Default
	}
}

func tabIndexFor(visible bool) int {
	if visible {
		return 0
	}
	return -1
}
