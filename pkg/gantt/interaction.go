package gantt

// VisualClass is the derived per-connector styling state.
type VisualClass string

const (
	ClassNeutral VisualClass = "neutral"
	ClassHovered VisualClass = "hovered"
	ClassDimmed  VisualClass = "dimmed"
)

// Callbacks are the outward notifications of the interaction machine.
// Any of them may be nil; a nil callback makes the transition a no-op on
// that channel rather than an error.
type Callbacks struct {
	// Hover fires on enter with the connector's identifier set, its
	// description, and the hover position (pointer coordinates, or the
	// focused element's box center on the keyboard path).
	Hover func(connectedIDs []string, description string, pos Point)

	// Move fires on pointer movement while a connector is hovered.
	Move func(pos Point)

	// Leave fires when the hover ends.
	Leave func()
}

// Interactions is the hover/focus state machine. It owns exactly one piece
// of state, the hovered connector key, scoped to one chart instance.
// Pointer events and keyboard focus both funnel into Enter/Leave so there
// is a single source of truth for "what is hovered"; a new Enter simply
// supersedes the previous hover.
//
// The machine is synchronous and single-threaded (UI thread); Move is O(1)
// and never re-derives the connector list.
type Interactions struct {
	hoveredKey string
	cb         Callbacks
}

// NewInteractions creates an interaction machine with the given callbacks.
func NewInteractions(cb Callbacks) *Interactions {
	return &Interactions{cb: cb}
}

// Enter records the connector as hovered and reports it outward. This is
// the pointer path; pos is the raw pointer coordinate.
func (ix *Interactions) Enter(c *Connector, pos Point) {
	if c == nil {
		return
	}
	ix.hoveredKey = c.Key
	if ix.cb.Hover != nil {
		ix.cb.Hover(c.ConnectedIDs(), c.Description, pos)
	}
}

// EnterFocused is the keyboard path: the hover position is synthesized at
// the center of the focused element's bounding box.
func (ix *Interactions) EnterFocused(c *Connector, box Rect) {
	ix.Enter(c, box.Center())
}

// Move forwards pointer coordinates while hovering. It never changes state.
func (ix *Interactions) Move(pos Point) {
	if ix.cb.Move != nil {
		ix.cb.Move(pos)
	}
}

// Leave clears the hover. Blur and mouse-leave both land here.
func (ix *Interactions) Leave() {
	ix.hoveredKey = ""
	if ix.cb.Leave != nil {
		ix.cb.Leave()
	}
}

// HoveredKey returns the hovered connector key, or "" when idle.
func (ix *Interactions) HoveredKey() string {
	return ix.hoveredKey
}

// ClassFor derives the visual class of a connector under the current state:
// the hovered connector is "hovered", everything else is "dimmed" while a
// hover is active, and "neutral" when idle.
func (ix *Interactions) ClassFor(c *Connector) VisualClass {
	switch {
	case ix.hoveredKey == "":
		return ClassNeutral
	case c != nil && ix.hoveredKey == c.Key:
		return ClassHovered
	default:
		return ClassDimmed
	}
}
