package gantt

import (
	"sort"
	"strconv"

	"github.com/vanderheijden86/sitework/pkg/model"
)

// Role classifies what a connector means, which drives its endpoint
// geometry, its color, and its description.
type Role string

const (
	RoleExplicit              Role = "explicit-dependency"
	RoleImplicitCritical      Role = "implicit-critical-link"
	RoleMilestoneContribution Role = "milestone-contribution"
	RoleMilestoneRequirement  Role = "milestone-requirement"
)

// Connector is one renderable arrow between two resolved endpoints. It is
// derived data: rebuilt from scratch on every input change, with no
// lifecycle of its own beyond a render pass.
type Connector struct {
	// Key is stable across rebuilds for the same endpoints and role; the
	// render layer reconciles on it and the interaction state matches on it.
	Key string

	Role       Role
	Type       model.DependencyType // set for RoleExplicit only
	IsCritical bool

	From, To Point
	FromRef  Ref
	ToRef    Ref

	Description string
}

// ConnectedIDs returns the encoded identifiers this connector touches, for
// cross-entity highlighting. Always two entries; milestone endpoints use the
// "milestone:" prefix encoding.
func (c *Connector) ConnectedIDs() []string {
	return []string{c.FromRef.String(), c.ToRef.String()}
}

// Touches reports whether the encoded identifier is one of the connector's
// endpoints.
func (c *Connector) Touches(encodedID string) bool {
	return c.FromRef.String() == encodedID || c.ToRef.String() == encodedID
}

// Inputs bundles everything the connector build reads. All fields are
// owned by the caller and treated as read-only.
type Inputs struct {
	Dependencies []model.Dependency

	// Contributors maps milestone id → contributing work-item ids.
	Contributors map[int][]string
	// Required maps work-item id → milestone ids gating it.
	Required map[string][]int

	CriticalSet   map[string]bool
	CriticalOrder []string

	Geometry Geometry

	// Titles and MilestoneNames feed descriptions; missing entries fall
	// back to raw identifiers.
	Titles         map[string]string
	MilestoneNames map[int]string
}

// BuildConnectors derives the full connector list for one render pass.
// It is pure: same inputs, same output, and safe to re-run on every change.
//
// Ordering contract: every non-critical connector precedes every critical
// one, preserving generation order within each bucket, so critical arrows
// are drawn last and overlay the rest.
func BuildConnectors(in Inputs) []Connector {
	var normal, critical []Connector
	emit := func(c Connector) {
		if c.IsCritical {
			critical = append(critical, c)
		} else {
			normal = append(normal, c)
		}
	}

	// Explicit dependencies. A pair covered here never also gets an
	// implicit critical link: explicit wins.
	covered := make(map[pairKey]bool, len(in.Dependencies))
	for _, d := range in.Dependencies {
		pred, okP := in.Geometry.Bar(d.PredecessorID)
		succ, okS := in.Geometry.Bar(d.SuccessorID)
		if !okP || !okS {
			continue
		}
		covered[unorderedPair(d.PredecessorID, d.SuccessorID)] = true

		from, to := dependencyEndpoints(in.Geometry, d.Type, pred, succ)
		c := Connector{
			Key:        "dep:" + d.PredecessorID + "->" + d.SuccessorID,
			Role:       RoleExplicit,
			Type:       d.Type,
			IsCritical: in.CriticalSet[d.PredecessorID] && in.CriticalSet[d.SuccessorID],
			From:       from,
			To:         to,
			FromRef:    WorkItemRef(d.PredecessorID),
			ToRef:      WorkItemRef(d.SuccessorID),
		}
		c.Description = describe(&c, in)
		emit(c)
	}

	// Implicit links between consecutive critical-path items. With fewer
	// than two items there is no adjacency and nothing to draw.
	for i := 0; i+1 < len(in.CriticalOrder); i++ {
		a, b := in.CriticalOrder[i], in.CriticalOrder[i+1]
		if covered[unorderedPair(a, b)] {
			continue
		}
		barA, okA := in.Geometry.Bar(a)
		barB, okB := in.Geometry.Bar(b)
		if !okA || !okB {
			continue
		}
		c := Connector{
			Key:        "cpm:" + a + "->" + b,
			Role:       RoleImplicitCritical,
			IsCritical: true,
			From:       in.Geometry.RightEdge(barA),
			To:         in.Geometry.LeftEdge(barB),
			FromRef:    WorkItemRef(a),
			ToRef:      WorkItemRef(b),
		}
		c.Description = describe(&c, in)
		emit(c)
	}

	// Milestone contributions: work item → milestone point.
	for _, msID := range sortedMilestoneIDs(in.Contributors) {
		pt, ok := in.Geometry.MilestonePoint(msID)
		if !ok {
			continue
		}
		for _, itemID := range in.Contributors[msID] {
			bar, ok := in.Geometry.Bar(itemID)
			if !ok {
				continue
			}
			c := Connector{
				Key:     "ms-contrib:" + itemID + "->" + strconv.Itoa(msID),
				Role:    RoleMilestoneContribution,
				From:    in.Geometry.RightEdge(bar),
				To:      pt,
				FromRef: WorkItemRef(itemID),
				ToRef:   MilestoneRef(msID),
			}
			c.Description = describe(&c, in)
			emit(c)
		}
	}

	// Milestone requirements: milestone point → work item.
	for _, itemID := range sortedItemIDs(in.Required) {
		bar, ok := in.Geometry.Bar(itemID)
		if !ok {
			continue
		}
		for _, msID := range in.Required[itemID] {
			pt, ok := in.Geometry.MilestonePoint(msID)
			if !ok {
				continue
			}
			c := Connector{
				Key:     "ms-req:" + strconv.Itoa(msID) + "->" + itemID,
				Role:    RoleMilestoneRequirement,
				From:    pt,
				To:      in.Geometry.LeftEdge(bar),
				FromRef: MilestoneRef(msID),
				ToRef:   WorkItemRef(itemID),
			}
			c.Description = describe(&c, in)
			emit(c)
		}
	}

	if len(normal)+len(critical) == 0 {
		return nil
	}
	return append(normal, critical...)
}

// dependencyEndpoints selects bar edges per the constraint kind. The
// predecessor edge encodes which of its events gates the successor, the
// successor edge which of its events is gated.
func dependencyEndpoints(g Geometry, t model.DependencyType, pred, succ BarRect) (Point, Point) {
	switch t {
	case model.StartToStart:
		return g.LeftEdge(pred), g.LeftEdge(succ)
	case model.FinishToFinish:
		return g.RightEdge(pred), g.RightEdge(succ)
	case model.StartToFinish:
		return g.LeftEdge(pred), g.RightEdge(succ)
	default: // finish_to_start
		return g.RightEdge(pred), g.LeftEdge(succ)
	}
}

type pairKey struct{ a, b string }

func unorderedPair(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Map iteration order is random; connectors must come out deterministic so
// the render layer can reconcile by position as well as key.
func sortedMilestoneIDs(m map[int][]string) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedItemIDs(m map[string][]int) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
