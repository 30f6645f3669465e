package gantt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vanderheijden86/sitework/pkg/model"

	"pgregory.net/rapid"
)

func testGeometry(ids ...string) Geometry {
	g := Geometry{
		Bars:       make(map[string]BarRect, len(ids)),
		Milestones: make(map[int]Point),
		Top:        60,
		RowHeight:  20,
		RowGap:     10,
	}
	for row, id := range ids {
		g.Bars[id] = BarRect{X: float64(100 * (row + 1)), Width: 80, RowIndex: row}
	}
	return g
}

func TestBuildConnectors_EdgeSelectionPerType(t *testing.T) {
	geom := testGeometry("a", "b")
	barA, barB := geom.Bars["a"], geom.Bars["b"]

	cases := []struct {
		depType  model.DependencyType
		wantFrom Point
		wantTo   Point
	}{
		{model.FinishToStart, geom.RightEdge(barA), geom.LeftEdge(barB)},
		{model.StartToStart, geom.LeftEdge(barA), geom.LeftEdge(barB)},
		{model.FinishToFinish, geom.RightEdge(barA), geom.RightEdge(barB)},
		{model.StartToFinish, geom.LeftEdge(barA), geom.RightEdge(barB)},
	}
	for _, tc := range cases {
		t.Run(string(tc.depType), func(t *testing.T) {
			conns := BuildConnectors(Inputs{
				Dependencies: []model.Dependency{{PredecessorID: "a", SuccessorID: "b", Type: tc.depType}},
				Geometry:     geom,
			})
			if len(conns) != 1 {
				t.Fatalf("expected 1 connector, got %d", len(conns))
			}
			c := conns[0]
			if c.From != tc.wantFrom || c.To != tc.wantTo {
				t.Errorf("endpoints = %v→%v, want %v→%v", c.From, c.To, tc.wantFrom, tc.wantTo)
			}
			if c.Role != RoleExplicit {
				t.Errorf("role = %q, want %q", c.Role, RoleExplicit)
			}
		})
	}
}

func TestBuildConnectors_RowCentersDiffer(t *testing.T) {
	geom := testGeometry("a", "b")
	conns := BuildConnectors(Inputs{
		Dependencies: []model.Dependency{{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart}},
		Geometry:     geom,
	})
	if len(conns) != 1 {
		t.Fatalf("expected 1 connector, got %d", len(conns))
	}
	if got, want := conns[0].From.Y, geom.RowCenterY(0); got != want {
		t.Errorf("from.Y = %v, want row 0 center %v", got, want)
	}
	if got, want := conns[0].To.Y, geom.RowCenterY(1); got != want {
		t.Errorf("to.Y = %v, want row 1 center %v", got, want)
	}
}

func TestBuildConnectors_MissingGeometrySkipsOnlyThatDependency(t *testing.T) {
	geom := testGeometry("a", "b", "c")
	delete(geom.Bars, "b")

	conns := BuildConnectors(Inputs{
		Dependencies: []model.Dependency{
			{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart}, // b unresolvable
			{PredecessorID: "a", SuccessorID: "c", Type: model.FinishToStart},
		},
		Geometry: geom,
	})
	if len(conns) != 1 {
		t.Fatalf("expected the unrelated dependency to survive, got %d connectors", len(conns))
	}
	if conns[0].ToRef.WorkItem != "c" {
		t.Errorf("surviving connector targets %q, want %q", conns[0].ToRef.WorkItem, "c")
	}
}

func TestBuildConnectors_ImplicitCriticalLinks(t *testing.T) {
	geom := testGeometry("a", "b")
	in := Inputs{
		CriticalSet:   map[string]bool{"a": true, "b": true},
		CriticalOrder: []string{"a", "b"},
		Geometry:      geom,
		Titles:        map[string]string{"a": "Excavation", "b": "Foundation"},
	}

	conns := BuildConnectors(in)
	if len(conns) != 1 {
		t.Fatalf("expected exactly one implicit connector, got %d", len(conns))
	}
	c := conns[0]
	if c.Role != RoleImplicitCritical || !c.IsCritical {
		t.Errorf("got role=%q critical=%v, want implicit critical", c.Role, c.IsCritical)
	}
	want := "Excavation and Foundation are consecutive on the critical path"
	if c.Description != want {
		t.Errorf("description = %q, want %q", c.Description, want)
	}

	// An explicit dependency between the pair suppresses the implicit link,
	// in either direction.
	in.Dependencies = []model.Dependency{{PredecessorID: "b", SuccessorID: "a", Type: model.StartToStart}}
	conns = BuildConnectors(in)
	for _, c := range conns {
		if c.Role == RoleImplicitCritical {
			t.Errorf("implicit connector emitted despite explicit dependency: %v", c.Key)
		}
	}
}

func TestBuildConnectors_SingleCriticalItemNoImplicit(t *testing.T) {
	geom := testGeometry("a")
	conns := BuildConnectors(Inputs{
		CriticalSet:   map[string]bool{"a": true},
		CriticalOrder: []string{"a"},
		Geometry:      geom,
	})
	if conns != nil {
		t.Fatalf("expected no connectors for single-item critical path, got %d", len(conns))
	}
}

func TestBuildConnectors_ExplicitCriticality(t *testing.T) {
	geom := testGeometry("a", "b", "c")
	conns := BuildConnectors(Inputs{
		Dependencies: []model.Dependency{
			{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart},
			{PredecessorID: "b", SuccessorID: "c", Type: model.FinishToStart},
		},
		CriticalSet: map[string]bool{"a": true, "b": true},
		Geometry:    geom,
	})
	byKey := make(map[string]Connector)
	for _, c := range conns {
		byKey[c.Key] = c
	}
	if !byKey["dep:a->b"].IsCritical {
		t.Errorf("a→b should be critical: both endpoints in critical set")
	}
	if byKey["dep:b->c"].IsCritical {
		t.Errorf("b→c should not be critical: c outside critical set")
	}
}

func TestBuildConnectors_MilestoneLinks(t *testing.T) {
	geom := testGeometry("a", "b")
	geom.Milestones[7] = Point{X: 400, Y: 30}

	conns := BuildConnectors(Inputs{
		Contributors:   map[int][]string{7: {"a", "missing"}},
		Required:       map[string][]int{"b": {7}, "missing": {7}},
		Geometry:       geom,
		Titles:         map[string]string{"a": "Framing", "b": "Roofing"},
		MilestoneNames: map[int]string{7: "Dry-in"},
	})
	if len(conns) != 2 {
		t.Fatalf("expected 2 milestone connectors (unresolvable ones dropped), got %d", len(conns))
	}

	var contrib, req *Connector
	for i := range conns {
		switch conns[i].Role {
		case RoleMilestoneContribution:
			contrib = &conns[i]
		case RoleMilestoneRequirement:
			req = &conns[i]
		}
	}
	if contrib == nil || req == nil {
		t.Fatalf("expected one contribution and one requirement connector")
	}

	if contrib.IsCritical || req.IsCritical {
		t.Errorf("milestone connectors must never be critical")
	}
	wantIDs := []string{"a", "milestone:7"}
	if got := contrib.ConnectedIDs(); got[0] != wantIDs[0] || got[1] != wantIDs[1] {
		t.Errorf("contribution connectedIDs = %v, want %v", got, wantIDs)
	}
	if want := "Framing contributes to milestone Dry-in"; contrib.Description != want {
		t.Errorf("contribution description = %q, want %q", contrib.Description, want)
	}
	if want := "Dry-in is a required milestone for Roofing"; req.Description != want {
		t.Errorf("requirement description = %q, want %q", req.Description, want)
	}
	if req.From != geom.Milestones[7] {
		t.Errorf("requirement should originate at the milestone point")
	}
}

func TestBuildConnectors_EmptyInputsYieldNil(t *testing.T) {
	if conns := BuildConnectors(Inputs{Geometry: testGeometry()}); conns != nil {
		t.Fatalf("expected nil connector list, got %d entries", len(conns))
	}
}

func TestBuildConnectors_CriticalOrderedLast(t *testing.T) {
	geom := testGeometry("a", "b", "c", "d")
	conns := BuildConnectors(Inputs{
		Dependencies: []model.Dependency{
			// critical first in input order; must still come out last
			{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart},
			{PredecessorID: "c", SuccessorID: "d", Type: model.FinishToStart},
		},
		CriticalSet: map[string]bool{"a": true, "b": true},
		Geometry:    geom,
	})
	if len(conns) != 2 {
		t.Fatalf("expected 2 connectors, got %d", len(conns))
	}
	if conns[0].IsCritical || !conns[1].IsCritical {
		t.Errorf("want non-critical before critical, got [%v %v]",
			conns[0].IsCritical, conns[1].IsCritical)
	}
}

// TestBuildConnectors_OrderingProperty checks the bucket ordering invariant
// over arbitrary dependency sets and critical paths.
func TestBuildConnectors_OrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(t, "items")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("w%d", i)
		}
		geom := testGeometry(ids...)

		depCount := rapid.IntRange(0, 12).Draw(t, "deps")
		deps := make([]model.Dependency, 0, depCount)
		types := []model.DependencyType{
			model.FinishToStart, model.StartToStart,
			model.FinishToFinish, model.StartToFinish,
		}
		for i := 0; i < depCount; i++ {
			pred := rapid.SampledFrom(ids).Draw(t, "pred")
			succ := rapid.SampledFrom(ids).Draw(t, "succ")
			if pred == succ {
				continue
			}
			deps = append(deps, model.Dependency{
				PredecessorID: pred,
				SuccessorID:   succ,
				Type:          rapid.SampledFrom(types).Draw(t, "type"),
			})
		}

		critical := rapid.SliceOfNDistinct(rapid.SampledFrom(ids), 0, n, rapid.ID[string]).Draw(t, "critical")
		critSet := make(map[string]bool, len(critical))
		for _, id := range critical {
			critSet[id] = true
		}

		conns := BuildConnectors(Inputs{
			Dependencies:  deps,
			CriticalSet:   critSet,
			CriticalOrder: critical,
			Geometry:      geom,
		})

		// Non-critical strictly before critical.
		seenCritical := false
		for _, c := range conns {
			if c.IsCritical {
				seenCritical = true
			} else if seenCritical {
				t.Fatalf("non-critical connector %s after a critical one", c.Key)
			}
		}

		// Explicit precedence: no pair has both explicit and implicit.
		pairRole := make(map[string]Role)
		for _, c := range conns {
			if c.Role != RoleExplicit && c.Role != RoleImplicitCritical {
				continue
			}
			a, b := c.FromRef.WorkItem, c.ToRef.WorkItem
			if b < a {
				a, b = b, a
			}
			key := a + "|" + b
			if prev, ok := pairRole[key]; ok && prev != c.Role {
				t.Fatalf("pair %s has both %s and %s connectors", key, prev, c.Role)
			}
			pairRole[key] = c.Role
		}
	})
}

func TestConnectorKeysStableAndUnique(t *testing.T) {
	geom := testGeometry("a", "b", "c")
	geom.Milestones[1] = Point{X: 300, Y: 30}
	in := Inputs{
		Dependencies: []model.Dependency{
			{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart},
		},
		Contributors:  map[int][]string{1: {"b"}},
		Required:      map[string][]int{"c": {1}},
		CriticalSet:   map[string]bool{"b": true, "c": true},
		CriticalOrder: []string{"b", "c"},
		Geometry:      geom,
	}

	first := BuildConnectors(in)
	second := BuildConnectors(in)
	if len(first) != len(second) {
		t.Fatalf("rebuild changed connector count: %d vs %d", len(first), len(second))
	}
	seen := make(map[string]bool, len(first))
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Errorf("key not stable across rebuilds: %q vs %q", first[i].Key, second[i].Key)
		}
		if seen[first[i].Key] {
			t.Errorf("duplicate key %q", first[i].Key)
		}
		seen[first[i].Key] = true
		if !strings.Contains(first[i].Key, ":") {
			t.Errorf("key %q missing role prefix", first[i].Key)
		}
	}
}
