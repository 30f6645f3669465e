// Package schedule computes a critical path method (CPM) pass over a
// project's work items and typed dependencies. The Gantt overlay engine
// consumes its output (critical set + order); it never computes it itself.
package schedule

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/sitework/pkg/model"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Result holds the outcome of a CPM pass.
type Result struct {
	// Tasks maps work-item id to its computed schedule window.
	Tasks map[string]*TaskSchedule

	// CriticalSet contains the ids with zero slack.
	CriticalSet map[string]bool

	// CriticalOrder lists the critical ids in schedule order (earliest
	// start first, id as tiebreak). Adjacency in this sequence is what the
	// overlay renders as implicit critical links.
	CriticalOrder []string

	// TopoOrder is the full topological order of the dependency DAG.
	TopoOrder []string

	// TotalDuration is the project makespan in days.
	TotalDuration int
}

// TaskSchedule is the per-item CPM window.
type TaskSchedule struct {
	ID     string
	ES, EF int // earliest start / finish
	LS, LF int // latest start / finish
	Slack  int
}

// Compute runs forward and backward CPM passes. Dependencies referencing
// unknown items are ignored; a cycle in the dependency graph is an error
// because neither pass terminates meaningfully on one.
func Compute(items []model.WorkItem, deps []model.Dependency) (*Result, error) {
	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(items))
	nodeToID := make(map[int64]string, len(items))
	itemMap := make(map[string]model.WorkItem, len(items))

	for _, it := range items {
		if _, dup := idToNode[it.ID]; dup {
			return nil, fmt.Errorf("duplicate work item id %q", it.ID)
		}
		n := g.NewNode()
		g.AddNode(n)
		idToNode[it.ID] = n.ID()
		nodeToID[n.ID()] = it.ID
		itemMap[it.ID] = it
	}

	// Edge direction predecessor → successor. Parallel duplicates collapse;
	// the per-type arithmetic below walks the dependency list, not the graph,
	// so only cycle detection and ordering rely on edges.
	for _, d := range deps {
		u, okU := idToNode[d.PredecessorID]
		v, okV := idToNode[d.SuccessorID]
		if !okU || !okV || u == v {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(u), g.Node(v)))
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		return nil, fmt.Errorf("dependency graph is not a DAG: %w", err)
	}

	res := &Result{
		Tasks:       make(map[string]*TaskSchedule, len(items)),
		CriticalSet: make(map[string]bool),
	}
	for _, n := range sorted {
		res.TopoOrder = append(res.TopoOrder, nodeToID[n.ID()])
	}

	// Group dependencies by successor and by predecessor for the two passes.
	bySucc := make(map[string][]model.Dependency)
	byPred := make(map[string][]model.Dependency)
	for _, d := range deps {
		if _, ok := itemMap[d.PredecessorID]; !ok {
			continue
		}
		if _, ok := itemMap[d.SuccessorID]; !ok {
			continue
		}
		bySucc[d.SuccessorID] = append(bySucc[d.SuccessorID], d)
		byPred[d.PredecessorID] = append(byPred[d.PredecessorID], d)
	}

	// Forward pass in topological order.
	for _, id := range res.TopoOrder {
		it := itemMap[id]
		ts := &TaskSchedule{ID: id}
		for _, d := range bySucc[id] {
			p := res.Tasks[d.PredecessorID]
			if p == nil {
				continue
			}
			var earliest int
			switch d.Type {
			case model.StartToStart:
				earliest = p.ES + d.LeadLagDays
			case model.FinishToFinish:
				earliest = p.EF + d.LeadLagDays - it.DurationDays
			case model.StartToFinish:
				earliest = p.ES + d.LeadLagDays - it.DurationDays
			default: // finish_to_start
				earliest = p.EF + d.LeadLagDays
			}
			if earliest > ts.ES {
				ts.ES = earliest
			}
		}
		ts.EF = ts.ES + it.DurationDays
		res.Tasks[id] = ts
		if ts.EF > res.TotalDuration {
			res.TotalDuration = ts.EF
		}
	}

	// Backward pass in reverse topological order.
	for i := len(res.TopoOrder) - 1; i >= 0; i-- {
		id := res.TopoOrder[i]
		it := itemMap[id]
		ts := res.Tasks[id]
		ts.LF = res.TotalDuration
		first := true
		for _, d := range byPred[id] {
			s := res.Tasks[d.SuccessorID]
			if s == nil {
				continue
			}
			var latest int
			switch d.Type {
			case model.StartToStart:
				latest = s.LS - d.LeadLagDays + it.DurationDays
			case model.FinishToFinish:
				latest = s.LF - d.LeadLagDays
			case model.StartToFinish:
				latest = s.LF - d.LeadLagDays + it.DurationDays
			default: // finish_to_start
				latest = s.LS - d.LeadLagDays
			}
			if first || latest < ts.LF {
				ts.LF = latest
				first = false
			}
		}
		ts.LS = ts.LF - it.DurationDays
		ts.Slack = ts.LS - ts.ES
		if ts.Slack == 0 {
			res.CriticalSet[id] = true
		}
	}

	for id := range res.CriticalSet {
		res.CriticalOrder = append(res.CriticalOrder, id)
	}
	sort.Slice(res.CriticalOrder, func(i, j int) bool {
		a, b := res.Tasks[res.CriticalOrder[i]], res.Tasks[res.CriticalOrder[j]]
		if a.ES != b.ES {
			return a.ES < b.ES
		}
		return a.ID < b.ID
	})

	return res, nil
}

// Apply writes the computed earliest-start days back onto the items so the
// layout can place bars. Items absent from the result are left untouched.
func (r *Result) Apply(items []model.WorkItem) []model.WorkItem {
	out := make([]model.WorkItem, len(items))
	copy(out, items)
	for i := range out {
		if ts, ok := r.Tasks[out[i].ID]; ok {
			out[i].StartDay = ts.ES
		}
	}
	return out
}
