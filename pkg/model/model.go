// Package model defines the core data types for sitework: work items,
// dependencies, milestones, and the money-side records (vendors, invoices,
// budget sources) that the rest of the application reads.
package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// IsTerminal reports whether the status is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// DependencyType is the constraint kind of an explicit dependency.
type DependencyType string

const (
	FinishToStart  DependencyType = "finish_to_start"
	StartToStart   DependencyType = "start_to_start"
	FinishToFinish DependencyType = "finish_to_finish"
	StartToFinish  DependencyType = "start_to_finish"
)

// Valid reports whether t is one of the four recognized constraint kinds.
func (t DependencyType) Valid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Dependency is a typed predecessor→successor constraint between work items.
type Dependency struct {
	PredecessorID string         `json:"predecessor_id"`
	SuccessorID   string         `json:"successor_id"`
	Type          DependencyType `json:"type"`
	LeadLagDays   int            `json:"lead_lag_days,omitempty"`
}

// WorkItem is a schedulable unit of construction work.
type WorkItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Trade        string  `json:"trade,omitempty"` // e.g. "electrical", "framing"
	Status       Status  `json:"status"`
	DurationDays int     `json:"duration_days"`
	StartDay     int     `json:"start_day,omitempty"` // project-relative day, set by scheduling
	VendorID     string  `json:"vendor_id,omitempty"`
	BudgetCents  int64   `json:"budget_cents,omitempty"`
	PercentDone  float64 `json:"percent_done,omitempty"`

	// RequiredMilestones lists milestone IDs this item is gated by.
	RequiredMilestones []int `json:"required_milestones,omitempty"`
}

// EndDay returns the exclusive end day of the item's scheduled span.
func (w WorkItem) EndDay() int {
	return w.StartDay + w.DurationDays
}

// Milestone is a named point-in-time target fed by contributing work items.
type Milestone struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Day          int      `json:"day"`
	Contributors []string `json:"contributors,omitempty"` // work-item IDs
}

// Vendor is a contracting company working on the project.
type Vendor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Trade   string `json:"trade,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Invoice is a billed amount against a work item, payable to a vendor.
type Invoice struct {
	ID          string     `json:"id"`
	VendorID    string     `json:"vendor_id"`
	WorkItemID  string     `json:"work_item_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
	IssuedAt    time.Time  `json:"issued_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// BudgetSource is a funding line for the project.
type BudgetSource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// Project is the top-level document loaded from disk or SQLite.
type Project struct {
	Name          string         `json:"name"`
	StartDate     time.Time      `json:"start_date,omitempty"`
	WorkItems     []WorkItem     `json:"work_items"`
	Dependencies  []Dependency   `json:"dependencies,omitempty"`
	Milestones    []Milestone    `json:"milestones,omitempty"`
	Vendors       []Vendor       `json:"vendors,omitempty"`
	Invoices      []Invoice      `json:"invoices,omitempty"`
	BudgetSources []BudgetSource `json:"budget_sources,omitempty"`
}

// ItemMap builds an id → *WorkItem lookup over the project's work items.
func (p *Project) ItemMap() map[string]*WorkItem {
	m := make(map[string]*WorkItem, len(p.WorkItems))
	for i := range p.WorkItems {
		m[p.WorkItems[i].ID] = &p.WorkItems[i]
	}
	return m
}

// TitleMap builds an id → title lookup over the project's work items.
func (p *Project) TitleMap() map[string]string {
	m := make(map[string]string, len(p.WorkItems))
	for _, w := range p.WorkItems {
		m[w.ID] = w.Title
	}
	return m
}

// MilestoneNames builds a milestone id → name lookup.
func (p *Project) MilestoneNames() map[int]string {
	m := make(map[int]string, len(p.Milestones))
	for _, ms := range p.Milestones {
		m[ms.ID] = ms.Name
	}
	return m
}

// Validate performs structural checks and returns one error per defect found.
// A project with warnings still loads; callers decide how loud to be.
func (p *Project) Validate() []error {
	var errs []error
	seen := make(map[string]bool, len(p.WorkItems))
	for _, w := range p.WorkItems {
		if w.ID == "" {
			errs = append(errs, fmt.Errorf("work item with empty id (title %q)", w.Title))
			continue
		}
		if seen[w.ID] {
			errs = append(errs, fmt.Errorf("duplicate work item id %q", w.ID))
		}
		seen[w.ID] = true
		if w.DurationDays < 0 {
			errs = append(errs, fmt.Errorf("work item %s: negative duration %d", w.ID, w.DurationDays))
		}
	}
	for _, d := range p.Dependencies {
		if !d.Type.Valid() {
			errs = append(errs, fmt.Errorf("dependency %s→%s: unknown type %q", d.PredecessorID, d.SuccessorID, d.Type))
		}
		if !seen[d.PredecessorID] {
			errs = append(errs, fmt.Errorf("dependency references unknown predecessor %q", d.PredecessorID))
		}
		if !seen[d.SuccessorID] {
			errs = append(errs, fmt.Errorf("dependency references unknown successor %q", d.SuccessorID))
		}
		if d.PredecessorID == d.SuccessorID {
			errs = append(errs, fmt.Errorf("dependency %s→%s is self-referential", d.PredecessorID, d.SuccessorID))
		}
	}
	msSeen := make(map[int]bool, len(p.Milestones))
	for _, ms := range p.Milestones {
		if msSeen[ms.ID] {
			errs = append(errs, fmt.Errorf("duplicate milestone id %d", ms.ID))
		}
		msSeen[ms.ID] = true
	}
	return errs
}
