package datasource

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sitework/pkg/model"
)

// SQLiteReader provides read access to a sitework project database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a project database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadProject reads the full project from the database. Optional tables
// (vendors, invoices, budget_sources) are tolerated missing; the schedule
// tables are not.
func (r *SQLiteReader) LoadProject() (*model.Project, error) {
	p := &model.Project{}

	row := r.db.QueryRow(`SELECT name, start_date FROM project LIMIT 1`)
	var start sql.NullString
	if err := row.Scan(&p.Name, &start); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading project row: %w", err)
	}
	if start.Valid {
		if ts, err := time.Parse("2006-01-02", start.String); err == nil {
			p.StartDate = ts
		}
	}

	var err error
	if p.WorkItems, err = r.loadWorkItems(); err != nil {
		return nil, err
	}
	if p.Dependencies, err = r.loadDependencies(); err != nil {
		return nil, err
	}
	if p.Milestones, err = r.loadMilestones(); err != nil {
		return nil, err
	}

	// Money-side tables are optional in older databases.
	p.Vendors, _ = r.loadVendors()
	p.Invoices, _ = r.loadInvoices()
	p.BudgetSources, _ = r.loadBudgetSources()

	return p, nil
}

func (r *SQLiteReader) loadWorkItems() ([]model.WorkItem, error) {
	rows, err := r.db.Query(`
		SELECT id, title, trade, status, duration_days, start_day, vendor_id, budget_cents, percent_done
		FROM work_items ORDER BY start_day, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying work_items: %w", err)
	}
	defer rows.Close()

	var items []model.WorkItem
	for rows.Next() {
		var w model.WorkItem
		var trade, vendor sql.NullString
		var budget sql.NullInt64
		var pct sql.NullFloat64
		if err := rows.Scan(&w.ID, &w.Title, &trade, &w.Status, &w.DurationDays, &w.StartDay, &vendor, &budget, &pct); err != nil {
			return nil, fmt.Errorf("scanning work item: %w", err)
		}
		w.Trade = trade.String
		w.VendorID = vendor.String
		w.BudgetCents = budget.Int64
		w.PercentDone = pct.Float64
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Required milestones live in a join table.
	reqRows, err := r.db.Query(`SELECT work_item_id, milestone_id FROM work_item_milestones`)
	if err == nil {
		defer reqRows.Close()
		byItem := make(map[string][]int)
		for reqRows.Next() {
			var itemID string
			var msID int
			if err := reqRows.Scan(&itemID, &msID); err != nil {
				return nil, fmt.Errorf("scanning work_item_milestones: %w", err)
			}
			byItem[itemID] = append(byItem[itemID], msID)
		}
		for i := range items {
			items[i].RequiredMilestones = byItem[items[i].ID]
		}
	}

	return items, nil
}

func (r *SQLiteReader) loadDependencies() ([]model.Dependency, error) {
	rows, err := r.db.Query(`
		SELECT predecessor_id, successor_id, type, lead_lag_days
		FROM dependencies ORDER BY predecessor_id, successor_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	var deps []model.Dependency
	for rows.Next() {
		var d model.Dependency
		if err := rows.Scan(&d.PredecessorID, &d.SuccessorID, &d.Type, &d.LeadLagDays); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

func (r *SQLiteReader) loadMilestones() ([]model.Milestone, error) {
	rows, err := r.db.Query(`SELECT id, name, day FROM milestones ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("querying milestones: %w", err)
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.Name, &m.Day); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	contribRows, err := r.db.Query(`SELECT milestone_id, work_item_id FROM milestone_contributors`)
	if err == nil {
		defer contribRows.Close()
		byMilestone := make(map[int][]string)
		for contribRows.Next() {
			var msID int
			var itemID string
			if err := contribRows.Scan(&msID, &itemID); err != nil {
				return nil, fmt.Errorf("scanning milestone_contributors: %w", err)
			}
			byMilestone[msID] = append(byMilestone[msID], itemID)
		}
		for i := range milestones {
			milestones[i].Contributors = byMilestone[milestones[i].ID]
		}
	}

	return milestones, nil
}

func (r *SQLiteReader) loadVendors() ([]model.Vendor, error) {
	rows, err := r.db.Query(`SELECT id, name, trade, contact FROM vendors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var trade, contact sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &trade, &contact); err != nil {
			return nil, err
		}
		v.Trade = trade.String
		v.Contact = contact.String
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *SQLiteReader) loadInvoices() ([]model.Invoice, error) {
	rows, err := r.db.Query(`
		SELECT id, vendor_id, work_item_id, amount_cents, issued_at, paid_at
		FROM invoices ORDER BY issued_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		var itemID sql.NullString
		var issued string
		var paid sql.NullString
		if err := rows.Scan(&inv.ID, &inv.VendorID, &itemID, &inv.AmountCents, &issued, &paid); err != nil {
			return nil, err
		}
		inv.WorkItemID = itemID.String
		if ts, err := time.Parse(time.RFC3339, issued); err == nil {
			inv.IssuedAt = ts
		}
		if paid.Valid {
			if ts, err := time.Parse(time.RFC3339, paid.String); err == nil {
				inv.PaidAt = &ts
			}
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *SQLiteReader) loadBudgetSources() ([]model.BudgetSource, error) {
	rows, err := r.db.Query(`SELECT id, name, amount_cents FROM budget_sources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.BudgetSource
	for rows.Next() {
		var b model.BudgetSource
		if err := rows.Scan(&b.ID, &b.Name, &b.AmountCents); err != nil {
			return nil, err
		}
		sources = append(sources, b)
	}
	return sources, rows.Err()
}
