// Package loader locates and reads sitework project files from disk.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sitework/pkg/debug"
	"github.com/vanderheijden86/sitework/pkg/model"
)

// SiteDirEnvVar overrides the directory searched for project files.
const SiteDirEnvVar = "SITEWORK_DIR"

// PreferredNames defines the priority order for project file lookup.
var PreferredNames = []string{"project.json", "sitework.json"}

// GetSiteDir returns the project data directory: $SITEWORK_DIR if set,
// otherwise .sitework under the given root (cwd if empty).
func GetSiteDir(root string) (string, error) {
	if envDir := os.Getenv(SiteDirEnvVar); envDir != "" {
		return envDir, nil
	}
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return filepath.Join(root, ".sitework"), nil
}

// FindProjectPath locates the project file in the given directory.
func FindProjectPath(dir string) (string, error) {
	for _, name := range PreferredNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no project file found in %s (want one of %v)", dir, PreferredNames)
}

// Load reads and decodes a project file. Structural defects found by
// Validate are returned as warnings, not errors; a partially consistent
// project still loads and the chart drops what it cannot resolve.
func Load(path string) (*model.Project, []error, error) {
	defer debug.LogEnterExit("loader.Load")()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading project file: %w", err)
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = filepath.Base(filepath.Dir(path))
	}

	warnings := p.Validate()
	debug.Log("loaded %s: %d items, %d deps, %d milestones, %d warnings",
		path, len(p.WorkItems), len(p.Dependencies), len(p.Milestones), len(warnings))
	return &p, warnings, nil
}

// BudgetSummary aggregates invoiced amounts against budget sources.
type BudgetSummary struct {
	TotalBudgetCents   int64
	TotalInvoicedCents int64
	TotalPaidCents     int64
	ByVendor           map[string]int64 // vendor id → invoiced cents
}

// SummarizeBudget rolls up invoices and budget sources for the header view.
func SummarizeBudget(p *model.Project) BudgetSummary {
	s := BudgetSummary{ByVendor: make(map[string]int64, len(p.Vendors))}
	for _, b := range p.BudgetSources {
		s.TotalBudgetCents += b.AmountCents
	}
	for _, inv := range p.Invoices {
		s.TotalInvoicedCents += inv.AmountCents
		if inv.PaidAt != nil {
			s.TotalPaidCents += inv.AmountCents
		}
		s.ByVendor[inv.VendorID] += inv.AmountCents
	}
	return s
}

// VendorsByInvoiced returns vendor ids ordered by descending invoiced total.
func (s BudgetSummary) VendorsByInvoiced() []string {
	ids := make([]string, 0, len(s.ByVendor))
	for id := range s.ByVendor {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.ByVendor[ids[i]] != s.ByVendor[ids[j]] {
			return s.ByVendor[ids[i]] > s.ByVendor[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
