// Package datasource discovers and reads sitework project data. A project
// directory may hold a JSON project file, a SQLite database, or both; the
// freshest valid source wins.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SourceType identifies the type of data source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (project.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON project file (project.json).
	SourceTypeJSON SourceType = "json"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite = 100
	PriorityJSON   = 50
)

// DataSource represents a potential source of project data.
type DataSource struct {
	Type     SourceType
	Path     string
	Priority int
	ModTime  time.Time
	Size     int64
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339))
}

// Discover finds candidate sources under the given .sitework directory.
// Sources are returned freshest-first; equal timestamps fall back to
// priority (SQLite over JSON).
func Discover(siteDir string) ([]DataSource, error) {
	candidates := []struct {
		name     string
		typ      SourceType
		priority int
	}{
		{"project.db", SourceTypeSQLite, PrioritySQLite},
		{"project.json", SourceTypeJSON, PriorityJSON},
		{"sitework.json", SourceTypeJSON, PriorityJSON},
	}

	var sources []DataSource
	for _, c := range candidates {
		p := filepath.Join(siteDir, c.name)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		sources = append(sources, DataSource{
			Type:     c.typ,
			Path:     p,
			Priority: c.priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no project data found in %s", siteDir)
	}

	sort.Slice(sources, func(i, j int) bool {
		if !sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].ModTime.After(sources[j].ModTime)
		}
		return sources[i].Priority > sources[j].Priority
	})
	return sources, nil
}
