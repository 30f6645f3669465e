package datasource

import (
	"fmt"

	"github.com/vanderheijden86/sitework/pkg/debug"
	"github.com/vanderheijden86/sitework/pkg/loader"
	"github.com/vanderheijden86/sitework/pkg/model"
)

// LoadProject performs multi-source detection and loading for a .sitework
// directory. It discovers the available sources (SQLite database, JSON file),
// then loads from the freshest one, falling back to older sources when a
// fresher one fails to open or parse. SQLite wins ties since it reflects the
// most recent state of edits made through the database.
func LoadProject(siteDir string) (*model.Project, []error, error) {
	sources, err := Discover(siteDir)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	for _, source := range sources {
		project, warnings, err := LoadFromSource(source)
		if err != nil {
			debug.Log("datasource: %s failed: %v", source.Path, err)
			lastErr = err
			continue
		}
		debug.Log("datasource: loaded %d work items from %s", len(project.WorkItems), source.Path)
		return project, warnings, nil
	}
	return nil, nil, fmt.Errorf("no loadable source in %s: %w", siteDir, lastErr)
}

// LoadFromSource loads a project from a specific DataSource, dispatching to
// the appropriate reader based on the source type.
func LoadFromSource(source DataSource) (*model.Project, []error, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, nil, fmt.Errorf("opening SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		project, err := reader.LoadProject()
		if err != nil {
			return nil, nil, err
		}
		return project, project.Validate(), nil

	case SourceTypeJSON:
		return loader.Load(source.Path)

	default:
		return nil, nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
