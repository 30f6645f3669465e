package loader

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sitework/pkg/model"
)

// MultiResult is the outcome of loading one project in a multi-project pass.
type MultiResult struct {
	Path     string
	Project  *model.Project
	Warnings []error
	Err      error
}

// LoadMany loads several project files in parallel. Individual failures are
// reported per path; only context cancellation aborts the whole pass.
func LoadMany(ctx context.Context, paths []string) ([]MultiResult, error) {
	results := make([]MultiResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, warns, err := Load(path)
			results[i] = MultiResult{Path: path, Project: p, Warnings: warns, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
