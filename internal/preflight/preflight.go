package preflight

import (
	"context"

	"golang.org/x/sync/errgroup"

	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/services/textgen"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// RunAll executes all applicable preflight checks for cfg and cat.
func RunAll(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, opts ...textgen.Option) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func(context.Context) Result{
		func(context.Context) Result {
			return CheckDirectoryReadable("Assets directory", cfg.Paths.AssetsDir)
		},
		func(context.Context) Result {
			return CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir)
		},
	}
	if cat != nil {
		checks = append(checks, func(context.Context) Result {
			return CheckCoverage("Image coverage", cfg.Paths.AssetsDir, cat)
		})
	}
	if !cfg.OfflineProvider() {
		checks = append(checks, func(ctx context.Context) Result {
			return CheckLLM(ctx, "Text service", cfg.GetLLM(), opts...)
		})
	}

	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
