package mkvprobe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// IdentifyAll identifies every path concurrently, running at most limit
// probes at once (limit <= 0 means no limit). Results are returned in the
// order of paths; the first failure cancels the remaining probes.
func IdentifyAll(ctx context.Context, prober Prober, paths []string, limit int) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			result, err := prober.Identify(gctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
