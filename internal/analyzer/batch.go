package analyzer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Batch analyzes many selections on a bounded worker pool; workers <= 0 uses one
// per CPU. Results come back in request order. Cancelling ctx stops scheduling new work.
func (a *Analyzer) Batch(ctx context.Context, reqs []Request, workers int) ([]models.AnalysisResult, error) {
	return a.BatchFunc(ctx, len(reqs), workers, func(_ context.Context, i int) Request {
		return reqs[i]
	})
}

// BatchFunc is Batch for requests that are assembled inside the pool. prepare runs
// on a worker for item i, under the pool's context, before the item is analyzed.
func (a *Analyzer) BatchFunc(ctx context.Context, n, workers int, prepare func(ctx context.Context, i int) Request) ([]models.AnalysisResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]models.AnalysisResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req := prepare(gctx, i)
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch analysis: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch analysis: %w", err)
	}

	return results, nil
}
