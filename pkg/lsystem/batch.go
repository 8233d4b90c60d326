package lsystem

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the pool size used when GenerateAll is given zero.
var DefaultWorkers = runtime.NumCPU()

// Outcome pairs a config with its generation result.
type Outcome struct {
	Config Config
	Result *Result
	Err    error
}

// GenerateAll generates every config on a bounded pool of workers.
// Outcomes are returned in input order. Per-config failures are recorded
// in Outcome.Err; the returned error is non-nil only if ctx is done
// before all configs were started.
func GenerateAll(ctx context.Context, cfgs []Config, lim Limits, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	out := make([]Outcome, len(cfgs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return nil, err
		}
		g.Go(func() error {
			res, err := Generate(cfg, lim)
			out[i] = Outcome{Config: cfg, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}
